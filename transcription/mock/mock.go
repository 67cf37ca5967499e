// Package mock is a deterministic transcription backend for tests and
// offline development. It never touches the network.
package mock

import (
	"context"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kbukum/trascrivi/provider"
	"github.com/kbukum/trascrivi/resilience"
	"github.com/kbukum/trascrivi/transcription"
)

// ProviderName is the registered name for the mock backend.
const ProviderName = transcription.BackendMock

// DefaultText is returned when Config.Text is empty.
const DefaultText = `Dopo una lunga riflessione, abbiamo deciso di procedere con il progetto.
La decisione non è stata facile, ma crediamo che sia la scelta giusta
per il futuro dell'azienda. Inizieremo la prossima settimana con una
riunione di pianificazione.`

const (
	minWordConfidence = 0.85
	wordGapMs         = 40
	baseWordMs        = 180
	perRuneMs         = 55
)

// Config configures the mock backend.
type Config struct {
	Delay time.Duration `json:"delay" yaml:"delay"`
	Text  string        `json:"text" yaml:"text"`
}

// Provider implements transcription.Service with a canned transcript.
type Provider struct {
	delay  time.Duration
	result transcription.Result
}

// NewProvider creates a mock backend. A zero Delay becomes one second; pass a
// negative Delay to respond immediately.
func NewProvider(cfg Config) *Provider {
	if cfg.Delay == 0 {
		cfg.Delay = transcription.DefaultMockDelay
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	text := cfg.Text
	if strings.TrimSpace(text) == "" {
		text = DefaultText
	}
	return &Provider{delay: cfg.Delay, result: synthesize(transcription.NormalizeText(text))}
}

// Factory builds mock providers from a config map with "delay" and "text" keys.
func Factory() provider.Factory[transcription.Service] {
	return func(cfg map[string]any) (transcription.Service, error) {
		delay, err := provider.Duration(cfg, "delay", transcription.DefaultMockDelay)
		if err != nil {
			return nil, err
		}
		return NewProvider(Config{Delay: delay, Text: provider.String(cfg, "text", "")}), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable always reports true.
func (p *Provider) IsAvailable(context.Context) bool { return true }

// Transcribe waits for the configured delay and returns the canned result.
// audioURL is ignored. The only error is ctx's own when it ends first.
func (p *Provider) Transcribe(ctx context.Context, _ string) (*transcription.Result, error) {
	if err := resilience.Sleep(ctx, p.delay); err != nil {
		return nil, err
	}
	out := p.result
	out.Words = append([]transcription.Word(nil), p.result.Words...)
	return &out, nil
}

// synthesize derives word timings from word length and word confidences from
// a PRNG seeded with the text, so equal text always yields equal output.
func synthesize(text string) transcription.Result {
	fields := strings.Fields(text)
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	rng := rand.New(rand.NewPCG(h.Sum64(), uint64(len(fields))))

	words := make([]transcription.Word, 0, len(fields))
	var cursor int64
	for _, f := range fields {
		dur := int64(baseWordMs + perRuneMs*utf8.RuneCountInString(f))
		words = append(words, transcription.Word{
			Text:       f,
			Start:      cursor,
			End:        cursor + dur,
			Confidence: minWordConfidence + rng.Float64()*(1-minWordConfidence),
		})
		cursor += dur + wordGapMs
	}
	return transcription.Result{
		Text:       text,
		Confidence: transcription.MeanConfidence(words),
		Words:      words,
	}
}
