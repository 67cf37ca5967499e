package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/kbukum/trascrivi/api"
	"github.com/kbukum/trascrivi/auth"
	"github.com/kbukum/trascrivi/bootstrap"
	"github.com/kbukum/trascrivi/component"
	"github.com/kbukum/trascrivi/config"
	"github.com/kbukum/trascrivi/observability"
	"github.com/kbukum/trascrivi/server"
	"github.com/kbukum/trascrivi/server/middleware"
	"github.com/kbukum/trascrivi/storage"
	"github.com/kbukum/trascrivi/storage/local"
	_ "github.com/kbukum/trascrivi/storage/s3"
	_ "github.com/kbukum/trascrivi/storage/supabase"
	"github.com/kbukum/trascrivi/transcription"
	"github.com/kbukum/trascrivi/transcription/assemblyai"
	"github.com/kbukum/trascrivi/transcription/mock"
	"github.com/kbukum/trascrivi/version"
)

const serviceName = "trascrivi"

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := &AppConfig{}
	if err := config.LoadConfig(serviceName, cfg); err != nil {
		return err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	build := version.Get()
	if cfg.Version == "" {
		cfg.Version = build.String()
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}

	app.Logger.Debug("build info", map[string]interface{}{
		"version":    build.String(),
		"go_version": build.GoVersion,
	})

	verifier, err := auth.NewVerifier(cfg.Auth)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	selector := transcription.NewSelector(cfg.Transcription)
	selector.Register(transcription.BackendMock, mock.Factory())
	selector.Register(transcription.BackendAssemblyAI, assemblyai.Factory())

	storageComp := storage.NewComponent(cfg.Storage, app.Logger)
	srv := server.New(cfg.Server, app.Logger)
	srv.ApplyDefaults(cfg.Name, app.Components.HealthAll)

	httpMetrics, err := observability.NewHTTPMetrics(observability.Meter(serviceName))
	if err != nil {
		return fmt.Errorf("http metrics: %w", err)
	}
	engine := srv.GinEngine()
	engine.Use(middleware.Tracing(), middleware.Metrics(httpMetrics))

	api.NewHandler(storageComp, selector, app.Logger.WithComponent("api")).Register(engine,
		middleware.Auth(middleware.AuthConfig{Validator: auth.Validator(verifier)}),
		middleware.RateLimit(cfg.RateLimit),
	)

	app.OnConfigure(func(_ context.Context, a *bootstrap.App[*AppConfig]) error {
		fs, ok := storageComp.Storage().(*local.Storage)
		if !ok {
			return nil
		}
		srv.Handle("/files/", http.StripPrefix("/files/", http.FileServer(http.Dir(fs.Root()))))
		a.Logger.Info("serving local audio files", map[string]interface{}{"root": fs.Root()})
		return nil
	})

	for _, c := range []component.Component{
		observability.NewComponent(cfg.Observability, cfg.Name, cfg.Version, cfg.Environment),
		storageComp,
		transcription.NewComponent(selector),
		server.NewComponent(srv),
	} {
		if err := app.RegisterComponent(c); err != nil {
			return err
		}
	}

	return app.Run(ctx)
}
