// Package config loads service configuration from config.yml, .env files and
// the process environment using Viper.
//
// Environment variables map onto nested keys by splitting on underscores, so
// TRANSCRIPTION_ASSEMBLYAI_API_KEY populates transcription.assemblyai.api_key.
package config
