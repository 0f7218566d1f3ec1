// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/classlive/meeting-access-service/internal/logging"
)

// flags are the command line flags for the meeting access service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the meeting access service.
type environment struct {
	Port               string
	NatsURL            string
	RecordingOutputDir string
	OccurrenceCount    int
	Capture            captureConfig
	Signer             signerConfig
}

// captureConfig holds external capture-service configuration.
type captureConfig struct {
	BaseURL   string
	AuthURL   string
	APIKey    string
	APISecret string
}

// signerConfig holds room-credential signer configuration.
type signerConfig struct {
	APIKey    string
	APISecret string
	TokenTTL  time.Duration
}

// parseFlags parses command line flags for the meeting access service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the meeting access service. A
// local .env file is loaded first if present.
func parseEnv() environment {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.With(logging.ErrKey, err).Warn("error loading .env file")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	recordingOutputDir := os.Getenv("RECORDING_OUTPUT_DIR")
	if recordingOutputDir == "" {
		recordingOutputDir = "./recordings"
	}

	occurrenceCount := 0
	if raw := os.Getenv("RECURRING_OCCURRENCE_COUNT"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count <= 0 {
			slog.With("value", raw).Warn("invalid RECURRING_OCCURRENCE_COUNT, using default")
		} else {
			occurrenceCount = count
		}
	}

	return environment{
		Port:               port,
		NatsURL:            natsURL,
		RecordingOutputDir: recordingOutputDir,
		OccurrenceCount:    occurrenceCount,
		Capture:            parseCaptureConfig(),
		Signer:             parseSignerConfig(),
	}
}

// parseCaptureConfig parses capture-service configuration from environment
// variables. All fields may be empty: an unconfigured capture service is a
// supported state that surfaces as service-unavailable on recording starts.
func parseCaptureConfig() captureConfig {
	return captureConfig{
		BaseURL:   os.Getenv("CAPTURE_SERVICE_URL"),
		AuthURL:   os.Getenv("CAPTURE_SERVICE_AUTH_URL"),
		APIKey:    os.Getenv("CAPTURE_API_KEY"),
		APISecret: os.Getenv("CAPTURE_API_SECRET"),
	}
}

// parseSignerConfig parses credential-signer configuration from environment
// variables. Missing keys leave the signer unconfigured; credential minting
// then reports service-unavailable instead of failing generically.
func parseSignerConfig() signerConfig {
	tokenTTL := time.Duration(0)
	if raw := os.Getenv("CREDENTIAL_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			slog.With("value", raw).Warn("invalid CREDENTIAL_TTL, using default")
		} else {
			tokenTTL = ttl
		}
	}

	return signerConfig{
		APIKey:    os.Getenv("SIGNER_API_KEY"),
		APISecret: os.Getenv("SIGNER_API_SECRET"),
		TokenTTL:  tokenTTL,
	}
}
