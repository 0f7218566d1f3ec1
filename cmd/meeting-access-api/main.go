// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

// Package main is the meeting access service API that provides a RESTful API
// for meeting admission, recurring-series expansion, room credentials, and
// recording orchestration, and handles NATS messages for the platform.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/handlers"
	"github.com/classlive/meeting-access-service/internal/infrastructure/auth"
	"github.com/classlive/meeting-access-service/internal/infrastructure/capture"
	"github.com/classlive/meeting-access-service/internal/infrastructure/credentials"
	"github.com/classlive/meeting-access-service/internal/infrastructure/messaging"
	"github.com/classlive/meeting-access-service/internal/logging"
	"github.com/classlive/meeting-access-service/internal/service"
)

const shutdownTimeout = 25 * time.Second

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Set up the JWT validator used by the authentication middleware.
	jwtAuth, err := setupJWTAuth()
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up JWT authentication")
		os.Exit(1)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	// Setup NATS connection
	natsConn, err := setupNATS(ctx, env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	// Get the key-value stores for the service.
	repos, err := getKeyValueStores(ctx, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	// Initialize services
	serviceConfig := service.ServiceConfig{
		OccurrenceCount:    env.OccurrenceCount,
		RecordingOutputDir: env.RecordingOutputDir,
	}
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	captureClient := capture.NewClient(capture.Config{
		BaseURL:   env.Capture.BaseURL,
		AuthURL:   env.Capture.AuthURL,
		APIKey:    env.Capture.APIKey,
		APISecret: env.Capture.APISecret,
	})
	credentialIssuer := credentials.NewIssuer(credentials.Config{
		APIKey:    env.Signer.APIKey,
		APISecret: env.Signer.APISecret,
		TokenTTL:  env.Signer.TokenTTL,
	}, domain.RealClock{})
	passwordHasher := auth.NewBcryptHasher()
	occurrenceService := service.NewOccurrenceService()
	meetingService := service.NewMeetingService(
		repos.Meeting,
		repos.WaitingRequest,
		repos.Recording,
		repos.PersonalMeeting,
		messageBuilder,
		occurrenceService,
		passwordHasher,
		domain.RealClock{},
		serviceConfig,
	)
	admissionService := service.NewAdmissionService(
		repos.Meeting,
		repos.WaitingRequest,
		credentialIssuer,
		passwordHasher,
		domain.RealClock{},
	)
	recordingService := service.NewRecordingService(
		repos.Meeting,
		repos.Recording,
		captureClient,
		messageBuilder,
		domain.RealClock{},
		serviceConfig,
	)
	personalMeetingService := service.NewPersonalMeetingService(
		repos.Meeting,
		repos.PersonalMeeting,
		messageBuilder,
		domain.RealClock{},
	)

	// Initialize handlers
	router := handlers.NewRouter(handlers.RouterConfig{
		MeetingHandler:     handlers.NewMeetingHandler(meetingService, personalMeetingService),
		AdmissionHandler:   handlers.NewAdmissionHandler(admissionService),
		RecordingHandler:   handlers.NewRecordingHandler(recordingService),
		RecordingOutputDir: localRecordingDir(captureClient, env),
		Ready:              meetingService.ServiceReady,
	})
	messageHandler := handlers.NewMessageHandler(meetingService)

	httpServer := setupHTTPServer(flags, router, jwtAuth, &gracefulCloseWG)

	// Create NATS subscriptions for the service.
	err = createNatsSubscriptions(ctx, messageHandler, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating NATS subscriptions")
		return
	}

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, &gracefulCloseWG, cancel)
}

// localRecordingDir returns the recording output directory only when the
// capture service writes locally; serving it otherwise would expose an
// unused path.
func localRecordingDir(captureClient *capture.Client, env environment) string {
	if captureClient.IsConfigured() && captureClient.IsLocalMode() {
		return env.RecordingOutputDir
	}
	return ""
}

// gracefulShutdown drains the HTTP server and the NATS connection, bounded
// by shutdownTimeout.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down http server")
	}
	gracefulCloseWG.Done()

	if natsConn != nil && !natsConn.IsClosed() {
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
		}
	}

	cancel()
	gracefulCloseWG.Wait()
	slog.Info("shutdown complete")
}
