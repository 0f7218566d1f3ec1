// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/models"
	"github.com/classlive/meeting-access-service/internal/infrastructure/auth"
	"github.com/classlive/meeting-access-service/internal/infrastructure/messaging"
	"github.com/classlive/meeting-access-service/internal/infrastructure/store"
	"github.com/classlive/meeting-access-service/internal/logging"
)

const natsConnectTimeout = 10 * time.Second

// setupJWTAuth configures JWT authentication for the service
func setupJWTAuth() (*auth.JWTAuth, error) {
	jwtAuthConfig := auth.JWTAuthConfig{
		JWKSURL:          os.Getenv("JWKS_URL"),
		Audience:         os.Getenv("JWT_AUDIENCE"),
		MockLocalUserUID: os.Getenv("JWT_AUTH_DISABLED_MOCK_LOCAL_USER"),
	}
	return auth.NewJWTAuth(jwtAuthConfig)
}

// setupNATS connects to NATS. The connection participates in graceful
// shutdown: a closed handler releases the wait group so draining can finish
// before the process exits.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	slog.InfoContext(ctx, "attempting to connect to NATS", "nats_url", env.NatsURL)

	gracefulCloseWG.Add(1)
	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.DrainTimeout(natsConnectTimeout),
		nats.ConnectHandler(func(_ *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection established", "nats_url", env.NatsURL)
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.ErrorContext(ctx, "async NATS error",
					logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue)
				return
			}
			slog.ErrorContext(ctx, "async NATS error outside subscription", logging.ErrKey, err)
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection closed")
			gracefulCloseWG.Done()
			done <- os.Interrupt
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, err
	}

	return natsConn, nil
}

// repositories bundles the KV-backed repositories used by the services.
type repositories struct {
	Meeting         *store.NatsMeetingRepository
	WaitingRequest  *store.NatsWaitingRequestRepository
	Recording       *store.NatsRecordingRepository
	PersonalMeeting *store.NatsPersonalMeetingRepository
}

// getKeyValueStores creates (or binds to) the service's KV buckets and wraps
// them in repositories.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn) (*repositories, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, err
	}

	buckets := map[string]jetstream.KeyValue{}
	for _, bucket := range []string{
		store.KVStoreNameMeetings,
		store.KVStoreNameWaitingRequests,
		store.KVStoreNameRecordings,
		store.KVStoreNamePersonalMeetings,
	} {
		kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: bucket})
		if err != nil {
			return nil, err
		}
		buckets[bucket] = kv
	}

	return &repositories{
		Meeting:         store.NewNatsMeetingRepository(buckets[store.KVStoreNameMeetings]),
		WaitingRequest:  store.NewNatsWaitingRequestRepository(buckets[store.KVStoreNameWaitingRequests]),
		Recording:       store.NewNatsRecordingRepository(buckets[store.KVStoreNameRecordings]),
		PersonalMeeting: store.NewNatsPersonalMeetingRepository(buckets[store.KVStoreNamePersonalMeetings]),
	}, nil
}

// createNatsSubscriptions subscribes the message handler to the service's
// queue subjects.
func createNatsSubscriptions(ctx context.Context, handler domain.MessageHandler, natsConn *nats.Conn) error {
	for _, subject := range []string{
		models.MeetingGetTitleSubject,
	} {
		_, err := natsConn.QueueSubscribe(subject, models.MeetingsAPIQueue, func(msg *nats.Msg) {
			handler.HandleMessage(ctx, messaging.NewNatsMessage(msg))
		})
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "subscribed to NATS subject", "subject", subject, "queue", models.MeetingsAPIQueue)
	}
	return nil
}
