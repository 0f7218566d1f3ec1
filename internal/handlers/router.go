// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RouterConfig carries the handlers and static-file settings the router
// mounts.
type RouterConfig struct {
	MeetingHandler   *MeetingHandler
	AdmissionHandler *AdmissionHandler
	RecordingHandler *RecordingHandler

	// RecordingOutputDir, when non-empty, is served read-only under
	// /recordings/ for local-mode captures.
	RecordingOutputDir string

	// Ready reports whether the service's dependencies are initialized;
	// it backs the readiness probe.
	Ready func() bool
}

// NewRouter mounts the HTTP surface.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if cfg.Ready != nil && !cfg.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/meetings", func(r chi.Router) {
		r.Post("/", cfg.MeetingHandler.CreateMeeting)
		r.Get("/", cfg.MeetingHandler.ListMeetings)

		// Registered before /{uid} so the literal segment wins.
		r.Get("/personal-meeting/current", cfg.MeetingHandler.GetPersonalMeeting)

		r.Route("/{uid}", func(r chi.Router) {
			r.Get("/", cfg.MeetingHandler.GetMeeting)
			r.Patch("/", cfg.MeetingHandler.UpdateMeeting)
			r.Delete("/", cfg.MeetingHandler.DeleteMeeting)

			r.Post("/join", cfg.AdmissionHandler.Join)
			r.Route("/waiting", func(r chi.Router) {
				r.Get("/", cfg.AdmissionHandler.ListWaiting)
				r.Get("/{requestUID}", cfg.AdmissionHandler.PollRequest)
				r.Post("/{requestUID}/approve", cfg.AdmissionHandler.ApproveRequest)
				r.Post("/{requestUID}/deny", cfg.AdmissionHandler.DenyRequest)
			})

			r.Route("/recordings", func(r chi.Router) {
				r.Get("/", cfg.RecordingHandler.ListRecordings)
				r.Post("/start", cfg.RecordingHandler.StartRecording)
				r.Post("/{recordingUID}/stop", cfg.RecordingHandler.StopRecording)
				r.Delete("/{recordingUID}", cfg.RecordingHandler.DeleteRecording)
			})
		})
	})

	if cfg.RecordingOutputDir != "" {
		fileServer := http.StripPrefix("/recordings/", http.FileServer(http.Dir(cfg.RecordingOutputDir)))
		r.Get("/recordings/*", fileServer.ServeHTTP)
	}

	return otelhttp.NewHandler(r, "meeting-access-api")
}
