package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hiscore-tracker/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func newMux(digests DigestReader) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/digest", digestHandler(digests))
	return mux
}

// digestHandler serves the last published digest as JSON.
func digestHandler(digests DigestReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if digests == nil {
			http.Error(w, "leaderboards are not published", http.StatusNotFound)
			return
		}

		d, err := digests.LatestDigest(r.Context())
		switch {
		case errors.Is(err, domain.ErrNotFound):
			http.Error(w, "no digest published yet", http.StatusNotFound)
			return
		case err != nil:
			slog.Error("Failed to read digest", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(d); err != nil {
			slog.Error("Failed to encode digest", "error", err)
		}
	}
}
