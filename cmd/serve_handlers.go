package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/headcount/internal/countries"
	"github.com/sells-group/headcount/internal/csvio"
	"github.com/sells-group/headcount/internal/enrich"
	"github.com/sells-group/headcount/internal/lookup"
)

// maxUploadBytes caps the multipart form held in memory per request.
const maxUploadBytes = 32 << 20

// apiServer holds the handler dependencies for the HTTP surface.
type apiServer struct {
	client      lookup.Client
	dispatchOpt []enrich.DispatcherOption
}

func newAPIServer(client lookup.Client, opts ...enrich.DispatcherOption) *apiServer {
	return &apiServer{client: client, dispatchOpt: opts}
}

// dispatcherOptions derives dispatcher options from the loaded config.
func dispatcherOptions() []enrich.DispatcherOption {
	return []enrich.DispatcherOption{
		enrich.WithConcurrency(cfg.Lookup.Concurrency),
		enrich.WithLookupTimeout(time.Duration(cfg.Lookup.TimeoutSecs) * time.Second),
	}
}

// Router builds the chi router with the CORS allowlist applied.
func (s *apiServer) Router(corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/api/countries", s.handleCountries)
	r.Post("/api/process", s.handleProcess)

	return r
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, countries.List())
}

// handleProcess accepts a multipart upload (file + country), runs the
// enrichment job synchronously, and streams the augmented CSV back as an
// attachment. Row-level lookup failures degrade to blank fields; only
// input, validation, and internal errors produce a non-success response.
func (s *apiServer) handleProcess(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	country, ok := countries.Lookup(r.FormValue("country"))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid country selection: %s", r.FormValue("country")))
		return
	}

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		writeError(w, http.StatusBadRequest, "invalid file format, please upload a CSV file")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}

	records, err := csvio.Ingest(data, country.Name)
	if err != nil {
		if csvio.IsInputError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		zap.L().Error("ingest failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	job := enrich.NewJob(country.ID, records)
	log := zap.L().With(zap.String("job_id", job.ID))

	reporter := enrich.NewReporter(job.Total, func(pct int) {
		log.Info("job progress", zap.Int("percent", pct))
	})

	dispatcher := enrich.NewDispatcher(s.client, s.dispatchOpt...)
	if err := dispatcher.Run(r.Context(), job, reporter); err != nil {
		// The only Run error is caller cancellation; the response writer
		// is gone, so just log it.
		log.Warn("job aborted", zap.Error(err))
		return
	}

	out, err := csvio.Emit(job.Records)
	if err != nil {
		log.Error("emit failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", csvio.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", csvio.OutputFilename))
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
