package rest

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/graingert/mrjob/internal/shared/config"
	"github.com/graingert/mrjob/internal/shared/logging"
	"github.com/graingert/mrjob/pkg/compat"
)

// API serves version and jobconf lookups over HTTP. Requests that omit a
// version are answered for the configured default Hadoop version.
type API struct {
	defaultVersion string
	logger         logging.Logger
}

func NewAPI(defaultVersion string, logger logging.Logger) *API {
	return &API{
		defaultVersion: defaultVersion,
		logger:         logger,
	}
}

func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/translate", a.translate)
	mux.HandleFunc("GET /api/capabilities", a.listCapabilities)
	mux.HandleFunc("GET /api/capabilities/{name}", a.getCapability)
	mux.HandleFunc("POST /api/jobconf/translate", a.translateJobConf)
	mux.HandleFunc("GET /api/versions/compare", a.compareVersions)
}

func (a *API) version(r *http.Request) string {
	if v := r.URL.Query().Get("version"); v != "" {
		return v
	}
	return a.defaultVersion
}

// translate handles GET /api/translate?key=...&version=...
func (a *API) translate(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		a.respondError(w, http.StatusBadRequest, "key required", "")
		return
	}

	version := a.version(r)
	a.respondJSON(w, http.StatusOK, TranslateResponse{
		Key:        key,
		Version:    version,
		Translated: compat.TranslateJobConf(key, version),
	})
}

// listCapabilities handles GET /api/capabilities?version=...
func (a *API) listCapabilities(w http.ResponseWriter, r *http.Request) {
	version := a.version(r)
	a.respondJSON(w, http.StatusOK, CapabilitiesResponse{
		Version:      version,
		Capabilities: compat.SupportedCapabilities(version),
	})
}

// getCapability handles GET /api/capabilities/{name}?version=...
func (a *API) getCapability(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	predicate, err := compat.Capability(name)
	if err != nil {
		a.respondError(w, http.StatusNotFound, "capability not found", name)
		return
	}

	version := a.version(r)
	a.respondJSON(w, http.StatusOK, CapabilityResponse{
		Name:      name,
		Version:   version,
		Supported: predicate(version),
	})
}

// translateJobConf handles POST /api/jobconf/translate
func (a *API) translateJobConf(w http.ResponseWriter, r *http.Request) {
	var req TranslateJobConfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.Version == "" {
		req.Version = a.defaultVersion
	}
	if req.JobConf == nil {
		req.JobConf = map[string]string{}
	}

	translated := compat.TranslateJobConfMap(req.JobConf, req.Version)
	a.logger.Debug("Translated jobconf",
		"request_id", RequestIDFromContext(r.Context()),
		"version", req.Version,
		"keys", len(translated),
	)

	a.respondJSON(w, http.StatusOK, TranslateJobConfResponse{
		Version: req.Version,
		JobConf: translated,
	})
}

// compareVersions handles GET /api/versions/compare?a=...&b=...
func (a *API) compareVersions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	left, right := query.Get("a"), query.Get("b")
	if left == "" || right == "" {
		a.respondError(w, http.StatusBadRequest, "versions a and b required", "")
		return
	}

	a.respondJSON(w, http.StatusOK, CompareVersionsResponse{
		A:      left,
		B:      right,
		Result: compat.ParseVersion(left).Compare(compat.ParseVersion(right)),
	})
}

func (a *API) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.logger.Error("Failed to encode response", "error", err)
	}
}

func (a *API) respondError(w http.ResponseWriter, statusCode int, error string, message string) {
	resp := ErrorResponse{
		Error:   error,
		Message: message,
		Code:    statusCode,
	}
	a.respondJSON(w, statusCode, resp)
}

// NewHandler builds the API handler with its middleware chain and a
// /metrics endpoint backed by reg.
func NewHandler(defaultVersion string, logger logging.Logger, reg *prometheus.Registry) http.Handler {
	api := NewAPI(defaultVersion, logger)
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return ChainMiddleware(
		mux,
		RecoveryMiddleware(logger),
		RequestIDMiddleware,
		MetricsMiddleware(NewMetrics(reg)),
		LoggingMiddleware(logger),
	)
}

func NewServer(cfg config.RESTConfig, defaultVersion string, logger logging.Logger, reg *prometheus.Registry) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewHandler(defaultVersion, logger, reg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
