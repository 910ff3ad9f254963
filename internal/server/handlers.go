package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Adithya151/DCF---racker/internal/aggregate"
	"github.com/Adithya151/DCF---racker/internal/logging"
	"github.com/Adithya151/DCF---racker/internal/tracker"
)

// dateLayout is the accepted format for submission dates.
const dateLayout = "2006-01-02"

// Request body limits.
const (
	maxBodyBytes       = 1 << 16
	maxImportBodyBytes = 1 << 22
)

// LogActivityRequest is the payload for POST /v1/users/{user}/activities.
type LogActivityRequest struct {
	// Date is YYYY-MM-DD; empty means today.
	Date           string  `json:"date,omitempty"`
	EmailsSent     int     `json:"emails_sent"`
	DriveStorageGB float64 `json:"drive_storage_gb"`
	GitHubCommits  int     `json:"github_commits"`
}

// ImportRequest is the payload for POST /v1/users/{user}/imports.
type ImportRequest struct {
	Activities []LogActivityRequest `json:"activities"`
	// BatchSize is optional; zero uses the default.
	BatchSize int `json:"batch_size,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) registerRoutes(r *mux.Router) {
	users := r.PathPrefix("/v1/users/{user}").Subrouter()
	users.HandleFunc("/activities", s.logActivity).Methods(http.MethodPost)
	users.HandleFunc("/activities", s.resetActivities).Methods(http.MethodDelete)
	users.HandleFunc("/imports", s.importActivities).Methods(http.MethodPost)
	users.HandleFunc("/dashboard", s.dashboard).Methods(http.MethodGet)

	r.HandleFunc("/v1/leaderboard", s.leaderboard).Methods(http.MethodGet)
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	// Registered last so they only see methods no route above accepted.
	for _, path := range []string{"/activities", "/imports", "/dashboard"} {
		users.HandleFunc(path, methodNotAllowed)
	}
	r.HandleFunc("/v1/leaderboard", methodNotAllowed)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed",
		fmt.Sprintf("%s is not supported on %s", r.Method, r.URL.Path))
}

// pathUser returns the {user} route variable.
func pathUser(r *http.Request) string {
	return strings.TrimSpace(mux.Vars(r)["user"])
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) logActivity(w http.ResponseWriter, r *http.Request) {
	userID := pathUser(r)

	var req LogActivityRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	in, err := req.input(userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	res, err := s.svc.LogActivity(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (req LogActivityRequest) input(userID string) (tracker.ActivityInput, error) {
	in := tracker.ActivityInput{
		UserID:         userID,
		EmailsSent:     req.EmailsSent,
		DriveStorageGB: req.DriveStorageGB,
		GitHubCommits:  req.GitHubCommits,
	}
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			return tracker.ActivityInput{}, fmt.Errorf("date must be %s", dateLayout)
		}
		in.Date = parsed
	}
	return in, nil
}

// importActivities stores every activity in the body for one user. A single
// invalid entry rejects the request before anything is written.
func (s *Server) importActivities(w http.ResponseWriter, r *http.Request) {
	userID := pathUser(r)

	var req ImportRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxImportBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	inputs := make([]tracker.ActivityInput, len(req.Activities))
	for i, a := range req.Activities {
		in, err := a.input(userID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", fmt.Sprintf("activity %d: %v", i+1, err))
			return
		}
		inputs[i] = in
	}

	res, err := s.svc.Import(r.Context(), inputs, tracker.ImportOptions{BatchSize: req.BatchSize})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	userID := pathUser(r)

	d, err := s.svc.Dashboard(r.Context(), userID, aggregate.Period(r.URL.Query().Get("period")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) resetActivities(w http.ResponseWriter, r *http.Request) {
	userID := pathUser(r)

	res, err := s.svc.Reset(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := s.svc.Leaderboard(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, tracker.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	logging.FromContext(r.Context()).Error().
		Ctx(r.Context()).
		Str("component", "server").
		Str("path", r.URL.Path).
		Err(err).
		Msg("request failed")
	writeError(w, http.StatusInternalServerError, "server_error", "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
