// Package api exposes the driver directory as JSON over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/jwulff/f1grid/internal/directory"
	"github.com/jwulff/f1grid/internal/openf1"
)

// DriverView is a driver as served to clients, with the presentation fields
// precomputed.
type DriverView struct {
	DriverNumber  int    `json:"driver_number"`
	BroadcastName string `json:"broadcast_name"`
	FullName      string `json:"full_name"`
	TeamName      string `json:"team_name"`
	NameAcronym   string `json:"name_acronym"`
	HeadshotURL   string `json:"headshot_url,omitempty"`
	TeamColor     string `json:"team_color"`
	CountryCode   string `json:"country_code"`
	CountryISO2   string `json:"country_iso2"`
	FlagURL       string `json:"flag_url"`
}

// DriversResponse is the body of GET /drivers.
type DriversResponse struct {
	Query      string       `json:"query,omitempty"`
	Count      int          `json:"count"`
	Total      int          `json:"total"`
	Suggestion string       `json:"suggestion,omitempty"`
	Drivers    []DriverView `json:"drivers"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	State      string     `json:"state"`
	SessionKey int        `json:"session_key"`
	Seq        uint64     `json:"seq"`
	Drivers    int        `json:"drivers"`
	LoadedAt   *time.Time `json:"loaded_at,omitempty"`
	Failure    string     `json:"failure,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// FlagResponse is the body of GET /flags/{code}.
type FlagResponse struct {
	CountryCode string `json:"country_code"`
	CountryISO2 string `json:"country_iso2"`
	FlagURL     string `json:"flag_url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves the directory held by a Loader.
type Server struct {
	loader  *directory.Loader
	flagURL string
	logger  *zap.Logger
	ctx     context.Context
}

// NewServer creates a server. ctx bounds loads started by POST /refresh.
func NewServer(ctx context.Context, loader *directory.Loader, flagURL string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{loader: loader, flagURL: flagURL, logger: logger, ctx: ctx}
}

// Router returns the routes without CORS handling.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/drivers", s.handleDrivers).Methods(http.MethodGet)
	r.HandleFunc("/drivers/{number:[0-9]+}", s.handleDriver).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/flags/{code}", s.handleFlag).Methods(http.MethodGet)
	return r
}

// Handler returns the routes wrapped with permissive CORS for GET and POST.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(s.Router())
}

// NewDriverView converts d, formatting its flag URL with flagURL.
func NewDriverView(d openf1.Driver, flagURL string) DriverView {
	return DriverView{
		DriverNumber:  d.DriverNumber,
		BroadcastName: d.BroadcastName,
		FullName:      d.FullName,
		TeamName:      d.TeamName,
		NameAcronym:   d.NameAcronym,
		HeadshotURL:   d.Headshot(),
		TeamColor:     directory.TeamColor(d.TeamColour),
		CountryCode:   d.CountryCode,
		CountryISO2:   directory.CountryISO2(d.CountryCode),
		FlagURL:       directory.FlagURL(flagURL, d.CountryCode),
	}
}

func (s *Server) handleDrivers(w http.ResponseWriter, r *http.Request) {
	snap := s.loader.Snapshot()
	q := r.URL.Query().Get("q")

	filtered := directory.Filter(snap.Directory, q)
	resp := DriversResponse{
		Query:   q,
		Count:   len(filtered),
		Total:   len(snap.Directory),
		Drivers: make([]DriverView, 0, len(filtered)),
	}
	for _, d := range filtered {
		resp.Drivers = append(resp.Drivers, NewDriverView(d, s.flagURL))
	}
	if len(filtered) == 0 && q != "" {
		resp.Suggestion = directory.Suggest(snap.Directory, q)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDriver(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid driver number"})
		return
	}
	d, ok := s.loader.Snapshot().Directory.Find(number)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "driver not found"})
		return
	}
	s.writeJSON(w, http.StatusOK, NewDriverView(d, s.flagURL))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.status())
}

func (s *Server) status() StatusResponse {
	snap := s.loader.Snapshot()
	resp := StatusResponse{
		State:      snap.State.String(),
		SessionKey: s.loader.SessionKey(),
		Seq:        snap.Seq,
		Drivers:    len(snap.Directory),
	}
	if !snap.LoadedAt.IsZero() {
		t := snap.LoadedAt
		resp.LoadedAt = &t
	}
	if snap.Err != nil {
		resp.Failure = snap.Failure.String()
		resp.Error = snap.Err.Error()
	}
	return resp
}

// handleRefresh starts a load in the background and answers 202, or 409
// when one is already running.
func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	seq, ok := s.loader.Begin()
	if !ok {
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: "load already in progress"})
		return
	}
	go s.loader.Complete(s.ctx, seq)
	s.writeJSON(w, http.StatusAccepted, s.status())
}

func (s *Server) handleFlag(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(mux.Vars(r)["code"])
	s.writeJSON(w, http.StatusOK, FlagResponse{
		CountryCode: code,
		CountryISO2: directory.CountryISO2(code),
		FlagURL:     directory.FlagURL(s.flagURL, code),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}
