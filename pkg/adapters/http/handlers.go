package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/waypoint/pkg/catalog"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/aretw0/waypoint/pkg/session"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// GoalRequest is the optional body of plan, step and run.
type GoalRequest struct {
	Goal string `json:"goal,omitempty"`
}

// Stats is the wire form of domain.SearchStats.
type Stats struct {
	NodesExpanded   int     `json:"nodes_expanded"`
	RoutesFound     int     `json:"routes_found"`
	MaxDepthReached int     `json:"max_depth_reached"`
	Truncated       bool    `json:"truncated"`
	DurationMS      float64 `json:"duration_ms"`
}

func statsFrom(s domain.SearchStats) Stats {
	return Stats{
		NodesExpanded:   s.NodesExpanded,
		RoutesFound:     s.RoutesFound,
		MaxDepthReached: s.MaxDepthReached,
		Truncated:       s.Truncated,
		DurationMS:      float64(s.Duration.Microseconds()) / 1000,
	}
}

// PossiblesResponse lists the actions applicable right now.
type PossiblesResponse struct {
	Session   string   `json:"session"`
	Possibles []string `json:"possibles"`
}

// PlanResponse is an uncommitted search result.
type PlanResponse struct {
	Session string         `json:"session"`
	Goal    string         `json:"goal"`
	Outcome domain.Outcome `json:"outcome"`
	Route   []string       `json:"route"`
	Cost    float64        `json:"cost,omitempty"`
	Stats   Stats          `json:"stats"`
}

// StepResponse reports one committed action.
type StepResponse struct {
	Session     string           `json:"session"`
	Action      string           `json:"action"`
	GoalReached bool             `json:"goal_reached"`
	Route       []string         `json:"route"`
	Journal     *catalog.Journal `json:"journal"`
}

// RunResponse reports a completed run.
type RunResponse struct {
	Session       string           `json:"session"`
	Goal          string           `json:"goal"`
	Committed     []string         `json:"committed"`
	GoalReached   bool             `json:"goal_reached"`
	Searches      int              `json:"searches"`
	NodesExpanded int              `json:"nodes_expanded"`
	Journal       *catalog.Journal `json:"journal"`
}

// InfoResponse describes the running server.
type InfoResponse struct {
	App     string `json:"app"`
	Version string `json:"version"`
	Catalog string `json:"catalog"`
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, ports.ErrJournalNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, session.ErrNoGoal), errors.Is(err, errBadRequest):
		status, code = http.StatusBadRequest, "bad_request"
	case errors.Is(err, domain.ErrNoRoute):
		status, code = http.StatusConflict, "no_route"
	case errors.Is(err, domain.ErrBudgetExhausted):
		status, code = http.StatusConflict, "budget_exhausted"
	case errors.Is(err, domain.ErrStepLimit):
		status, code = http.StatusConflict, "step_limit"
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "err", err)
	} else {
		s.logger.Debug("Request rejected", "code", code, "err", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

var errBadRequest = errors.New("invalid request body")

func decodeGoal(r *http.Request) (string, error) {
	var body GoalRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return body.Goal, nil
}

func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, InfoResponse{
		App:     "waypoint-http",
		Version: s.version,
		Catalog: s.Catalog().Name,
	})
}

func (s *Server) getCatalog(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Catalog())
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sessions.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

func (s *Server) showPossibles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session")
	possibles, err := s.sessions.Possibles(r.Context(), id, s.Catalog(), s.planner...)
	if err != nil {
		s.fail(w, err)
		return
	}
	if possibles == nil {
		possibles = []string{}
	}
	s.writeJSON(w, http.StatusOK, PossiblesResponse{Session: id, Possibles: possibles})
}

func (s *Server) planRoute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session")
	goal, err := decodeGoal(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	result, err := s.sessions.Plan(r.Context(), id, s.Catalog(), goal, s.planner...)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := PlanResponse{
		Session: id,
		Goal:    result.Goal,
		Outcome: result.Outcome,
		Route:   []string{},
		Stats:   statsFrom(result.Stats),
	}
	if result.Found() {
		resp.Route = result.Route.History
		resp.Cost = result.Route.State.Cost()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) stepGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session")
	goal, err := decodeGoal(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	journal, step, err := s.sessions.Step(r.Context(), id, s.Catalog(), goal, s.planner...)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.streams.Broadcast(id, step.Action)

	s.writeJSON(w, http.StatusOK, StepResponse{
		Session:     id,
		Action:      step.Action,
		GoalReached: step.GoalReached,
		Route:       step.Route,
		Journal:     journal,
	})
}

func (s *Server) runGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session")
	goal, err := decodeGoal(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	journal, report, err := s.sessions.Run(r.Context(), id, s.Catalog(), goal, s.planner...)
	if report != nil {
		for _, action := range report.Committed {
			s.streams.Broadcast(id, action)
		}
	}
	if err != nil {
		s.fail(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, RunResponse{
		Session:       id,
		Goal:          report.Goal,
		Committed:     report.Committed,
		GoalReached:   report.GoalReached,
		Searches:      report.Searches,
		NodesExpanded: report.NodesExpanded,
		Journal:       journal,
	})
}

func (s *Server) getJournal(w http.ResponseWriter, r *http.Request) {
	journal, err := s.sessions.Load(r.Context(), chi.URLParam(r, "session"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, journal)
}

func (s *Server) deleteJournal(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "session")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
