// Package mcp exposes a catalog as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/waypoint"
	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/catalog"
	"github.com/aretw0/waypoint/pkg/domain"
)

// CatalogURI is the resource holding the served catalog.
const CatalogURI = "waypoint://catalog"

// StateArgs carries a world state between stateless tool calls.
type StateArgs struct {
	Facts   string `json:"facts,omitempty"`
	History string `json:"history,omitempty"`
}

// GoalArgs is StateArgs plus the goal action.
type GoalArgs struct {
	Goal    string `json:"goal,omitempty"`
	Facts   string `json:"facts,omitempty"`
	History string `json:"history,omitempty"`
}

// PossiblesResponse lists the actions applicable to the given facts.
type PossiblesResponse struct {
	Possibles []string `json:"possibles" jsonschema_description:"Applicable actions in registration order"`
}

// PlanResponse is the result of plan_route. Nothing is committed.
type PlanResponse struct {
	Goal    string             `json:"goal"`
	Outcome domain.Outcome     `json:"outcome" jsonschema_description:"found, no_route or budget_exhausted"`
	Route   []string           `json:"route" jsonschema_description:"Actions to apply, ending with the goal"`
	Cost    float64            `json:"cost"`
	Stats   domain.SearchStats `json:"stats"`
}

// RunResponse is the result of run_goal: the committed actions and the facts
// to pass to the next call.
type RunResponse struct {
	Goal        string         `json:"goal"`
	Committed   []string       `json:"committed"`
	GoalReached bool           `json:"goal_reached"`
	Facts       map[string]any `json:"facts"`
	History     []string       `json:"history"`
	Cost        float64        `json:"cost"`
	Error       string         `json:"error,omitempty"`
}

// Server exposes planning over a catalog as MCP tools.
type Server struct {
	catalog   atomic.Pointer[catalog.Catalog]
	planner   []runtime.Option
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithPlannerOptions applies planner options to every tool call.
func WithPlannerOptions(opts ...runtime.Option) Option {
	return func(s *Server) {
		s.planner = append(s.planner, opts...)
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server for the catalog.
func NewServer(c *catalog.Catalog, opts ...Option) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer("waypoint-mcp", strings.TrimSpace(waypoint.Version)),
		logger:    logging.NewNop(),
	}
	s.catalog.Store(c)
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// SetCatalog swaps the served catalog.
func (s *Server) SetCatalog(c *catalog.Catalog) {
	s.catalog.Store(c)
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	stateParams := []mcp.ToolOption{
		mcp.WithString("facts", mcp.Description("JSON object of current facts (defaults to the catalog's initial facts)")),
		mcp.WithString("history", mcp.Description("JSON array of actions already committed")),
	}

	possibles := append([]mcp.ToolOption{
		mcp.WithDescription("List the actions whose requirements hold for the given facts."),
		mcp.WithOutputSchema[PossiblesResponse](),
	}, stateParams...)
	s.mcpServer.AddTool(mcp.NewTool("show_possibles", possibles...), mcp.NewStructuredToolHandler(s.handlePossibles))

	goalParam := mcp.WithString("goal", mcp.Description("Goal action name (defaults to the catalog goal)"))

	plan := append([]mcp.ToolOption{
		mcp.WithDescription("Find the cheapest route of actions ending with the goal. Nothing is committed."),
		goalParam,
		mcp.WithOutputSchema[PlanResponse](),
	}, stateParams...)
	s.mcpServer.AddTool(mcp.NewTool("plan_route", plan...), mcp.NewStructuredToolHandler(s.handlePlan))

	run := append([]mcp.ToolOption{
		mcp.WithDescription("Re-plan and commit one action at a time until the goal is executed. Returns the facts to use next."),
		goalParam,
		mcp.WithOutputSchema[RunResponse](),
	}, stateParams...)
	s.mcpServer.AddTool(mcp.NewTool("run_goal", run...), mcp.NewStructuredToolHandler(s.handleRun))
}

// plannerFor rebuilds a planner from the stateless arguments.
func (s *Server) plannerFor(c *catalog.Catalog, factsJSON, historyJSON string) (*runtime.Planner[*catalog.Facts], error) {
	facts := c.InitialFacts()
	if factsJSON != "" {
		var values map[string]any
		if err := json.Unmarshal([]byte(factsJSON), &values); err != nil {
			return nil, fmt.Errorf("invalid facts: %w", err)
		}
		facts = catalog.NewFacts(values)
	}

	opts := append([]runtime.Option{}, s.planner...)
	if historyJSON != "" {
		var history []string
		if err := json.Unmarshal([]byte(historyJSON), &history); err != nil {
			return nil, fmt.Errorf("invalid history: %w", err)
		}
		opts = append(opts, runtime.WithHistory(history))
	}
	return c.PlannerFrom(facts, opts...), nil
}

func resolveGoal(c *catalog.Catalog, goal string) (string, error) {
	goal = c.GoalOr(goal)
	if goal == "" {
		return "", errors.New("no goal given and catalog has no default goal")
	}
	if _, ok := c.Spec(goal); !ok {
		return "", fmt.Errorf("unknown goal action '%s'", goal)
	}
	return goal, nil
}

func (s *Server) handlePossibles(ctx context.Context, _ mcp.CallToolRequest, args StateArgs) (PossiblesResponse, error) {
	p, err := s.plannerFor(s.catalog.Load(), args.Facts, args.History)
	if err != nil {
		return PossiblesResponse{}, err
	}
	possibles := p.ShowPossibles()
	if possibles == nil {
		possibles = []string{}
	}
	return PossiblesResponse{Possibles: possibles}, nil
}

func (s *Server) handlePlan(ctx context.Context, _ mcp.CallToolRequest, args GoalArgs) (PlanResponse, error) {
	c := s.catalog.Load()
	goal, err := resolveGoal(c, args.Goal)
	if err != nil {
		return PlanResponse{}, err
	}
	p, err := s.plannerFor(c, args.Facts, args.History)
	if err != nil {
		return PlanResponse{}, err
	}

	result, err := p.Search(ctx, goal)
	if err != nil {
		return PlanResponse{}, fmt.Errorf("search failed: %w", err)
	}

	resp := PlanResponse{Goal: goal, Outcome: result.Outcome, Route: []string{}, Stats: result.Stats}
	if result.Found() {
		resp.Route = result.Route.History
		resp.Cost = result.Route.State.Cost()
	}
	return resp, nil
}

// handleRun reports planning failures in the response so that the caller
// still receives the facts reached before the failure.
func (s *Server) handleRun(ctx context.Context, _ mcp.CallToolRequest, args GoalArgs) (RunResponse, error) {
	c := s.catalog.Load()
	goal, err := resolveGoal(c, args.Goal)
	if err != nil {
		return RunResponse{}, err
	}
	p, err := s.plannerFor(c, args.Facts, args.History)
	if err != nil {
		return RunResponse{}, err
	}

	report, runErr := p.Run(ctx, goal)
	if runErr != nil {
		s.logger.Warn("MCP run stopped", "goal", goal, "err", runErr)
	}

	final := p.RealContext()
	resp := RunResponse{
		Goal:      goal,
		Committed: []string{},
		Facts:     final.State.Values,
		History:   p.History(),
		Cost:      final.State.Cost(),
	}
	if report != nil {
		resp.GoalReached = report.GoalReached
		resp.Committed = append(resp.Committed, report.Committed...)
	}
	if runErr != nil {
		resp.Error = runErr.Error()
	}
	return resp, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Current Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.catalog.Load())
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CatalogURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
