package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Agent pairs fixed role instructions with a backend and a toolset.
type Agent struct {
	name         string
	instructions string
	backend      Backend
	tools        []Tool
	timeout      time.Duration
	logger       *zap.Logger
}

// AgentOption configures an Agent.
type AgentOption func(*Agent)

// WithTools sets the toolset. A nil or empty list leaves the agent tool-less.
func WithTools(tools []Tool) AgentOption {
	return func(a *Agent) { a.tools = tools }
}

// WithTimeout bounds each Run call.
func WithTimeout(d time.Duration) AgentOption {
	return func(a *Agent) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithLogger(l *zap.Logger) AgentOption {
	return func(a *Agent) {
		if l != nil {
			a.logger = l
		}
	}
}

func NewAgent(name, instructions string, backend Backend, opts ...AgentOption) *Agent {
	a := &Agent{
		name:         name,
		instructions: instructions,
		backend:      backend,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Agent) Name() string { return a.name }

// ToolNames lists the configured tools in order.
func (a *Agent) ToolNames() []string {
	names := make([]string, 0, len(a.tools))
	for _, t := range a.tools {
		names = append(names, t.Name())
	}
	return names
}

// Run submits prompt and returns the free-text answer.
func (a *Agent) Run(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%s: prompt is empty", a.name)
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	a.logger.Debug("Agent run started", zap.String("agent", a.name), zap.Int("promptLen", len(prompt)), zap.Strings("tools", a.ToolNames()))
	out, err := a.backend.Generate(ctx, a.instructions, prompt, a.tools)
	if err != nil {
		a.logger.Error("Agent run failed", zap.String("agent", a.name), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return "", fmt.Errorf("%s: %w", a.name, err)
	}
	a.logger.Info("Agent run finished", zap.String("agent", a.name), zap.Duration("elapsed", time.Since(start)), zap.Int("answerLen", len(out)))
	return strings.TrimSpace(out), nil
}

// Agents holds the three role agents used to build a travel plan.
type Agents struct {
	Researcher  *Agent
	HotelFinder *Agent
	Planner     *Agent
}

// NewTravelAgents builds the researcher, hotel/restaurant finder and planner
// on a shared backend and toolset.
func NewTravelAgents(backend Backend, opts ...AgentOption) Agents {
	return Agents{
		Researcher:  NewAgent("researcher", ResearcherInstructions, backend, opts...),
		HotelFinder: NewAgent("hotel_restaurant_finder", HotelFinderInstructions, backend, opts...),
		Planner:     NewAgent("planner", PlannerInstructions, backend, opts...),
	}
}
