package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBackend struct {
	instructions string
	prompt       string
	tools        []Tool
	answer       string
	err          error
	deadline     bool
}

func (r *recordingBackend) Generate(ctx context.Context, instructions, prompt string, tools []Tool) (string, error) {
	r.instructions, r.prompt, r.tools = instructions, prompt, tools
	_, r.deadline = ctx.Deadline()
	return r.answer, r.err
}

func TestAgentRunPassesInstructionsAndTools(t *testing.T) {
	backend := &recordingBackend{answer: "  Delhi is great.  "}
	tools := DefaultTools("key", "", nil)
	agent := NewAgent("researcher", ResearcherInstructions, backend, WithTools(tools), WithTimeout(time.Minute))

	out, err := agent.Run(context.Background(), "Research Delhi")
	require.NoError(t, err)

	assert.Equal(t, "Delhi is great.", out)
	assert.Equal(t, ResearcherInstructions, backend.instructions)
	assert.Equal(t, "Research Delhi", backend.prompt)
	assert.Equal(t, []string{"Search"}, agent.ToolNames())
	assert.Len(t, backend.tools, 1)
	assert.True(t, backend.deadline)
}

func TestAgentRunWrapsBackendError(t *testing.T) {
	boom := errors.New("quota exceeded")
	agent := NewAgent("planner", PlannerInstructions, &recordingBackend{err: boom})

	_, err := agent.Run(context.Background(), "plan")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "planner")
}

func TestAgentRunRejectsEmptyPrompt(t *testing.T) {
	agent := NewAgent("planner", PlannerInstructions, &recordingBackend{answer: "x"})
	_, err := agent.Run(context.Background(), "  ")
	assert.Error(t, err)
}

func TestDefaultToolsWithoutKeyIsEmpty(t *testing.T) {
	tools := DefaultTools("", "", nil)
	require.NotNil(t, tools)
	assert.Empty(t, tools)

	agents := NewTravelAgents(&recordingBackend{}, WithTools(tools))
	assert.Empty(t, agents.Researcher.ToolNames())
	assert.Equal(t, "hotel_restaurant_finder", agents.HotelFinder.Name())
}

// scriptedSession replays canned responses and records what was sent.
type scriptedSession struct {
	responses []*genai.GenerateContentResponse
	sent      [][]genai.Part
}

func (s *scriptedSession) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	s.sent = append(s.sent, parts)
	if len(s.responses) == 0 {
		return nil, errors.New("no scripted response")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func response(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}}}
}

type echoTool struct{ calls []string }

func (e *echoTool) Name() string        { return "Search" }
func (e *echoTool) Description() string { return "echo" }
func (e *echoTool) Call(_ context.Context, input string) (string, error) {
	e.calls = append(e.calls, input)
	return "result for " + input, nil
}

func TestToolLoopExecutesFunctionCalls(t *testing.T) {
	tool := &echoTool{}
	session := &scriptedSession{responses: []*genai.GenerateContentResponse{
		response(genai.FunctionCall{Name: "Search", Args: map[string]any{"query": "Delhi weather"}}),
		response(genai.Text("Delhi is "), genai.Text("sunny.")),
	}}
	loop := toolLoop{session: session, tools: []Tool{tool}, maxCalls: 3}

	out, err := loop.run(context.Background(), "What is the weather?")
	require.NoError(t, err)

	assert.Equal(t, "Delhi is sunny.", out)
	assert.Equal(t, []string{"Delhi weather"}, tool.calls)
	require.Len(t, session.sent, 2)
	fr, ok := session.sent[1][0].(genai.FunctionResponse)
	require.True(t, ok)
	assert.Equal(t, "result for Delhi weather", fr.Response["result"])
}

func TestToolLoopStopsAtBudget(t *testing.T) {
	tool := &echoTool{}
	disabled := false
	call := genai.FunctionCall{Name: "Search", Args: map[string]any{"query": "again"}}
	session := &scriptedSession{responses: []*genai.GenerateContentResponse{
		response(call),
		response(call),
		response(genai.Text("final")),
	}}
	loop := toolLoop{session: session, tools: []Tool{tool}, maxCalls: 1, disableTools: func() { disabled = true }}

	out, err := loop.run(context.Background(), "loop")
	require.NoError(t, err)

	assert.Equal(t, "final", out)
	assert.Len(t, tool.calls, 1)
	assert.True(t, disabled)
	fr := session.sent[2][0].(genai.FunctionResponse)
	assert.Equal(t, toolBudgetExhausted, fr.Response["result"])
}

func TestToolLoopUnknownToolAndEmptyAnswer(t *testing.T) {
	session := &scriptedSession{responses: []*genai.GenerateContentResponse{
		response(genai.FunctionCall{Name: "Weather", Args: map[string]any{}}),
		response(),
	}}
	loop := toolLoop{session: session, maxCalls: 2}

	_, err := loop.run(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrEmptyResponse)
	fr := session.sent[1][0].(genai.FunctionResponse)
	assert.Contains(t, fr.Response["result"], "Unknown tool")
}

type failingTool struct{}

func (failingTool) Name() string        { return "Search" }
func (failingTool) Description() string { return "always fails" }
func (failingTool) Call(context.Context, string) (string, error) {
	return "", errors.New("serpapi down")
}

func TestToolLoopReportsToolErrorWithoutLogger(t *testing.T) {
	session := &scriptedSession{responses: []*genai.GenerateContentResponse{
		response(genai.FunctionCall{Name: "Search", Args: map[string]any{"query": "Delhi"}}),
		response(genai.Text("answered anyway")),
	}}
	loop := toolLoop{session: session, tools: []Tool{failingTool{}}, maxCalls: 2}

	out, err := loop.run(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "answered anyway", out)
	fr := session.sent[1][0].(genai.FunctionResponse)
	assert.Equal(t, "Tool error: serpapi down", fr.Response["result"])
}

func TestSerpSearchToolSummarizesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "google", r.URL.Query().Get("engine"))
		assert.Equal(t, "things to do in Delhi", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{
			"answer_box": {"answer": "Red Fort"},
			"organic_results": [{"title": "Top 10", "link": "https://x", "snippet": "India Gate"}]
		}`))
	}))
	defer srv.Close()

	tool := NewSerpSearchTool("key", srv.URL, srv.Client())
	out, err := tool.Call(context.Background(), "things to do in Delhi")
	require.NoError(t, err)
	assert.Equal(t, "Red Fort\nTop 10 (https://x): India Gate", out)
}

func TestSerpSearchToolProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "Invalid API key."}`))
	}))
	defer srv.Close()

	_, err := NewSerpSearchTool("bad", srv.URL, srv.Client()).Call(context.Background(), "x")
	assert.ErrorContains(t, err, "Invalid API key.")
}

func TestSummarizeSearchEmpty(t *testing.T) {
	assert.Equal(t, "No good search result found", summarizeSearch(serpSearchResponse{}))
}
