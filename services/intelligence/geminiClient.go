// File: services/intelligence/geminiClient.go
package ai

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const toolBudgetExhausted = "Tool call limit reached. Answer with the information you already have."

// GeminiClient implements Backend on Gemini function calling.
type GeminiClient struct {
	client       *genai.Client
	modelName    string
	temperature  float32
	maxToolCalls int
	logger       *zap.Logger
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string, temperature float32, maxToolCalls int, logger *zap.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		client:       client,
		modelName:    modelName,
		temperature:  temperature,
		maxToolCalls: maxToolCalls,
		logger:       logger,
	}, nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func (g *GeminiClient) Generate(ctx context.Context, instructions, prompt string, tools []Tool) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(g.temperature)
	if instructions != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(instructions))
	}
	if len(tools) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: declareTools(tools)}}
	}

	loop := toolLoop{
		session:  model.StartChat(),
		tools:    tools,
		maxCalls: g.maxToolCalls,
		logger:   g.logger,
		disableTools: func() {
			model.ToolConfig = &genai.ToolConfig{
				FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: genai.FunctionCallingNone},
			}
		},
	}
	return loop.run(ctx, prompt)
}

func declareTools(tools []Tool) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {Type: genai.TypeString, Description: "The input for the tool."},
				},
				Required: []string{"query"},
			},
		})
	}
	return decls
}

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// toolLoop drives one chat until the model answers without requesting tools.
type toolLoop struct {
	session      chatSession
	tools        []Tool
	maxCalls     int
	logger       *zap.Logger
	disableTools func()
}

func (l *toolLoop) run(ctx context.Context, prompt string) (string, error) {
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	byName := make(map[string]Tool, len(l.tools))
	for _, t := range l.tools {
		byName[t.Name()] = t
	}

	calls := 0
	resp, err := l.session.SendMessage(ctx, genai.Text(prompt))
	for {
		if err != nil {
			return "", fmt.Errorf("gemini generate error: %w", err)
		}
		text, requested := splitResponse(resp)
		if len(requested) == 0 {
			if strings.TrimSpace(text) == "" {
				return "", ErrEmptyResponse
			}
			return text, nil
		}

		exhausted := calls+len(requested) > l.maxCalls
		replies := make([]genai.Part, 0, len(requested))
		for _, fc := range requested {
			var out string
			if exhausted {
				out = toolBudgetExhausted
			} else {
				out = l.call(ctx, byName, fc)
				calls++
			}
			replies = append(replies, genai.FunctionResponse{
				Name:     fc.Name,
				Response: map[string]any{"result": out},
			})
		}
		if exhausted && l.disableTools != nil {
			l.disableTools()
		}
		resp, err = l.session.SendMessage(ctx, replies...)
	}
}

// call runs one tool; failures are reported to the model as the tool output.
func (l *toolLoop) call(ctx context.Context, byName map[string]Tool, fc genai.FunctionCall) string {
	tool, ok := byName[fc.Name]
	if !ok {
		return fmt.Sprintf("Unknown tool %q.", fc.Name)
	}
	input, _ := fc.Args["query"].(string)
	l.logger.Debug("Agent tool call", zap.String("tool", fc.Name), zap.String("input", input))
	out, err := tool.Call(ctx, input)
	if err != nil {
		l.logger.Warn("Agent tool call failed", zap.String("tool", fc.Name), zap.Error(err))
		return "Tool error: " + err.Error()
	}
	return out
}

func splitResponse(resp *genai.GenerateContentResponse) (string, []genai.FunctionCall) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}
	var sb strings.Builder
	var calls []genai.FunctionCall
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			sb.WriteString(string(p))
		case genai.FunctionCall:
			calls = append(calls, p)
		case *genai.FunctionCall:
			calls = append(calls, *p)
		}
	}
	return sb.String(), calls
}
