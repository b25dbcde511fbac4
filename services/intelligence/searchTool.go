package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	searchToolName        = "Search"
	searchToolDescription = "Useful for when you need to answer questions about current events or search the web"
	maxOrganicResults     = 5
)

// SerpSearchTool runs a Google web search through SerpAPI.
type SerpSearchTool struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewSerpSearchTool(apiKey, baseURL string, client *http.Client) *SerpSearchTool {
	if baseURL == "" {
		baseURL = "https://serpapi.com/search.json"
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &SerpSearchTool{apiKey: apiKey, baseURL: baseURL, client: client}
}

// DefaultTools returns the web search tool when a SerpAPI key is configured
// and an empty toolset otherwise.
func DefaultTools(serpAPIKey, baseURL string, client *http.Client) []Tool {
	if strings.TrimSpace(serpAPIKey) == "" {
		return []Tool{}
	}
	return []Tool{NewSerpSearchTool(serpAPIKey, baseURL, client)}
}

func (s *SerpSearchTool) Name() string        { return searchToolName }
func (s *SerpSearchTool) Description() string { return searchToolDescription }

type serpSearchResponse struct {
	Error     string `json:"error"`
	AnswerBox struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
		Title   string `json:"title"`
	} `json:"answer_box"`
	KnowledgeGraph struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"knowledge_graph"`
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

func (s *SerpSearchTool) Call(ctx context.Context, input string) (string, error) {
	query := strings.TrimSpace(input)
	if query == "" {
		return "", fmt.Errorf("search query is empty")
	}

	q := url.Values{}
	q.Set("engine", "google")
	q.Set("q", query)
	q.Set("hl", "en")
	q.Set("api_key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	var data serpSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode search response: %w", err)
	}
	if data.Error != "" {
		return "", fmt.Errorf("search provider error: %s", data.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search provider returned status %d", resp.StatusCode)
	}
	return summarizeSearch(data), nil
}

func summarizeSearch(data serpSearchResponse) string {
	var lines []string
	switch {
	case data.AnswerBox.Answer != "":
		lines = append(lines, data.AnswerBox.Answer)
	case data.AnswerBox.Snippet != "":
		lines = append(lines, data.AnswerBox.Snippet)
	}
	if data.KnowledgeGraph.Description != "" {
		lines = append(lines, data.KnowledgeGraph.Title+": "+data.KnowledgeGraph.Description)
	}
	for i, r := range data.OrganicResults {
		if i == maxOrganicResults {
			break
		}
		lines = append(lines, fmt.Sprintf("%s (%s): %s", r.Title, r.Link, r.Snippet))
	}
	if len(lines) == 0 {
		return "No good search result found"
	}
	return strings.Join(lines, "\n")
}
