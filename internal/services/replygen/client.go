// internal/services/replygen/client.go
package replygen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	apperrors "insurance-intake/internal/common/errors"
	"insurance-intake/internal/common/httpclient"
	"insurance-intake/internal/common/logger"
	"insurance-intake/internal/models"
)

const (
	maxTokens     = 200
	temperature   = 0.7
	historyWindow = 10
)

// Request carries everything the generator needs for one turn: the
// state whose prompt to use, the raw user message, recent history, the
// collected-data snapshot, and optional validation guidance.
type Request struct {
	State       models.State
	UserMessage string
	History     []models.Message
	Context     map[string]interface{}
	Guidance    string
}

// Client generates assistant replies through an OpenAI-compatible chat
// completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *httpclient.Client
	logger     logger.Logger
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpclient.NewClient(timeout),
		logger:     log.WithFields(map[string]interface{}{"service": "replygen"}),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Generate produces the assistant's reply for a turn. Any failure is
// returned as an error so the caller can substitute a fallback.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	messages := []chatMessage{{Role: "system", Content: buildSystemPrompt(req)}}

	history := req.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, m := range history {
		messages = append(messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.UserMessage})

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", apperrors.NewReplyGenerationFailed(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", apperrors.NewReplyGenerationFailed(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", apperrors.NewReplyGenerationFailed(err)
	}
	defer resp.Body.Close()

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", apperrors.NewReplyGenerationFailed(err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if payload.Error != nil {
			msg = payload.Error.Message
		}
		return "", apperrors.NewReplyGenerationFailed(fmt.Errorf("%s", msg))
	}
	if len(payload.Choices) == 0 {
		return "", apperrors.NewReplyGenerationFailed(fmt.Errorf("no choices returned"))
	}

	reply := strings.TrimSpace(payload.Choices[0].Message.Content)
	if reply == "" {
		return "", apperrors.NewReplyGenerationFailed(fmt.Errorf("empty completion"))
	}
	return reply, nil
}

func buildSystemPrompt(req Request) string {
	instruction, ok := statePrompts[req.State]
	if !ok {
		instruction = "Continue the conversation naturally."
	}

	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n\n=== YOUR CURRENT TASK (DO EXACTLY THIS) ===\n")
	b.WriteString(instruction)
	b.WriteString("\n===========================================\n")

	if len(req.Context) > 0 {
		keys := make([]string, 0, len(req.Context))
		for k := range req.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("\n\nCollected information so far:\n")
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("- %s: %v\n", k, req.Context[k]))
		}
	}

	if req.Guidance != "" {
		b.WriteString("\n\nAdditional context: ")
		b.WriteString(req.Guidance)
	}

	return b.String()
}
