package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"jobmate-backend/internal/agents"
)

const maxTokens = 2048

// Client holds one OpenAI connection shared by the three agent tasks.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient constructs a Client for the given credentials and model.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("AGENT_MODEL is required")
	}
	return &Client{api: openai.NewClient(apiKey), model: model}, nil
}

// Tasks returns one agent task per role, all backed by this client.
func (c *Client) Tasks() []agents.Task {
	return []agents.Task{
		task{client: c, role: agents.RoleComprehension},
		task{client: c, role: agents.RoleQuestions},
		task{client: c, role: agents.RoleActionItems},
	}
}

type task struct {
	client *Client
	role   agents.Role
}

func (t task) Role() agents.Role { return t.role }

// Invoke runs one chat completion for the task's role and normalizes the
// model output into the role's payload shape.
func (t task) Invoke(ctx context.Context, req agents.AnalysisRequest) (json.RawMessage, error) {
	raw, err := t.client.complete(ctx, systemPromptFor(t.role), userPrompt(req))
	if err != nil {
		return nil, err
	}
	return normalizePayload(t.role, raw)
}

func (c *Client) complete(ctx context.Context, systemPrompt, prompt string) ([]byte, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	// Reasoning models (o1/o3/o4/gpt-5*) take MaxCompletionTokens instead of MaxTokens.
	if strings.HasPrefix(c.model, "o1") || strings.HasPrefix(c.model, "o3") || strings.HasPrefix(c.model, "o4") || strings.HasPrefix(c.model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("chat completion returned empty content")
	}
	return []byte(content), nil
}

// normalizePayload validates the model output against the role's payload
// shape and strips the wrapper object the JSON response format requires.
func normalizePayload(role agents.Role, raw []byte) (json.RawMessage, error) {
	switch role {
	case agents.RoleComprehension:
		var feedback agents.Feedback
		if err := json.Unmarshal(raw, &feedback); err != nil {
			return nil, fmt.Errorf("comprehension payload invalid: %w", err)
		}
		return json.Marshal(feedback)
	case agents.RoleQuestions:
		var wrapper struct {
			Questions []string `json:"questions"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, fmt.Errorf("questions payload invalid: %w", err)
		}
		return json.Marshal(wrapper.Questions)
	case agents.RoleActionItems:
		var wrapper struct {
			NextActions []agents.NextAction `json:"next_actions"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, fmt.Errorf("action items payload invalid: %w", err)
		}
		return json.Marshal(wrapper.NextActions)
	default:
		return nil, fmt.Errorf("unknown agent role: %s", role)
	}
}
