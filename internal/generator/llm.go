package generator

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/course-forge/quizforge/internal/storage"
)

// LLMLogKey is the artifact holding the last raw model output.
const LLMLogKey = "llm_last.txt"

// LLM produces a JSON document from a system + user prompt pair.
type LLM interface {
	ChatJSON(ctx context.Context, system, user string) (interface{}, error)
}

// OpenAIChat talks to any OpenAI-compatible chat completion endpoint.
type OpenAIChat struct {
	client    *openai.Client
	model     string
	artifacts storage.ArtifactStore
}

// NewOpenAIChat returns nil when apiKey is empty, which callers treat as
// "offline generation only".
func NewOpenAIChat(baseURL, apiKey, model string, artifacts storage.ArtifactStore) *OpenAIChat {
	if apiKey == "" {
		return nil
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		base := strings.TrimRight(baseURL, "/")
		if !strings.HasSuffix(base, "/v1") {
			base += "/v1"
		}
		cfg.BaseURL = base
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIChat{client: openai.NewClientWithConfig(cfg), model: model, artifacts: artifacts}
}

func (o *OpenAIChat) ChatJSON(ctx context.Context, system, user string) (interface{}, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0.15,
		MaxTokens:   2400,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty completion")
	}
	raw := resp.Choices[0].Message.Content
	if err := storage.WriteText(o.artifacts, LLMLogKey, raw); err != nil {
		log.Printf("write llm transcript: %v", err)
	}
	return CoerceJSON(raw)
}

var (
	fenceOpenRe     = regexp.MustCompile("(?i)^```(?:json)?")
	fenceCloseRe    = regexp.MustCompile("```$")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	objectRe        = regexp.MustCompile(`(?s)\{.*\}`)
)

// CoerceJSON recovers a JSON document from model output that may be wrapped
// in code fences, use Python literals, or carry trailing commas.
func CoerceJSON(txt string) (interface{}, error) {
	s := strings.TrimSpace(txt)
	s = strings.TrimSpace(fenceOpenRe.ReplaceAllString(s, ""))
	s = strings.TrimSpace(fenceCloseRe.ReplaceAllString(s, ""))
	s = strings.NewReplacer("True", "true", "False", "false", "None", "null").Replace(s)
	s = trailingCommaRe.ReplaceAllString(s, "$1")

	var out interface{}
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return out, nil
	}
	if m := objectRe.FindString(s); m != "" {
		if err := json.Unmarshal([]byte(m), &out); err == nil {
			return out, nil
		}
	}
	return nil, errors.New("could not parse JSON from model output")
}
