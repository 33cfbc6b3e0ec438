package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// LLMModelName is the Gemini model used for completions.
type LLMModelName int32

const (
	Flash20 LLMModelName = iota
	Flash25
	FlashLite25
	Pro25
)

func (t LLMModelName) String() string {
	switch t {
	case Pro25:
		return "gemini-2.5-pro"
	case Flash25:
		return "gemini-2.5-flash"
	case FlashLite25:
		return "gemini-2.5-flash-lite"
	default:
		return "gemini-2.0-flash"
	}
}

// ParseLLMModelName maps a configured model id back to the enum, defaulting to Flash20.
func ParseLLMModelName(name string) LLMModelName {
	for _, m := range []LLMModelName{Flash20, Flash25, FlashLite25, Pro25} {
		if m.String() == strings.TrimSpace(name) {
			return m
		}
	}
	return Flash20
}

func floatPointer(f float32) *float32 {
	return &f
}

type CompletionRequest struct {
	Prompt            string
	SystemInstruction string
	MaxOutputTokens   int32
	Temperature       float32
	// ask the backend for application/json output
	JSONOutput bool
}

type LLMResponse struct {
	Response         string `json:"response"`
	InputTokenCount  int32  `json:"input_token_count"`
	OutputTokenCount int32  `json:"output_token_count"`
	TotalTokenCount  int32  `json:"total_token_count"`
	IsTest           bool   `json:"is_test"`
}

// GenerativeClient is a text-in, text-out generative backend. Implementations
// may fail, time out or return text that does not follow the requested format.
type GenerativeClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*LLMResponse, error)
}

var ErrContentBlocked = errors.New("content blocked by generative backend")

type GoogleGenerativeClient struct {
	client *genai.Client
	Model  LLMModelName
}

func NewGoogleGenerativeClient(ctx context.Context, apiKey string, model LLMModelName) (*GoogleGenerativeClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GoogleGenerativeClient{client: client, Model: model}, nil
}

func (g *GoogleGenerativeClient) Complete(ctx context.Context, req CompletionRequest) (*LLMResponse, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: req.MaxOutputTokens,
		Temperature:     floatPointer(req.Temperature),
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}
	if req.JSONOutput {
		config.ResponseMIMEType = "application/json"
	}

	result, err := g.client.Models.GenerateContent(ctx, g.Model.String(), []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}, config)
	if err != nil {
		return nil, fmt.Errorf("generate content (%s): %w", g.Model, err)
	}
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: %s %s", ErrContentBlocked, result.PromptFeedback.BlockReason, result.PromptFeedback.BlockReasonMessage)
	}

	response := &LLMResponse{Response: result.Text()}
	if result.UsageMetadata != nil {
		response.InputTokenCount = result.UsageMetadata.PromptTokenCount
		response.OutputTokenCount = result.UsageMetadata.CandidatesTokenCount
		response.TotalTokenCount = result.UsageMetadata.TotalTokenCount
	}
	return response, nil
}

// CleanAIResponseText strips the markdown code fences models like to wrap JSON in.
func CleanAIResponseText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```JSON")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
