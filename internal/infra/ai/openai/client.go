package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/domain/vision"
	"github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/infra/ai/prompt"
)

const maxTokens = 2048

type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

// Analyze sends the image to the vision model and returns the raw text.
// No retries here; the application service owns retry policy.
func (c *Client) Analyze(ctx context.Context, image []byte, imageName string) (string, error) {
	model := c.Model
	if model == "" {
		model = "gpt-4o"
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", sniffImageMime(image), base64.StdEncoding.EncodeToString(image))

	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt.GetUserPrompt(imageName)},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURI,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", mapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", vision.ErrRejected
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return "", vision.ErrRejected
	}
	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", vision.ErrRejected
	}
	return choice.Message.Content, nil
}

// mapError folds client failures into the domain's two failure modes.
// Rejected is reserved for the API refusing this request (bad or policy-blocked
// payload); auth, rate-limit and server errors are the service being
// unreachable, not the model saying no.
func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %v", vision.ErrRejected, err)
		}
	}
	return fmt.Errorf("%w: %v", vision.ErrUnavailable, err)
}

func sniffImageMime(image []byte) string {
	ct := http.DetectContentType(image)
	if !strings.HasPrefix(ct, "image/") {
		return "image/jpeg"
	}
	return ct
}
