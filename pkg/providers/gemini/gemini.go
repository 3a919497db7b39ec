// Package gemini provides a Completer implementation for the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/saberchat/saber/pkg/chats/chat"
	"github.com/saberchat/saber/pkg/chats/message"
	"github.com/saberchat/saber/pkg/chats/role"
	"github.com/saberchat/saber/pkg/modeladapter"
)

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the Google Gemini API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter configured for the Gemini API.
// The baseURL should be "https://generativelanguage.googleapis.com" (no trailing slash).
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = modeladapter.Auth{
		Key:    apiKey,
		Header: "x-goog-api-key",
	}
	a.Name = model
	a.MaxTokens = 8192

	return a
}

// Complete sends a conversation to the Gemini API and returns the assistant's reply.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat) (message.Message, error) {
	req := a.buildRequest(c)
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", a.Name)

	var resp apiResponse
	if err := a.PostJSON(ctx, path, req, &resp); err != nil {
		return message.Message{}, fmt.Errorf("gemini: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return message.Message{}, fmt.Errorf("gemini: empty candidates in response")
	}

	return message.Assistant(candidateText(resp.Candidates[0])), nil
}

// --- request types ---

type apiRequest struct {
	Contents          []apiContent     `json:"contents"`
	SystemInstruction *apiContent      `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type apiContent struct {
	Role  string    `json:"role,omitempty"`
	Parts []apiPart `json:"parts"`
}

type apiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens"`
}

// --- response types ---

type apiResponse struct {
	Candidates []apiCandidate `json:"candidates"`
}

type apiCandidate struct {
	Content      apiContent `json:"content"`
	FinishReason string     `json:"finishReason"`
}

// --- conversion helpers ---

func (a *Adapter) buildRequest(c *chat.Chat) apiRequest {
	req := apiRequest{
		GenerationConfig: generationConfig{
			MaxOutputTokens: a.MaxTokens,
		},
	}

	// Zero is a deliberate setting, so the temperature is always sent explicitly.
	t := a.Temperature
	req.GenerationConfig.Temperature = &t

	// Extract system prompt into systemInstruction.
	if sp := c.SystemPrompt(); sp != "" {
		req.SystemInstruction = &apiContent{
			Parts: []apiPart{{Text: sp}},
		}
	}

	c.Each(func(_ int, m message.Message) bool {
		if m.Role == role.System {
			return true
		}
		req.Contents = append(req.Contents, apiContent{
			Role:  apiRole(m.Role),
			Parts: []apiPart{{Text: m.Text}},
		})
		return true
	})

	return req
}

func apiRole(r role.Role) string {
	if r == role.Assistant {
		return "model"
	}
	return "user"
}

func candidateText(c apiCandidate) string {
	var b strings.Builder
	for _, p := range c.Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
