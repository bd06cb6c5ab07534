// Package webhook provides n8n webhook integration for briefing text generation
package webhook

// GenerateRequest is the body posted to the n8n generate webhook
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse is the body returned by the n8n generate webhook
type GenerateResponse struct {
	Text string `json:"text"`
}
