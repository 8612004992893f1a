package api

import (
	"context"
	"strings"

	"github.com/jobportal/jobportal-tui/internal/model"
)

// Chat sends one message to the assistant. A 429 comes back as an *Error of
// KindRateLimited.
func (c *Client) Chat(ctx context.Context, message string) (*model.ChatReply, error) {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return nil, &Error{Kind: KindValidation, Message: "message is required"}
	}
	var reply model.ChatReply
	if err := c.post(ctx, "chat", nil, model.ChatRequest{Message: msg}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}
