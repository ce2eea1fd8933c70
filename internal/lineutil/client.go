// Package lineutil wraps the LINE Messaging API client and builds the
// flex-message payloads sent by the bot. The rest of the codebase decides
// WHICH payload to send; this package owns presentation.
package lineutil

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Messenger delivers messages to LINE users. Reply answers one inbound event
// through its reply token; Push sends out-of-band by user id.
type Messenger interface {
	ReplyText(ctx context.Context, replyToken, text string) error
	Reply(ctx context.Context, replyToken string, messages ...messaging_api.MessageInterface) error
	Push(ctx context.Context, to string, messages ...messaging_api.MessageInterface) error
}

// Client is the production Messenger backed by the LINE Messaging API.
type Client struct {
	api    *messaging_api.MessagingApiAPI
	logger *slog.Logger
}

// NewClient creates a Messenger for the given channel access token.
func NewClient(channelToken string, logger *slog.Logger) (*Client, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE messaging client: %w", err)
	}
	return &Client{
		api:    api,
		logger: logger.With("component", "line_client"),
	}, nil
}

// ReplyText replies with a single plain-text message.
func (c *Client) ReplyText(ctx context.Context, replyToken, text string) error {
	return c.Reply(ctx, replyToken, &messaging_api.TextMessage{Text: text})
}

// Reply answers an inbound event. A reply token is single use; callers must
// not reply twice to the same event.
func (c *Client) Reply(ctx context.Context, replyToken string, messages ...messaging_api.MessageInterface) error {
	_, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to reply message", "error", err)
		return fmt.Errorf("failed to reply message: %w", err)
	}
	return nil
}

// Push sends messages to a user outside the reply window.
func (c *Client) Push(ctx context.Context, to string, messages ...messaging_api.MessageInterface) error {
	_, err := c.api.PushMessage(&messaging_api.PushMessageRequest{
		To:       to,
		Messages: messages,
	}, "")
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to push message", "to", to, "error", err)
		return fmt.Errorf("failed to push message to %s: %w", to, err)
	}
	return nil
}
