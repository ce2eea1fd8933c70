package bot

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"golang.org/x/sync/errgroup"
)

// NewWebhookHandler returns the gin handler for the LINE webhook endpoint.
// Signature validation happens during parsing; a bad signature is a 400 so
// the LINE platform does not retry forged requests.
func NewWebhookHandler(channelSecret string, router *Router, logger *slog.Logger) gin.HandlerFunc {
	log := logger.With("component", "webhook")

	return func(c *gin.Context) {
		cb, err := webhook.ParseRequest(channelSecret, c.Request)
		if err != nil {
			if errors.Is(err, webhook.ErrInvalidSignature) {
				log.WarnContext(c.Request.Context(), "Rejected webhook with invalid signature")
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
				return
			}
			log.ErrorContext(c.Request.Context(), "Failed to parse webhook request", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		// Events in one callback are independent; handle them concurrently.
		// Handlers absorb their own failures, so the group never errors and
		// LINE always gets a 200 for a well-formed callback.
		g, gCtx := errgroup.WithContext(c.Request.Context())
		for _, event := range cb.Events {
			event := event
			g.Go(func() error {
				router.HandleEvent(gCtx, event)
				return nil
			})
		}
		_ = g.Wait()

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// HandleEvent routes one webhook event. Unsupported event and message types
// are ignored.
func (r *Router) HandleEvent(ctx context.Context, event webhook.EventInterface) {
	switch e := event.(type) {
	case webhook.MessageEvent:
		text, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			return
		}
		r.HandleText(ctx, e.ReplyToken, sourceUserID(e.Source), text.Text)
	case webhook.FollowEvent:
		r.logger.InfoContext(ctx, "New follower", "user_id", sourceUserID(e.Source))
		if err := r.deps.Messenger.ReplyText(ctx, e.ReplyToken, r.deps.Config.Messages.Greeting); err != nil {
			r.logger.ErrorContext(ctx, "Failed to send welcome message", "error", err)
		}
	}
}

func sourceUserID(source webhook.SourceInterface) string {
	if u, ok := source.(webhook.UserSource); ok {
		return u.UserId
	}
	return ""
}
