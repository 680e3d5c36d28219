package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
	"go.uber.org/zap"
)

// OwnerDataPurger deletes every row an owner has in one table.
type OwnerDataPurger interface {
	DeleteAllForOwner(ctx context.Context, ownerID string) (int64, error)
}

type clerkWebhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type WebhookHandler struct {
	verifier *svix.Webhook
	purgers  map[string]OwnerDataPurger
	log      *zap.Logger
}

// NewWebhookHandler verifies Clerk deliveries with the svix signing secret
// ("whsec_..."). purgers are keyed by what they delete, for logging. Without
// a usable secret every delivery is rejected.
func NewWebhookHandler(secret string, purgers map[string]OwnerDataPurger, log *zap.Logger) *WebhookHandler {
	h := &WebhookHandler{purgers: purgers, log: log}
	if secret == "" {
		log.Warn("CLERK_WEBHOOK_SECRET is not set, Clerk webhooks will be rejected")
		return h
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		log.Error("Invalid CLERK_WEBHOOK_SECRET, Clerk webhooks will be rejected", zap.Error(err))
		return h
	}
	h.verifier = wh
	return h
}

// POST /webhooks/clerk
func (h *WebhookHandler) HandleClerkWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<16))
	if err != nil {
		http.Error(w, "Error reading body", http.StatusBadRequest)
		return
	}

	if err := h.verify(r.Header, body); err != nil {
		h.log.Warn("Rejected Clerk webhook", zap.Error(err))
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var event clerkWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Error parsing webhook", http.StatusBadRequest)
		return
	}

	h.log.Info("Received webhook event", zap.String("type", event.Type))

	switch event.Type {
	case "user.deleted":
		if err := h.handleUserDeleted(r.Context(), event.Data); err != nil {
			h.log.Error("Error handling user.deleted", zap.Error(err))
			http.Error(w, "Error processing webhook", http.StatusInternalServerError)
			return
		}
	default:
		h.log.Debug("Unhandled webhook event type", zap.String("type", event.Type))
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *WebhookHandler) handleUserDeleted(ctx context.Context, data json.RawMessage) error {
	var userData struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &userData); err != nil {
		return fmt.Errorf("failed to unmarshal user data: %w", err)
	}
	if userData.ID == "" {
		return errors.New("user.deleted event without user id")
	}

	for what, p := range h.purgers {
		n, err := p.DeleteAllForOwner(ctx, userData.ID)
		if err != nil {
			return fmt.Errorf("failed to purge %s: %w", what, err)
		}
		h.log.Info("Purged owner data",
			zap.String("owner_id", userData.ID),
			zap.String("table", what),
			zap.Int64("rows", n),
		)
	}
	return nil
}

// verify checks the svix-id, svix-timestamp and svix-signature headers,
// including the SDK's five minute timestamp tolerance.
func (h *WebhookHandler) verify(header http.Header, body []byte) error {
	if h.verifier == nil {
		return errors.New("webhook secret not configured")
	}
	return h.verifier.Verify(body, header)
}
