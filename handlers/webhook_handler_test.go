package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	svix "github.com/svix/svix-webhooks/go"
	"go.uber.org/zap"
)

type fakePurger struct {
	owners []string
	err    error
}

func (f *fakePurger) DeleteAllForOwner(_ context.Context, ownerID string) (int64, error) {
	f.owners = append(f.owners, ownerID)
	return 3, f.err
}

var webhookKey = []byte("0123456789abcdef0123456789abcdef")

func webhookSecret() string {
	return "whsec_" + base64.StdEncoding.EncodeToString(webhookKey)
}

// signedRequest signs body the way Clerk's svix sender does.
func signedRequest(t *testing.T, body string, at time.Time) *http.Request {
	t.Helper()
	wh, err := svix.NewWebhook(webhookSecret())
	require.NoError(t, err)
	sig, err := wh.Sign("msg_1", at, []byte(body))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", strings.NewReader(body))
	req.Header.Set("svix-id", "msg_1")
	req.Header.Set("svix-timestamp", strconv.FormatInt(at.Unix(), 10))
	req.Header.Set("svix-signature", "v1,bm90LWl0 "+sig)
	return req
}

func newTestWebhookHandler(purgers map[string]OwnerDataPurger) *WebhookHandler {
	return NewWebhookHandler(webhookSecret(), purgers, zap.NewNop())
}

func TestWebhook_UserDeletedPurgesEverything(t *testing.T) {
	now := time.Now()
	logs, goals, profiles := &fakePurger{}, &fakePurger{}, &fakePurger{}
	h := newTestWebhookHandler(map[string]OwnerDataPurger{"drink_logs": logs, "goals": goals, "profiles": profiles})

	rr := httptest.NewRecorder()
	h.HandleClerkWebhook(rr, signedRequest(t, `{"type":"user.deleted","data":{"id":"user_1","deleted":true}}`, now))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"user_1"}, logs.owners)
	assert.Equal(t, []string{"user_1"}, goals.owners)
	assert.Equal(t, []string{"user_1"}, profiles.owners)
}

func TestWebhook_OtherEventsIgnored(t *testing.T) {
	now := time.Now()
	logs := &fakePurger{}
	h := newTestWebhookHandler(map[string]OwnerDataPurger{"drink_logs": logs})

	rr := httptest.NewRecorder()
	h.HandleClerkWebhook(rr, signedRequest(t, `{"type":"user.created","data":{"id":"user_1"}}`, now))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, logs.owners)
}

func TestWebhook_RejectsBadSignatures(t *testing.T) {
	now := time.Now()
	body := `{"type":"user.deleted","data":{"id":"user_1"}}`

	t.Run("tampered body", func(t *testing.T) {
		logs := &fakePurger{}
		h := newTestWebhookHandler(map[string]OwnerDataPurger{"drink_logs": logs})
		req := signedRequest(t, body, now)
		req.Body = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Replace(body, "user_1", "user_2", 1))).Body

		rr := httptest.NewRecorder()
		h.HandleClerkWebhook(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, logs.owners)
	})

	t.Run("stale timestamp", func(t *testing.T) {
		h := newTestWebhookHandler(nil)
		rr := httptest.NewRecorder()
		h.HandleClerkWebhook(rr, signedRequest(t, body, now.Add(-10*time.Minute)))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing headers", func(t *testing.T) {
		h := newTestWebhookHandler(nil)
		rr := httptest.NewRecorder()
		h.HandleClerkWebhook(rr, httptest.NewRequest(http.MethodPost, "/webhooks/clerk", strings.NewReader(body)))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("secret not configured", func(t *testing.T) {
		h := NewWebhookHandler("", nil, zap.NewNop())
		rr := httptest.NewRecorder()
		h.HandleClerkWebhook(rr, signedRequest(t, body, now))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed secret", func(t *testing.T) {
		h := NewWebhookHandler("whsec_%%%not-base64", nil, zap.NewNop())
		rr := httptest.NewRecorder()
		h.HandleClerkWebhook(rr, signedRequest(t, body, now))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("signed with another secret", func(t *testing.T) {
		logs := &fakePurger{}
		other := "whsec_" + base64.StdEncoding.EncodeToString([]byte("fedcba9876543210fedcba9876543210"))
		h := NewWebhookHandler(other, map[string]OwnerDataPurger{"drink_logs": logs}, zap.NewNop())
		rr := httptest.NewRecorder()
		h.HandleClerkWebhook(rr, signedRequest(t, body, now))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, logs.owners)
	})
}

func TestWebhook_PurgeFailure(t *testing.T) {
	now := time.Now()
	h := newTestWebhookHandler(map[string]OwnerDataPurger{"goals": &fakePurger{err: errors.New("deadlock")}})

	rr := httptest.NewRecorder()
	h.HandleClerkWebhook(rr, signedRequest(t, `{"type":"user.deleted","data":{"id":"user_1"}}`, now))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
