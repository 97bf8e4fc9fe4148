package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"reltool/internal/logging"
)

// ErrNoWebhook is returned when posting without a configured webhook URL.
var ErrNoWebhook = errors.New("no Slack webhook URL configured (set slack.webhook_url or SLACK_WEBHOOK_URL)")

// postTimeout bounds a webhook call.
const postTimeout = 15 * time.Second

// Webhook posts messages to a Slack incoming webhook.
type Webhook struct {
	URL    string
	Client *http.Client
}

// Post sends msg. Slack answers "ok" with 200 on success.
func (w Webhook) Post(ctx context.Context, msg Message) error {
	if w.URL == "" {
		return ErrNoWebhook
	}
	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, postTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("slack webhook: %w", err)
	}
	defer resp.Body.Close()

	logging.FromContext(ctx).Debug("slack webhook", zap.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return fmt.Errorf("slack webhook %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
