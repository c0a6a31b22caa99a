package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fxtracker/fx-tracker/pkg/errlvl"
)

// DiscordPublisher publishes messages to a Discord channel through a webhook.
type DiscordPublisher struct {
	WebhookURL string       // Discord webhook URL (carries the credential)
	ChannelID  string       // Target channel id, informational only
	Client     *http.Client // HTTP client used for the webhook calls
}

// NewDiscordPublisher creates a new DiscordPublisher instance.
func NewDiscordPublisher(webhookURL, channelID string) *DiscordPublisher {
	return &DiscordPublisher{
		WebhookURL: webhookURL,
		ChannelID:  channelID,
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// webhookPayload is the Discord webhook request body.
type webhookPayload struct {
	Content string `json:"content"`
}

// Publish sends the message content to the webhook.
// Discord signals success with 204 No Content; any other status is a
// delivery failure carrying the response body for diagnostics.
func (p *DiscordPublisher) Publish(ctx context.Context, content string) error {
	payload, err := json.Marshal(webhookPayload{Content: content})
	if err != nil {
		return newError(errlvl.ERROR, ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return newError(errlvl.ERROR, ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return newError(errlvl.ERROR, ErrSendFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return newError(errlvl.ERROR, ErrUnexpectedStatus, fmt.Errorf("status %d: %s", res.StatusCode, body))
	}

	return nil
}
