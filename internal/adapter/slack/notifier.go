// Package slack posts reminder and escalation alerts to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Strob0t/followup/internal/port/notifier"
)

const providerName = "slack"

// Notifier sends notifications to a Slack channel.
type Notifier struct {
	webhookURL string
	httpClient *http.Client
}

// NewNotifier creates a Slack notifier with the given webhook URL.
func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *Notifier) Name() string { return providerName }

func (n *Notifier) Capabilities() notifier.Capabilities {
	return notifier.Capabilities{RichFormatting: true}
}

type message struct {
	Text   string  `json:"text"`
	Blocks []block `json:"blocks"`
}

type block struct {
	Type     string  `json:"type"`
	Text     *text   `json:"text,omitempty"`
	Elements []*text `json:"elements,omitempty"`
}

type text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// payload renders the notification as Block Kit. Text carries a plain
// fallback for clients that do not render blocks.
func payload(nf notifier.Notification) message {
	msg := message{
		Text: nf.Title,
		Blocks: []block{
			{Type: "header", Text: &text{Type: "plain_text", Text: levelTag(nf.Level) + " " + nf.Title}},
			{Type: "section", Text: &text{Type: "mrkdwn", Text: "```" + nf.Message + "```"}},
		},
	}

	var ctxParts []string
	if nf.Recipient != "" {
		ctxParts = append(ctxParts, "To: "+nf.Recipient)
	}
	if nf.Source != "" {
		ctxParts = append(ctxParts, "_"+nf.Source+"_")
	}
	if len(ctxParts) > 0 {
		msg.Blocks = append(msg.Blocks, block{
			Type:     "context",
			Elements: []*text{{Type: "mrkdwn", Text: strings.Join(ctxParts, " | ")}},
		})
	}
	return msg
}

func (n *Notifier) Send(ctx context.Context, nf notifier.Notification) error {
	if n.webhookURL == "" {
		return notifier.ErrNotConfigured
	}

	body, err := json.Marshal(payload(nf))
	if err != nil {
		return fmt.Errorf("slack marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req) //nolint:gosec // webhook URL from trusted config
	if err != nil {
		return fmt.Errorf("slack send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("slack API %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func levelTag(level string) string {
	switch level {
	case "success":
		return "[DONE]"
	case "error":
		return "[ESCALATION]"
	case "warning":
		return "[REMINDER]"
	default:
		return "[INFO]"
	}
}
