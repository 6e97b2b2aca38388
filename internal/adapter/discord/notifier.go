// Package discord posts reminder and escalation alerts to a Discord webhook.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Strob0t/followup/internal/port/notifier"
)

const providerName = "discord"

// Discord rejects embed descriptions above this length.
const maxDescription = 4096

func init() {
	notifier.Register(providerName, func(settings map[string]string) (notifier.Notifier, error) {
		url := settings["webhook_url"]
		if url == "" {
			return nil, notifier.ErrNotConfigured
		}
		return NewNotifier(url), nil
	})
}

// Notifier sends notifications to a Discord channel.
type Notifier struct {
	webhookURL string
	httpClient *http.Client
}

// NewNotifier creates a Discord notifier with the given webhook URL.
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

type webhook struct {
	Embeds []embed `json:"embeds"`
}

type embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Color       int     `json:"color"`
	Fields      []field `json:"fields,omitempty"`
	Footer      *footer `json:"footer,omitempty"`
}

type field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type footer struct {
	Text string `json:"text"`
}

func toEmbed(nf notifier.Notification) embed {
	desc := nf.Message
	if len(desc) > maxDescription {
		desc = desc[:maxDescription-3] + "..."
	}
	e := embed{
		Title:       nf.Title,
		Description: desc,
		Color:       levelColor(nf.Level),
	}
	if nf.Recipient != "" {
		e.Fields = append(e.Fields, field{Name: "Recipient", Value: nf.Recipient, Inline: true})
	}
	if nf.Source != "" {
		e.Footer = &footer{Text: nf.Source}
	}
	return e
}

func (n *Notifier) Send(ctx context.Context, nf notifier.Notification) error {
	if n.webhookURL == "" {
		return notifier.ErrNotConfigured
	}

	body, err := json.Marshal(webhook{Embeds: []embed{toEmbed(nf)}})
	if err != nil {
		return fmt.Errorf("discord marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req) //nolint:gosec // webhook URL from trusted config
	if err != nil {
		return fmt.Errorf("discord send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// 204 on success
	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("discord API %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func levelColor(level string) int {
	switch level {
	case "success":
		return 0x2ECC71
	case "error":
		return 0xE74C3C
	case "warning":
		return 0xF39C12
	default:
		return 0x3498DB
	}
}
