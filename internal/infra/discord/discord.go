// Package discord posts channel messages through a bot token. Sending is
// strictly best-effort: callers are expected to log and drop errors.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/keremkk/kisalink/config"
)

const (
	apiBase        = "https://discord.com/api/v10"
	requestTimeout = 10 * time.Second
)

// Client posts messages to a single configured channel.
type Client struct {
	botToken  string
	channelID string
	httpc     *http.Client
}

// NewClient builds a client from config. An unconfigured client is valid
// and reports Enabled() == false.
func NewClient(cfg config.DiscordConfig) *Client {
	return &Client{
		botToken:  cfg.BotToken,
		channelID: cfg.ChannelID,
		httpc:     &http.Client{Timeout: requestTimeout},
	}
}

// Enabled reports whether a bot token and channel are configured.
func (c *Client) Enabled() bool {
	return c.botToken != "" && c.channelID != ""
}

type message struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds"`
}

// Send posts a message with the given embeds to the configured channel.
func (c *Client) Send(ctx context.Context, content string, embeds ...Embed) error {
	if !c.Enabled() {
		return nil
	}

	body, err := json.Marshal(message{Content: content, Embeds: embeds})
	if err != nil {
		return fmt.Errorf("discord: marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/channels/%s/messages", apiBase, c.channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("discord: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("discord: send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("discord: send message: %s: %s", resp.Status, detail)
	}
	return nil
}
