// README: OpenAI-compatible chat completions client with ordered response-shape probes.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"voyage/internal/modules/itinerary"
)

const (
	defaultChatEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultChatModel    = "gpt-4o-mini"
	defaultMaxTokens    = 1200
	defaultTemperature  = 0.7
)

// ChatConfig configures a ChatClient. Zero values take defaults, except
// APIKey: without it the client reports every call as unavailable.
type ChatConfig struct {
	Endpoint    string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

type ChatClient struct {
	cfg    ChatConfig
	http   *http.Client
	probes []responseProbe
	log    *zap.Logger
}

func NewChatClient(cfg ChatConfig, log *zap.Logger) *ChatClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultChatEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = defaultChatModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	// The timeout guards against stalled connections; context cancellation
	// is still honoured via NewRequestWithContext.
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		probes: defaultProbes,
		log:    log,
	}
}

// Generate sends exactly one request. Any failure resolves to Unavailable.
func (c *ChatClient) Generate(ctx context.Context, p Prompt) (out itinerary.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("chat client panicked", zap.Any("panic", r))
			out = itinerary.Unavailable()
		}
	}()

	if strings.TrimSpace(c.cfg.APIKey) == "" {
		c.log.Debug("chat client has no api key")
		return itinerary.Unavailable()
	}

	reqBody, err := json.Marshal(openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: p.User},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		c.log.Warn("chat: marshal request", zap.Error(err))
		return itinerary.Unavailable()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(reqBody))
	if err != nil {
		c.log.Warn("chat: build request", zap.Error(err))
		return itinerary.Unavailable()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("chat: do request", zap.Error(err))
		return itinerary.Unavailable()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Warn("chat: read response", zap.Error(err))
		return itinerary.Unavailable()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("chat: error status", zap.Int("status", resp.StatusCode), zap.ByteString("body", truncate(body, 512)))
		return itinerary.Unavailable()
	}

	for _, probe := range c.probes {
		if text, ok := probe.extract(body); ok {
			c.log.Debug("chat: response shape matched", zap.String("probe", probe.name))
			return itinerary.Unstructured(text)
		}
	}
	c.log.Warn("chat: no textual payload", zap.ByteString("body", truncate(body, 512)))
	return itinerary.Unavailable()
}

// responseProbe reads the reply text at one known response shape.
type responseProbe struct {
	name    string
	extract func(body []byte) (string, bool)
}

// defaultProbes are tried in order; the first non-blank match wins. Supporting
// a new backend shape means adding an entry here.
var defaultProbes = []responseProbe{
	{name: "choices[0].message", extract: probeChoiceMessage},
	{name: "choices[0].text", extract: probeChoiceText},
	{name: "raw string body", extract: probeRawString},
}

type choicesEnvelope struct {
	Choices []struct {
		Message json.RawMessage `json:"message"`
		Text    *string         `json:"text"`
	} `json:"choices"`
}

func firstChoice(body []byte) (*choicesEnvelope, bool) {
	var env choicesEnvelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Choices) == 0 {
		return nil, false
	}
	return &env, true
}

func probeChoiceMessage(body []byte) (string, bool) {
	env, ok := firstChoice(body)
	if !ok || len(env.Choices[0].Message) == 0 {
		return "", false
	}
	raw := env.Choices[0].Message

	// Some backends put the text directly in message.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return nonBlank(s)
	}

	var msg struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil || len(msg.Content) == 0 {
		return "", false
	}
	if err := json.Unmarshal(msg.Content, &s); err == nil {
		return nonBlank(s)
	}

	// Content given as a list of typed parts.
	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(msg.Content, &parts); err != nil {
		return "", false
	}
	var b strings.Builder
	for _, part := range parts {
		if part.Type == "" || part.Type == "text" {
			b.WriteString(part.Text)
		}
	}
	return nonBlank(b.String())
}

func probeChoiceText(body []byte) (string, bool) {
	env, ok := firstChoice(body)
	if !ok || env.Choices[0].Text == nil {
		return "", false
	}
	return nonBlank(*env.Choices[0].Text)
}

// probeRawString accepts a JSON string literal, or any body that is not a
// JSON object.
func probeRawString(body []byte) (string, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] == '{' {
		return "", false
	}
	var s string
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return nonBlank(s)
	}
	return nonBlank(string(trimmed))
}

func nonBlank(s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
