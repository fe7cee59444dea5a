// Package telegram delivers high-risk alerts to a Telegram chat.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/riskfeed/internal/usecase/alert"
)

const defaultTimeout = 10 * time.Second

// Notifier sends alerts through the Bot API.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

type config struct {
	endpoint string
	client   tgbotapi.HTTPClient
	logger   *zap.Logger
}

// Option configures the Notifier.
type Option func(*config)

// WithEndpoint overrides the Bot API endpoint format (token, method).
func WithEndpoint(endpoint string) Option {
	return func(c *config) { c.endpoint = endpoint }
}

// WithHTTPClient sets the HTTP client used for Bot API calls.
func WithHTTPClient(client tgbotapi.HTTPClient) Option {
	return func(c *config) { c.client = client }
}

// WithLogger sets the notifier logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// New authenticates the bot (getMe) and returns a Notifier bound to chatID.
func New(token string, chatID int64, opts ...Option) (*Notifier, error) {
	if token == "" {
		return nil, errors.New("telegram: token is required")
	}
	if chatID == 0 {
		return nil, errors.New("telegram: chat id is required")
	}

	cfg := &config{
		endpoint: tgbotapi.APIEndpoint,
		client:   &http.Client{Timeout: defaultTimeout},
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, cfg.endpoint, cfg.client)
	if err != nil {
		return nil, fmt.Errorf("telegram: authenticate bot: %w", err)
	}

	cfg.logger.Info("Telegram notifier ready",
		zap.String("bot", api.Self.UserName),
		zap.Int64("chat_id", chatID),
	)
	return &Notifier{api: api, chatID: chatID, logger: cfg.logger}, nil
}

// Name implements alert.Notifier.
func (n *Notifier) Name() string { return "telegram" }

// Notify implements alert.Notifier.
func (n *Notifier) Notify(ctx context.Context, a alert.Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, a.Text())
	msg.DisableWebPagePreview = true

	sent, err := n.api.Send(msg)
	if err != nil {
		return fmt.Errorf("telegram: send message: %w", err)
	}

	n.logger.Debug("Telegram alert sent",
		zap.Int("message_id", sent.MessageID),
		zap.Int64("document_id", a.Document.ID),
	)
	return nil
}

// HealthCheck verifies the bot token is still accepted.
func (n *Notifier) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := n.api.GetMe(); err != nil {
		return fmt.Errorf("telegram: get me: %w", err)
	}
	return nil
}
