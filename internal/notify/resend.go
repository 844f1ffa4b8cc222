// Package notify sends transactional email through Resend.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/TheJazzDev/orits-fashion/internal/config"
	"github.com/TheJazzDev/orits-fashion/internal/domain"
	applog "github.com/TheJazzDev/orits-fashion/internal/log"
)

const DefaultEndpoint = "https://api.resend.com/emails"

type Resend struct {
	Endpoint string
	APIKey   string
	From     string
}

func NewResend(cfg config.Mail) *Resend {
	return &Resend{Endpoint: DefaultEndpoint, APIKey: cfg.ResendAPIKey, From: cfg.From}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (r *Resend) Send(ctx context.Context, msg domain.Email) error {
	if len(msg.To) == 0 {
		return errors.New("resend: no recipients")
	}
	a := fiber.Post(r.Endpoint)
	a.Set(fiber.HeaderAuthorization, "Bearer "+r.APIKey)
	a.Timeout(timeout(ctx))
	a.JSON(sendRequest{From: r.From, To: msg.To, Subject: msg.Subject, HTML: msg.HTML, ReplyTo: msg.ReplyTo})

	var out sendResponse
	code, _, errs := a.Struct(&out)
	if len(errs) > 0 {
		return fmt.Errorf("resend: %w", errors.Join(errs...))
	}
	if code >= 300 {
		return fmt.Errorf("resend: status %d: %s", code, out.Message)
	}
	applog.Event("info", "mail.sent", nil, map[string]any{"id": out.ID, "to": strings.Join(msg.To, ",")})
	return nil
}

// LogOnly records messages instead of sending them; used when no API key is set.
type LogOnly struct{}

func (LogOnly) Send(_ context.Context, msg domain.Email) error {
	applog.Event("info", "mail.skipped", nil, map[string]any{"to": strings.Join(msg.To, ","), "subject": msg.Subject})
	return nil
}

func timeout(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
		return time.Millisecond
	}
	return 10 * time.Second
}
