package mail

import (
	"context"
	"fmt"
	"html"

	"github.com/juju/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Sender delivers a plain-text email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SendGridClient struct {
	apiKey string
	from   string
	log    *zap.Logger
}

func NewSendGridClient(apiKey, from string, log *zap.Logger) *SendGridClient {
	return &SendGridClient{apiKey: apiKey, from: from, log: log}
}

func (c *SendGridClient) Send(ctx context.Context, to, subject, body string) error {
	if c.apiKey == "" {
		return errors.NotValidf("sendgrid api key")
	}
	if c.from == "" {
		return errors.NotValidf("empty from address")
	}
	if to == "" {
		return errors.NotValidf("empty to address")
	}

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail("Balloon Shop", c.from),
		subject,
		sgmail.NewEmail("", to),
		body,
		fmt.Sprintf("<pre>%s</pre>", html.EscapeString(body)),
	)

	client := sendgrid.NewSendClient(c.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return errors.Annotate(err, "sendgrid send")
	}
	if response.StatusCode >= 400 {
		return errors.Errorf("sendgrid send failed: status=%d body=%s", response.StatusCode, response.Body)
	}

	c.log.Debug("mail sent", zap.Int("status", response.StatusCode), zap.String("to", to), zap.String("subject", subject))
	return nil
}

// Noop is used when no mail provider is configured.
type Noop struct{}

func (Noop) Send(context.Context, string, string, string) error { return nil }
