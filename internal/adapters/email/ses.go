// internal/adapters/email/ses.go
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/adekola/stockpoint-be/internal/core/ports"
)

// SESMailer sends email through Amazon SES
type SESMailer struct {
	client *sesv2.Client
	sender string
	logger *slog.Logger
}

// Statically assert that *SESMailer implements the Mailer interface.
var _ ports.Mailer = (*SESMailer)(nil)

// SESConfig holds SES configuration
type SESConfig struct {
	Region   string
	Endpoint string
	Sender   string
}

// NewSESMailer creates a new SES mailer
func NewSESMailer(ctx context.Context, cfg *SESConfig, logger *slog.Logger) (*SESMailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &SESMailer{
		client: client,
		sender: cfg.Sender,
		logger: logger.With(slog.String("component", "mailer")),
	}, nil
}

// Send delivers an email to the given recipients. htmlBody is optional;
// when empty only the text part is sent.
func (m *SESMailer) Send(ctx context.Context, to []string, subject, textBody, htmlBody string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	body := &sestypes.Body{
		Text: &sestypes.Content{Data: aws.String(textBody)},
	}
	if htmlBody != "" {
		body.Html = &sestypes.Content{Data: aws.String(htmlBody)}
	}

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.sender),
		Destination: &sestypes.Destination{
			ToAddresses: to,
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(subject)},
				Body:    body,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.InfoContext(ctx, "email sent",
		slog.Int("recipients", len(to)),
		slog.String("subject", subject))

	return nil
}
