// internal/core/ports/report.go
package ports

import (
	"context"
	"io"
	"time"
)

// ReportStorage defines the interface for report artifact storage
type ReportStorage interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
	GetPresignedURL(ctx context.Context, key string, duration time.Duration) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Mailer defines the interface for outbound report email
type Mailer interface {
	Send(ctx context.Context, to []string, subject, textBody, htmlBody string) error
}
