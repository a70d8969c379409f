package mail

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer(
	"github.com/angel-coaching/site-api/internal/mail",
)

// Message is one transactional email. HTML and Text are alternative bodies;
// both are sent.
type Message struct {
	From        string
	Subject     string
	HTML        string
	Text        string
	To          []string
	Attachments []Attachment
}

type Attachment struct {
	Filename string
	Content  []byte
}

// Sender delivers one message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// LoadAttachment reads a file from local storage for use as an email
// attachment. Callers treat a failure as non-fatal and degrade to a
// download link.
func LoadAttachment(path, filename string) (*Attachment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment %q: %w", path, err)
	}

	return &Attachment{Filename: filename, Content: content}, nil
}
