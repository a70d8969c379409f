package forward

import (
	"context"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer(
	"github.com/angel-coaching/site-api/internal/forward",
)

// Forwarder posts a shaped submission payload to an external webhook.
// Dispatch is at most once per request; implementations must not retry.
type Forwarder interface {
	Forward(ctx context.Context, url string, payload any) error
}
