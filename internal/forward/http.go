package forward

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// UpstreamError classifies a non-2xx answer from the receiving webhook. The
// captured body is for server-side logging only and must never reach the
// client.
type UpstreamError struct {
	Body   string
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream rejected submission with status %d", e.Status)
}

// Ensure HTTPForwarder implements Forwarder interface.
var _ Forwarder = (*HTTPForwarder)(nil)

type HTTPForwarder struct {
	client *http.Client
}

func NewHTTPForwarder(client *http.Client) *HTTPForwarder {
	return &HTTPForwarder{
		client: client,
	}
}

func (f *HTTPForwarder) Forward(ctx context.Context, url string, payload any) error {
	ctx, span := tracer.Start(ctx, "HTTPForwarder.Forward", trace.WithAttributes(
		attribute.String("url", url),
	))
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to encode payload")
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to construct request")
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reach upstream")
		return err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status", resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		err = &UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream rejected submission")
		return err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "forwarded submission")
	return nil
}
