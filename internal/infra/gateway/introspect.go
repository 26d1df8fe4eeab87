package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/trace"
)

// IntrospectionClient validates bearer tokens against the auth service.
// Every call is one synchronous round trip; results are never cached.
type IntrospectionClient struct {
	client  *http.Client
	baseURL string
}

func NewIntrospectionClient(baseURL string) *IntrospectionClient {
	return &IntrospectionClient{
		client: &http.Client{
			Timeout: 2 * time.Second,
		},
		baseURL: baseURL,
	}
}

// Validate forwards the Authorization header to the auth service's
// validate endpoint. Any outcome other than a 2xx response is a
// rejection; callers cannot distinguish an invalid token from an
// unreachable auth service.
func (c *IntrospectionClient) Validate(ctx context.Context, authHeader string) error {
	ctx, span := tracer.Start(ctx, "Introspection.Client.Validate",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/validate", nil)
	if err != nil {
		return errors.Wrap(err, "IntrospectionClient.Validate: build request")
	}
	req.Header.Set("Authorization", authHeader)

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "IntrospectionClient.Validate: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("token rejected with status %d", resp.StatusCode)
		span.RecordError(err)
		return err
	}

	return nil
}
