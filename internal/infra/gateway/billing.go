package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/carebridge/carebridge/internal/domain"
)

var tracer = otel.Tracer("gateway")

const (
	defaultTimeout = 3 * time.Second
	failKey        = "billing-consecutive-failures"
	failAlert      = 5
)

type billingRequest struct {
	PatientID string `json:"patientId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// BillingClient talks to the billing subsystem over a long-lived HTTP
// connection pool established once at startup.
type BillingClient struct {
	client  *http.Client
	baseURL string
	fails   *cache.Cache
}

func NewBillingClient(baseURL string) *BillingClient {
	return &BillingClient{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: baseURL,
		fails:   cache.New(10*time.Minute, 15*time.Minute),
	}
}

// CreateAccount provisions a billing account for a committed patient
// record. The call is bounded by the client timeout; any timeout or
// transport failure comes back as a distinguishable error and never
// blocks the caller past the bound.
func (c *BillingClient) CreateAccount(ctx context.Context, patientID, name, email string) (*domain.BillingAccount, error) {
	ctx, span := tracer.Start(ctx, "Billing.Client.CreateAccount",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(attribute.String("PatientId", patientID))

	body, err := json.Marshal(billingRequest{
		PatientID: patientID,
		Name:      name,
		Email:     email,
	})
	if err != nil {
		return nil, errors.Wrap(err, "BillingClient.CreateAccount: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/accounts", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "BillingClient.CreateAccount: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.recordFailure(ctx)
		span.RecordError(err)
		return nil, errors.Wrap(err, "BillingClient.CreateAccount: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("billing service returned status %d", resp.StatusCode)
		c.recordFailure(ctx)
		span.RecordError(err)
		return nil, err
	}

	var account domain.BillingAccount
	err = json.NewDecoder(resp.Body).Decode(&account)
	if err != nil {
		c.recordFailure(ctx)
		span.RecordError(err)
		return nil, errors.Wrap(err, "BillingClient.CreateAccount: decode response")
	}

	c.fails.Delete(failKey)

	return &account, nil
}

// recordFailure keeps a consecutive-failure count so sustained billing
// outages are visible in logs without affecting the caller.
func (c *BillingClient) recordFailure(ctx context.Context) {
	count, err := c.fails.IncrementInt64(failKey, 1)
	if err != nil {
		c.fails.Set(failKey, int64(1), cache.DefaultExpiration)
		count = 1
	}
	if count >= failAlert {
		slog.WarnContext(
			ctx, "billing service failing repeatedly",
			slog.Int64("consecutiveFailures", count),
			slog.String("module", "billing"),
		)
	}
}
