package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"easyhora-backend/logger"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// BillingProvider is the part of the checkout provider the subscription flows use.
type BillingProvider interface {
	FindCustomerByEmail(ctx context.Context, email string) (*StripeCustomer, error)
	ActiveSubscription(ctx context.Context, customerID string) (*StripeSubscription, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
}

type StripeCustomer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type StripeSubscription struct {
	ID               string
	ProductID        string
	CurrentPeriodEnd time.Time
}

type CheckoutParams struct {
	PriceID       string
	CustomerEmail string
	CustomerID    string
	TrialDays     int
	SuccessURL    string
	CancelURL     string
	UserID        uuid.UUID
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// StripeClient talks to the Stripe REST API with form-encoded requests.
type StripeClient struct {
	secretKey  string
	baseURL    string
	apiVersion string
	httpClient *http.Client
	dryRun     bool
	log        *logger.Logger
}

func NewStripeClient(secretKey string, log *logger.Logger) *StripeClient {
	if log == nil {
		log = logger.Default()
	}
	return &StripeClient{
		secretKey:  secretKey,
		baseURL:    "https://api.stripe.com",
		apiVersion: "2025-08-27.basil",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log.WithComponent("stripe"),
	}
}

// WithBaseURL overrides the Stripe API base URL (for testing).
func (s *StripeClient) WithBaseURL(baseURL string) *StripeClient {
	if baseURL != "" {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
	return s
}

// WithDryRun makes checkout return fake sessions and lookups find nothing.
func (s *StripeClient) WithDryRun(enabled bool) *StripeClient {
	s.dryRun = enabled
	return s
}

func (s *StripeClient) FindCustomerByEmail(ctx context.Context, email string) (*StripeCustomer, error) {
	ctx, span := tracer.Start(ctx, "stripe.customers.list")
	defer span.End()

	if s.dryRun {
		return nil, nil
	}

	q := url.Values{}
	q.Set("email", email)
	q.Set("limit", "1")

	var list struct {
		Data []StripeCustomer `json:"data"`
	}
	if err := s.do(ctx, http.MethodGet, "/v1/customers", q, &list); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(list.Data) == 0 {
		return nil, nil
	}
	return &list.Data[0], nil
}

func (s *StripeClient) ActiveSubscription(ctx context.Context, customerID string) (*StripeSubscription, error) {
	ctx, span := tracer.Start(ctx, "stripe.subscriptions.list")
	defer span.End()
	span.SetAttributes(attribute.String("stripe.customer_id", customerID))

	if s.dryRun {
		return nil, nil
	}

	q := url.Values{}
	q.Set("customer", customerID)
	q.Set("status", "active")
	q.Set("limit", "1")

	var list struct {
		Data []struct {
			ID               string `json:"id"`
			CurrentPeriodEnd int64  `json:"current_period_end"`
			Items            struct {
				Data []struct {
					CurrentPeriodEnd int64 `json:"current_period_end"`
					Price            struct {
						Product string `json:"product"`
					} `json:"price"`
				} `json:"data"`
			} `json:"items"`
		} `json:"data"`
	}
	if err := s.do(ctx, http.MethodGet, "/v1/subscriptions", q, &list); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(list.Data) == 0 {
		return nil, nil
	}

	sub := list.Data[0]
	out := &StripeSubscription{ID: sub.ID}
	periodEnd := sub.CurrentPeriodEnd
	if len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		out.ProductID = item.Price.Product
		// newer API versions moved the period onto the item
		if periodEnd == 0 {
			periodEnd = item.CurrentPeriodEnd
		}
	}
	if periodEnd > 0 {
		out.CurrentPeriodEnd = time.Unix(periodEnd, 0).UTC()
	}
	return out, nil
}

func (s *StripeClient) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	ctx, span := tracer.Start(ctx, "stripe.checkout.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("stripe.price_id", params.PriceID),
		attribute.String("easyhora.user_id", params.UserID.String()),
	)

	if s.dryRun {
		fakeID := "cs_dryrun_" + uuid.NewString()[:8]
		s.log.Infow("stripe dry run: skipping checkout session creation", "price_id", params.PriceID, "user_id", params.UserID)
		return &CheckoutSession{ID: fakeID, URL: "https://checkout.stripe.com/dry-run/" + fakeID}, nil
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", params.PriceID)
	form.Set("line_items[0][quantity]", "1")
	if params.CustomerID != "" {
		form.Set("customer", params.CustomerID)
	} else if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}
	if params.TrialDays > 0 {
		form.Set("subscription_data[trial_period_days]", strconv.Itoa(params.TrialDays))
	}
	if params.SuccessURL != "" {
		form.Set("success_url", params.SuccessURL)
	}
	if params.CancelURL != "" {
		form.Set("cancel_url", params.CancelURL)
	}
	form.Set("metadata[user_id]", params.UserID.String())

	var session CheckoutSession
	if err := s.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &session); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if session.URL == "" {
		return nil, fmt.Errorf("stripe: response missing checkout url")
	}
	return &session, nil
}

// do sends GET params as the query string and POST params as a form body.
func (s *StripeClient) do(ctx context.Context, method, path string, params url.Values, out any) error {
	if s.secretKey == "" {
		return fmt.Errorf("stripe: secret key not configured")
	}

	target := s.baseURL + path
	var body io.Reader
	if method == http.MethodGet {
		target += "?" + params.Encode()
	} else {
		body = strings.NewReader(params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("stripe: request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Stripe-Version", s.apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stripe: http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("stripe: %s %s status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("stripe: decode: %w", err)
	}
	return nil
}
