package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"easyhora-backend/apperror"
	"easyhora-backend/logger"
	"easyhora-backend/models"
	"easyhora-backend/repository"

	"github.com/google/uuid"
)

// SubscriptionStatus is the answer of the status check.
type SubscriptionStatus struct {
	Subscribed      bool       `json:"subscribed"`
	IsTrial         bool       `json:"is_trial"`
	TrialEnd        *time.Time `json:"trial_end,omitempty"`
	ProductID       *string    `json:"product_id"`
	SubscriptionEnd *time.Time `json:"subscription_end,omitempty"`
}

type SubscriptionConfig struct {
	PlanPrices map[string]string
	TrialDays  int
	SuccessURL string
	CancelURL  string
}

// SubscriptionService checks paid plans against the billing provider and
// starts checkouts.
type SubscriptionService struct {
	store    *repository.Store
	provider BillingProvider
	cfg      SubscriptionConfig
	log      *logger.Logger
	now      func() time.Time
}

func NewSubscriptionService(store *repository.Store, provider BillingProvider, cfg SubscriptionConfig, log *logger.Logger) *SubscriptionService {
	if log == nil {
		log = logger.Default()
	}
	return &SubscriptionService{
		store:    store,
		provider: provider,
		cfg:      cfg,
		log:      log.WithComponent("subscription"),
		now:      time.Now,
	}
}

func (s *SubscriptionService) WithClock(now func() time.Time) *SubscriptionService {
	s.now = now
	return s
}

// Status looks for an active subscription of the user's e-mail and falls back
// to the stored trial.
func (s *SubscriptionService) Status(ctx context.Context, userID uuid.UUID) (*SubscriptionStatus, error) {
	user, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Email == "" {
		return nil, apperror.NewValidation("user has no e-mail")
	}

	customer, err := s.provider.FindCustomerByEmail(ctx, user.Email)
	if err != nil {
		return nil, apperror.NewRemoteCall("checkout provider", err)
	}
	if customer == nil {
		s.log.Debugw("no checkout customer, using trial", "user_id", user.ID)
		return s.trialStatus(user), nil
	}

	sub, err := s.provider.ActiveSubscription(ctx, customer.ID)
	if err != nil {
		return nil, apperror.NewRemoteCall("checkout provider", err)
	}
	if sub == nil {
		return s.trialStatus(user), nil
	}

	if err := s.store.Users().MarkSubscribed(ctx, user.ID, customer.ID); err != nil {
		return nil, err
	}
	s.log.Infow("active subscription found", "user_id", user.ID, "subscription_id", sub.ID)

	status := &SubscriptionStatus{Subscribed: true}
	if sub.ProductID != "" {
		status.ProductID = &sub.ProductID
	}
	if !sub.CurrentPeriodEnd.IsZero() {
		end := sub.CurrentPeriodEnd
		status.SubscriptionEnd = &end
	}
	return status, nil
}

func (s *SubscriptionService) trialStatus(user *models.User) *SubscriptionStatus {
	return &SubscriptionStatus{
		Subscribed: user.TrialActive(s.now()),
		IsTrial:    user.Plan == models.PlanTrial,
		TrialEnd:   user.TrialEnd,
	}
}

// Checkout opens a subscription checkout for one of the configured plans.
func (s *SubscriptionService) Checkout(ctx context.Context, userID uuid.UUID, priceID string) (*CheckoutSession, error) {
	priceID = strings.TrimSpace(priceID)
	if !s.knownPrice(priceID) {
		return nil, apperror.NewValidation("unknown plan").WithDetail("price_id", priceID)
	}

	user, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, CheckoutParams{
		PriceID:       priceID,
		CustomerEmail: user.Email,
		CustomerID:    user.CheckoutCustomerID,
		TrialDays:     s.cfg.TrialDays,
		SuccessURL:    s.cfg.SuccessURL,
		CancelURL:     s.cfg.CancelURL,
		UserID:        user.ID,
	})
	if err != nil {
		return nil, apperror.NewRemoteCall("checkout provider", err)
	}
	s.log.Infow("checkout session created", "user_id", user.ID, "session_id", session.ID)
	return session, nil
}

func (s *SubscriptionService) knownPrice(priceID string) bool {
	if priceID == "" {
		return false
	}
	for _, p := range s.cfg.PlanPrices {
		if p == priceID {
			return true
		}
	}
	return false
}

// SyncResult reports one profile sync run.
type SyncResult struct {
	TotalUsers      int    `json:"total_users"`
	ProfilesCreated int    `json:"profiles_created"`
	ProfilesUpdated int    `json:"profiles_updated"`
	Errors          int    `json:"errors"`
	Message         string `json:"message"`
}

// SyncProfiles makes sure every user has an active profile carrying the
// current e-mail. A user that fails is counted and skipped.
func (s *SubscriptionService) SyncProfiles(ctx context.Context) (*SyncResult, error) {
	ctx, span := tracer.Start(ctx, "profiles.sync")
	defer span.End()

	users, err := s.store.Users().All(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := s.store.Profiles().ByUserID(ctx)
	if err != nil {
		return nil, err
	}

	res := &SyncResult{TotalUsers: len(users)}
	now := s.now()
	for _, u := range users {
		if _, ok := profiles[u.ID]; ok {
			if err := s.store.Profiles().Activate(ctx, u.ID, u.Email, now); err != nil {
				s.log.Warnw("failed to update profile", "user_id", u.ID, "error", err)
				res.Errors++
				continue
			}
			res.ProfilesUpdated++
			continue
		}

		p := &models.Profile{UserID: u.ID, Email: u.Email, PlanActive: true, SyncedAt: &now}
		if err := s.store.Profiles().Create(ctx, p); err != nil {
			s.log.Warnw("failed to create profile", "user_id", u.ID, "error", err)
			res.Errors++
			continue
		}
		res.ProfilesCreated++
	}

	res.Message = fmt.Sprintf("Sync completed: %d profiles created, %d profiles updated, %d errors",
		res.ProfilesCreated, res.ProfilesUpdated, res.Errors)
	s.log.Infow("profile sync finished", "total", res.TotalUsers, "created", res.ProfilesCreated,
		"updated", res.ProfilesUpdated, "errors", res.Errors)
	return res, nil
}
