package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"

	"vidbrief/internal/config"
	"vidbrief/internal/domain/models"
	"vidbrief/internal/domain/repositories"
)

type BillingService interface {
	CreateCheckoutSession(ctx context.Context, userID int64, plan models.UserPlan, successURL, cancelURL string) (string, string, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type billingService struct {
	userRepo      repositories.UserRepository
	priceIDs      map[models.UserPlan]string
	webhookSecret string

	createSession func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	verifyEvent   func(payload []byte, signature string) (stripe.Event, error)
}

func NewBillingService(userRepo repositories.UserRepository, cfg config.BillingConfig) BillingService {
	stripe.Key = cfg.StripeSecret

	s := &billingService{
		userRepo: userRepo,
		priceIDs: map[models.UserPlan]string{
			models.PlanPro: cfg.ProPriceID,
			models.PlanMax: cfg.MaxPriceID,
		},
		webhookSecret: cfg.StripeWebhookSecret,
		createSession: session.New,
	}
	s.verifyEvent = func(payload []byte, signature string) (stripe.Event, error) {
		return webhook.ConstructEvent(payload, signature, s.webhookSecret)
	}
	return s
}

func (s *billingService) CreateCheckoutSession(ctx context.Context, userID int64, plan models.UserPlan, successURL, cancelURL string) (string, string, error) {
	priceID, exists := s.priceIDs[plan]
	if !exists || priceID == "" {
		return "", "", fmt.Errorf("no purchasable price for plan: %s", plan)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to load user: %w", err)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail: stripe.String(user.Email),
		SuccessURL:    stripe.String(successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"user_id": strconv.FormatInt(userID, 10),
			"plan":    string(plan),
		},
	}

	sess, err := s.createSession(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return sess.URL, sess.ID, nil
}

// HandleWebhook verifies and applies a Stripe event. Only completed checkout
// sessions matter here: they carry the purchased plan in metadata and flip
// the user's plan. Everything else is acknowledged and ignored.
func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.verifyEvent(payload, signature)
	if err != nil {
		return fmt.Errorf("webhook signature verification failed: %w", err)
	}

	if event.Type != "checkout.session.completed" {
		log.Printf("ignoring stripe event %s", event.Type)
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("failed to decode checkout session: %w", err)
	}

	userID, err := strconv.ParseInt(sess.Metadata["user_id"], 10, 64)
	if err != nil {
		return fmt.Errorf("checkout session %s has no usable user_id: %w", sess.ID, err)
	}

	plan := models.UserPlan(sess.Metadata["plan"])
	if _, ok := s.priceIDs[plan]; !ok {
		return fmt.Errorf("checkout session %s names unknown plan %q", sess.ID, plan)
	}

	if err := s.userRepo.UpdateUserPlan(ctx, userID, plan); err != nil {
		return fmt.Errorf("failed to apply plan %s to user %d: %w", plan, userID, err)
	}

	log.Printf("✅ user %d upgraded to %s plan", userID, plan)
	return nil
}
