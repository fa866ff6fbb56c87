package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"

	"vidbrief/internal/domain/models"
)

func newBilling(repo *memUserRepo) *billingService {
	return &billingService{
		userRepo: repo,
		priceIDs: map[models.UserPlan]string{
			models.PlanPro: "price_pro",
			models.PlanMax: "price_max",
		},
		webhookSecret: "whsec_test",
	}
}

func checkoutCompletedEvent(t *testing.T, metadata map[string]string) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"id":       "cs_test_123",
		"metadata": metadata,
	})
	require.NoError(t, err)
	return stripe.Event{
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestBilling_CheckoutSessionParams(t *testing.T) {
	repo := newMemUserRepo()
	require.NoError(t, repo.CreateUser(context.Background(), &models.User{Username: "alice", Email: "alice@example.com", Plan: models.PlanFree}))

	svc := newBilling(repo)
	var got *stripe.CheckoutSessionParams
	svc.createSession = func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		got = params
		return &stripe.CheckoutSession{ID: "cs_test_123", URL: "https://checkout.stripe.test/cs_test_123"}, nil
	}

	url, id, err := svc.CreateCheckoutSession(context.Background(), 1, models.PlanPro, "https://app.test/done", "https://app.test/cancel")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", id)
	assert.Equal(t, "https://checkout.stripe.test/cs_test_123", url)

	require.NotNil(t, got)
	assert.Equal(t, "price_pro", *got.LineItems[0].Price)
	assert.Equal(t, "alice@example.com", *got.CustomerEmail)
	assert.Equal(t, "1", got.Metadata["user_id"])
	assert.Equal(t, "pro", got.Metadata["plan"])
}

func TestBilling_CheckoutRejectsFreePlan(t *testing.T) {
	svc := newBilling(newMemUserRepo())
	_, _, err := svc.CreateCheckoutSession(context.Background(), 1, models.PlanFree, "https://app.test/done", "https://app.test/cancel")
	assert.Error(t, err)
}

func TestBilling_WebhookUpgradesPlan(t *testing.T) {
	repo := newMemUserRepo()
	require.NoError(t, repo.CreateUser(context.Background(), &models.User{Username: "alice", Email: "alice@example.com", Plan: models.PlanFree}))

	svc := newBilling(repo)
	svc.verifyEvent = func(payload []byte, signature string) (stripe.Event, error) {
		return checkoutCompletedEvent(t, map[string]string{"user_id": "1", "plan": "max"}), nil
	}

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))

	user, err := repo.GetUserByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.PlanMax, user.Plan)
}

func TestBilling_WebhookIgnoresOtherEvents(t *testing.T) {
	repo := newMemUserRepo()
	require.NoError(t, repo.CreateUser(context.Background(), &models.User{Username: "alice", Email: "alice@example.com", Plan: models.PlanFree}))

	svc := newBilling(repo)
	svc.verifyEvent = func(payload []byte, signature string) (stripe.Event, error) {
		return stripe.Event{Type: "invoice.paid", Data: &stripe.EventData{Raw: []byte(`{}`)}}, nil
	}

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))

	user, err := repo.GetUserByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, user.Plan, "unrelated events change nothing")
}

func TestBilling_WebhookRejectsBadSignature(t *testing.T) {
	svc := newBilling(newMemUserRepo())
	svc.verifyEvent = func(payload []byte, signature string) (stripe.Event, error) {
		return stripe.Event{}, errors.New("signature mismatch")
	}

	assert.Error(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "bad"))
}

func TestBilling_WebhookRejectsUnknownPlan(t *testing.T) {
	repo := newMemUserRepo()
	require.NoError(t, repo.CreateUser(context.Background(), &models.User{Username: "alice", Email: "alice@example.com", Plan: models.PlanFree}))

	svc := newBilling(repo)
	svc.verifyEvent = func(payload []byte, signature string) (stripe.Event, error) {
		return checkoutCompletedEvent(t, map[string]string{"user_id": "1", "plan": "platinum"}), nil
	}

	assert.Error(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))
}
