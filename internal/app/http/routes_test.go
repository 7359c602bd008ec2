package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	routes "replyforge/internal/app/http"
	"replyforge/internal/app/billingsync"
	"replyforge/internal/app/generation"
	"replyforge/internal/domain/accounts"
	"replyforge/internal/domain/businesses"
	"replyforge/internal/domain/plans"
	"replyforge/internal/domain/responses"
	"replyforge/internal/domain/templates"
	"replyforge/internal/infra/events"
	"replyforge/internal/infra/identity"
	stripeinfra "replyforge/internal/infra/stripe"
	"replyforge/internal/shared/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	webhookSecret = "whsec_test"
	cookieName    = "rf_session"
	supportEmail  = "support@replyforge.test"
)

type server struct {
	t        *testing.T
	router   *gin.Engine
	db       *gorm.DB
	gateway  *testutil.Gateway
	provider *testutil.Provider
	mailbox  *testutil.Mailbox
	events   *events.Recorder
	tokens   testutil.StaticVerifier
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &server{
		t:        t,
		db:       testutil.NewDB(t),
		gateway:  testutil.NewGateway(webhookSecret),
		provider: &testutil.Provider{Text: "Thank you so much for the kind words!", Tokens: 120},
		mailbox:  &testutil.Mailbox{},
		events:   &events.Recorder{},
		tokens:   testutil.StaticVerifier{},
	}
	registry := plans.NewRegistry(map[plans.Tier]string{
		plans.TierStarter: "price_starter",
		plans.TierPro:     "price_pro",
		plans.TierAgency:  "price_agency",
	})

	s.router = gin.New()
	routes.RegisterRoutes(s.router, routes.Deps{
		DB:           s.db,
		Generation:   generation.NewService(s.db, s.provider, s.events),
		BillingSync:  billingsync.NewService(s.db, s.gateway, registry, s.events),
		Stripe:       s.gateway,
		Registry:     registry,
		Sessions:     s.tokens,
		CookieName:   cookieName,
		Mailer:       s.mailbox,
		SupportEmail: supportEmail,
		AppURL:       "https://app.replyforge.test",
		AdminEmails:  []string{"boss@example.com"},
	})
	return s
}

// login seeds an account and returns a bearer token for it.
func (s *server) login(id string, tier plans.Tier, used int) string {
	s.t.Helper()
	testutil.SeedAccount(s.t, s.db, id, tier, used)
	token := "tok-" + id
	s.tokens[token] = &identity.Principal{Subject: id, Email: id + "@example.com"}
	return token
}

func (s *server) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *server) account(id string) *accounts.Account {
	s.t.Helper()
	var a accounts.Account
	require.NoError(s.t, s.db.Where("id = ?", id).First(&a).Error)
	return &a
}

func generateBody() map[string]interface{} {
	return map[string]interface{}{
		"reviewText":   "The pasta was amazing and the staff were lovely.",
		"reviewerName": "Dana",
		"reviewRating": 5,
		"businessName": "Luigi's",
		"tone":         "friendly",
	}
}

func TestHealthAndPlans(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/plans", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)["plans"].([]interface{})
	require.Len(t, list, 4)
	pro := list[2].(map[string]interface{})
	assert.Equal(t, "PRO", pro["key"])
	assert.Equal(t, "price_pro", pro["priceId"])
}

func TestAuth_RequiresValidToken(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/generate", "", generateBody())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decode(t, w)["error"])

	w = s.do(http.MethodPost, "/generate", "forged", generateBody())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, s.provider.Calls)
}

func TestAuth_SessionCookie(t *testing.T) {
	s := newServer(t)
	token := s.login("cookie-user", plans.TierFree, 0)

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cookie-user@example.com", decode(t, w)["email"])
}

func TestGenerate_FreeQuotaExhausted(t *testing.T) {
	s := newServer(t)
	token := s.login("free-user", plans.TierFree, 5)

	w := s.do(http.MethodPost, "/generate", token, generateBody())

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Monthly response limit reached. Please upgrade your plan.", decode(t, w)["error"])
	assert.Zero(t, s.provider.Calls)
	assert.Equal(t, 5, s.account("free-user").ResponsesUsed)
}

func TestGenerate_ProIncrementsUsageAndHistory(t *testing.T) {
	s := newServer(t)
	token := s.login("pro-user", plans.TierPro, 10)

	w := s.do(http.MethodPost, "/generate", token, generateBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Thank you so much for the kind words!", body["response"])
	assert.EqualValues(t, 120, body["tokensUsed"])
	assert.NotEmpty(t, body["responseId"])
	assert.Equal(t, 11, s.account("pro-user").ResponsesUsed)

	w = s.do(http.MethodGet, "/responses", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode(t, w)
	assert.Len(t, history["responses"], 1)
	stats := history["stats"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["total"])
	assert.EqualValues(t, 1, stats["thisWeek"])
	assert.EqualValues(t, 5, stats["avgRating"])

	w = s.do(http.MethodGet, "/responses/"+body["responseId"].(string), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	other := s.login("other-user", plans.TierFree, 0)
	w = s.do(http.MethodGet, "/responses/"+body["responseId"].(string), other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGenerate_ValidationDetails(t *testing.T) {
	s := newServer(t)
	token := s.login("pro-user", plans.TierPro, 0)

	req := generateBody()
	req["reviewText"] = "too short"
	req["reviewRating"] = 9

	w := s.do(http.MethodPost, "/generate", token, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Invalid request data", body["error"])

	fields := map[string]bool{}
	for _, d := range body["details"].([]interface{}) {
		fields[d.(map[string]interface{})["field"].(string)] = true
	}
	assert.True(t, fields["reviewText"])
	assert.True(t, fields["reviewRating"])
	assert.Zero(t, s.account("pro-user").ResponsesUsed)
}

func TestGenerate_StripsMarkupKeepsText(t *testing.T) {
	s := newServer(t)
	token := s.login("pro-user", plans.TierPro, 0)

	req := generateBody()
	req["reviewText"] = "<b>Luigi's</b> pasta was wonderful & fresh<script>alert(1)</script>"

	w := s.do(http.MethodPost, "/generate", token, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, s.provider.LastUser, "Luigi's pasta was wonderful & fresh")
	assert.NotContains(t, s.provider.LastUser, "<b>")
	assert.NotContains(t, s.provider.LastUser, "script")
}

func TestWebhook_BadSignatureRejected(t *testing.T) {
	s := newServer(t)
	s.login("u1", plans.TierFree, 3)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Signature verification failed", decode(t, w)["error"])
	assert.Equal(t, plans.TierFree, s.account("u1").Plan)
}

func TestWebhook_CheckoutUpgradesAccountOnce(t *testing.T) {
	s := newServer(t)
	s.login("u1", plans.TierFree, 3)
	s.gateway.Subs["sub_1"] = &stripeinfra.Subscription{
		ID:               "sub_1",
		CustomerID:       "cus_1",
		PriceID:          "price_pro",
		Status:           "active",
		CurrentPeriodEnd: time.Date(2026, 11, 19, 0, 0, 0, 0, time.UTC),
	}

	payload := []byte(`{
		"id": "evt_checkout_1",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_1",
			"object": "checkout.session",
			"mode": "subscription",
			"client_reference_id": "u1",
			"customer": "cus_1",
			"subscription": "sub_1"
		}}
	}`)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
		req.Header.Set("Stripe-Signature", testutil.StripeSignature(webhookSecret, payload, time.Now()))
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		return w
	}

	w := send()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "processed", decode(t, w)["status"])

	a := s.account("u1")
	assert.Equal(t, plans.TierPro, a.Plan)
	assert.Equal(t, 500, a.ResponsesLimit)
	assert.Zero(t, a.ResponsesUsed)
	require.NotNil(t, a.StripeCustomerID)
	assert.Equal(t, "cus_1", *a.StripeCustomerID)

	w = send()
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "duplicate", decode(t, w)["status"])
}

func TestSubscription_ReadAndActions(t *testing.T) {
	s := newServer(t)
	token := s.login("u1", plans.TierFree, 2)

	w := s.do(http.MethodGet, "/subscription", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "FREE", body["plan"])
	assert.Equal(t, false, body["hasActiveSubscription"])
	assert.Equal(t, "none", body["status"])
	assert.EqualValues(t, 2, body["responsesUsed"])
	assert.EqualValues(t, 5, body["responsesLimit"])

	w = s.do(http.MethodPost, "/subscription", token, map[string]string{"action": "checkout", "plan": "pro"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "https://checkout.stripe.test/price_pro", decode(t, w)["url"])
	require.Len(t, s.gateway.Checkouts, 1)
	assert.Equal(t, "u1", s.gateway.Checkouts[0].AccountID)
	assert.Equal(t, "u1@example.com", s.gateway.Checkouts[0].Email)
	assert.True(t, strings.HasPrefix(s.gateway.Checkouts[0].SuccessURL, "https://app.replyforge.test/billing?success=true"))

	for _, plan := range []string{"gold", "free", ""} {
		w = s.do(http.MethodPost, "/subscription", token, map[string]string{"action": "checkout", "plan": plan})
		assert.Equal(t, http.StatusBadRequest, w.Code, plan)
		assert.Equal(t, "Invalid plan", decode(t, w)["error"])
	}

	w = s.do(http.MethodPost, "/subscription", token, map[string]string{"action": "portal"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No active subscription found", decode(t, w)["error"])

	w = s.do(http.MethodPost, "/subscription", token, map[string]string{"action": "upgrade-now"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid action", decode(t, w)["error"])
}

func TestSubscription_CancelAndReactivate(t *testing.T) {
	s := newServer(t)
	token := s.login("u1", plans.TierPro, 0)
	require.NoError(t, s.db.Model(&accounts.Account{}).Where("id = ?", "u1").Updates(map[string]interface{}{
		"stripe_customer_id":     "cus_1",
		"stripe_subscription_id": "sub_1",
	}).Error)

	w := s.do(http.MethodPost, "/subscription", token, map[string]string{"action": "cancel"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["cancelAtPeriodEnd"])
	assert.True(t, s.gateway.CancelToggles["sub_1"])
	assert.True(t, s.account("u1").CancelAtPeriodEnd)
	assert.Equal(t, plans.TierPro, s.account("u1").Plan)

	w = s.do(http.MethodPost, "/subscription", token, map[string]string{"action": "reactivate"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, s.account("u1").CancelAtPeriodEnd)

	w = s.do(http.MethodPost, "/subscription", token, map[string]string{"action": "portal"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://billing.stripe.test/cus_1", decode(t, w)["url"])
}

func TestBusinesses_LimitOwnershipAndCascade(t *testing.T) {
	s := newServer(t)
	token := s.login("u1", plans.TierFree, 0)

	w := s.do(http.MethodPost, "/businesses", token, map[string]interface{}{
		"name":         "Luigi's",
		"type":         "restaurant",
		"website":      "",
		"toneKeywords": []string{"warm", " "},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)["business"].(map[string]interface{})
	id := created["id"].(string)
	assert.Nil(t, created["website"])
	assert.Equal(t, []interface{}{"warm"}, created["toneKeywords"])

	w = s.do(http.MethodPost, "/businesses", token, map[string]interface{}{"name": "Second"})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Business limit reached. Your FREE plan allows 1 business.", decode(t, w)["error"])

	w = s.do(http.MethodPost, "/businesses", token, map[string]interface{}{"name": "Bad", "website": "not a url"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	other := s.login("u2", plans.TierFree, 0)
	w = s.do(http.MethodGet, "/businesses/"+id, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied", decode(t, w)["error"])

	w = s.do(http.MethodGet, "/businesses/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPatch, "/businesses/"+id, token, map[string]interface{}{
		"website":    "https://luigis.example",
		"brandVoice": "friendly",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)["business"].(map[string]interface{})
	assert.Equal(t, "https://luigis.example", updated["website"])
	assert.Equal(t, "Luigi's", updated["name"])

	w = s.do(http.MethodPatch, "/businesses/"+id, token, map[string]interface{}{"website": ""})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode(t, w)["business"].(map[string]interface{})["website"])

	for i := 0; i < 2; i++ {
		require.NoError(t, s.db.Create(&responses.GeneratedResponse{
			AccountID:    "u1",
			BusinessID:   testutil.Ptr(id),
			ReviewText:   "Great food, slow service.",
			ResponseText: "Thanks!",
			ResponseTone: "professional",
		}).Error)
	}

	w = s.do(http.MethodGet, "/businesses", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)["businesses"].([]interface{})
	require.Len(t, list, 1)
	assert.EqualValues(t, 2, list[0].(map[string]interface{})["responseCount"])

	w = s.do(http.MethodDelete, "/businesses/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["deletedResponses"])

	var n int64
	require.NoError(t, s.db.Model(&responses.GeneratedResponse{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, s.db.Model(&businesses.Business{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestTemplates_LimitAndVisibility(t *testing.T) {
	s := newServer(t)
	token := s.login("u1", plans.TierFree, 0)

	var ids []string
	for i := 0; i < 3; i++ {
		w := s.do(http.MethodPost, "/templates", token, map[string]interface{}{
			"name":           "Thanks",
			"category":       "positive",
			"promptTemplate": "Thank the reviewer warmly.",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		ids = append(ids, decode(t, w)["template"].(map[string]interface{})["id"].(string))
	}

	w := s.do(http.MethodPost, "/templates", token, map[string]interface{}{"name": "One more", "promptTemplate": "x"})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Template limit reached. Your FREE plan allows 3 templates.", decode(t, w)["error"])

	w = s.do(http.MethodPost, "/templates", token, map[string]interface{}{"name": "Bad", "promptTemplate": "x", "category": "angry"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	other := s.login("u2", plans.TierPro, 0)
	require.NoError(t, s.db.Create(&templates.Template{
		AccountID:      "u2",
		Name:           "Shared apology",
		PromptTemplate: "Apologise sincerely.",
		IsPublic:       true,
	}).Error)

	w = s.do(http.MethodGet, "/templates/"+ids[0], other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, "/templates/"+ids[0], token, map[string]interface{}{"isPublic": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodGet, "/templates/"+ids[0], other, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodDelete, "/templates/"+ids[0], other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/templates", token, nil)
	assert.Len(t, decode(t, w)["templates"], 3)
	w = s.do(http.MethodGet, "/templates?includePublic=true", token, nil)
	assert.Len(t, decode(t, w)["templates"], 4)
	w = s.do(http.MethodGet, "/templates?includePublic=true&category=positive", token, nil)
	assert.Len(t, decode(t, w)["templates"], 3)

	w = s.do(http.MethodDelete, "/templates/"+ids[1], token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/templates/"+ids[1], token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUser_UpdateProfile(t *testing.T) {
	s := newServer(t)
	token := s.login("u1", plans.TierFree, 1)

	w := s.do(http.MethodPatch, "/user", token, map[string]interface{}{"name": "A"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid data", decode(t, w)["error"])

	w = s.do(http.MethodPatch, "/user", token, map[string]interface{}{
		"name":         "Dana Scully",
		"businessName": "Luigi's",
		"brandVoice":   "empathetic",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decode(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "Dana Scully", user["name"])
	assert.Equal(t, "empathetic", user["brandVoice"])
	assert.EqualValues(t, 4, user["responsesRemaining"])

	w = s.do(http.MethodPatch, "/user", token, map[string]interface{}{"businessName": ""})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, s.account("u1").BusinessName)
	assert.Equal(t, "Dana Scully", *s.account("u1").Name)
}

func TestUser_DeleteCancelsSubscriptionAndCascades(t *testing.T) {
	s := newServer(t)
	token := s.login("u1", plans.TierStarter, 4)
	require.NoError(t, s.db.Model(&accounts.Account{}).Where("id = ?", "u1").
		Update("stripe_subscription_id", "sub_9").Error)

	w := s.do(http.MethodPost, "/generate", token, generateBody())
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodPost, "/businesses", token, map[string]interface{}{"name": "Luigi's"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodDelete, "/user", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"sub_9"}, s.gateway.Cancelled)

	for _, model := range []interface{}{&accounts.Account{}, &responses.GeneratedResponse{}, &businesses.Business{}} {
		var n int64
		require.NoError(t, s.db.Model(model).Count(&n).Error)
		assert.Zero(t, n)
	}

	w = s.do(http.MethodGet, "/user", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContact(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/contact", "", map[string]interface{}{
		"name":    "Dana",
		"email":   "dana@example.com",
		"subject": "support",
		"message": "The generate button does nothing on Safari.",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.True(t, strings.HasPrefix(body["ticketId"].(string), "RF-"))
	assert.Equal(t, "Technical Support", body["category"])
	require.Len(t, s.mailbox.Sent, 1)
	assert.Equal(t, supportEmail, s.mailbox.Sent[0].To)
	assert.Equal(t, "dana@example.com", s.mailbox.Sent[0].ReplyTo)

	w = s.do(http.MethodPost, "/contact", "", map[string]interface{}{
		"name":    "D",
		"email":   "nope",
		"subject": "support",
		"message": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid form data", decode(t, w)["error"])
	assert.Len(t, s.mailbox.Sent, 1)
}

func TestAdmin_OperatorOnly(t *testing.T) {
	s := newServer(t)
	user := s.login("u1", plans.TierPro, 7)
	boss := s.login("boss", plans.TierFree, 0)

	w := s.do(http.MethodGet, "/admin/stats", user, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/generate", user, generateBody())
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/admin/stats", boss, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decode(t, w)
	assert.EqualValues(t, 2, stats["totalAccounts"])
	assert.EqualValues(t, 1, stats["totalResponses"])
	assert.EqualValues(t, 120, stats["tokensLast30Days"])
	perPlan := stats["accountsPerPlan"].(map[string]interface{})
	assert.EqualValues(t, 1, perPlan["PRO"])
	assert.EqualValues(t, 1, perPlan["FREE"])

	w = s.do(http.MethodGet, "/admin/accounts", boss, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["accounts"], 2)
}
