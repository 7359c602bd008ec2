// Package admin serves operator views across all accounts.
package admin

import (
	"net/http"
	"time"

	"replyforge/internal/api/respond"
	"replyforge/internal/domain/accounts"
	"replyforge/internal/domain/billing"
	"replyforge/internal/domain/plans"
	"replyforge/internal/domain/responses"
	"replyforge/internal/domain/usage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminAccount struct {
	ID                   string     `json:"id"`
	Email                string     `json:"email"`
	Name                 *string    `json:"name,omitempty"`
	Plan                 plans.Tier `json:"plan"`
	ResponsesUsed        int        `json:"responsesUsed"`
	ResponsesLimit       int        `json:"responsesLimit"`
	StripeCustomerID     *string    `json:"stripeCustomerId,omitempty"`
	StripeSubscriptionID *string    `json:"stripeSubscriptionId,omitempty"`
	CurrentPeriodEnd     *time.Time `json:"currentPeriodEnd,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

type AdminPayment struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Plan       plans.Tier `json:"plan"`
	AmountUSD  float64    `json:"amountUsd"`
	Status     string     `json:"status"`
	InvoiceID  string     `json:"invoiceId"`
	ReceiptURL *string    `json:"receiptUrl,omitempty"`
	CreatedAt  string     `json:"createdAt"`
}

type AdminStats struct {
	TotalAccounts    int64                `json:"totalAccounts"`
	AccountsPerPlan  map[plans.Tier]int64 `json:"accountsPerPlan"`
	TotalResponses   int64                `json:"totalResponses"`
	TokensLast30Days int64                `json:"tokensLast30Days"`
	CostLast30Days   float64              `json:"costLast30Days"`
	TotalRevenue     float64              `json:"totalRevenue"`
	RecentRevenue    float64              `json:"recentRevenue"`
}

type Handler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, now: time.Now}
}

// ListAllAccounts handles GET /admin/accounts, newest first.
func (h *Handler) ListAllAccounts(c *gin.Context) {
	var rows []accounts.Account
	if err := h.db.WithContext(c.Request.Context()).Order("created_at DESC").Find(&rows).Error; err != nil {
		respond.Error(c, err, "Failed to load accounts")
		return
	}

	out := make([]AdminAccount, 0, len(rows))
	for _, a := range rows {
		out = append(out, AdminAccount{
			ID:                   a.ID,
			Email:                a.Email,
			Name:                 a.Name,
			Plan:                 a.Plan,
			ResponsesUsed:        a.ResponsesUsed,
			ResponsesLimit:       a.ResponsesLimit,
			StripeCustomerID:     a.StripeCustomerID,
			StripeSubscriptionID: a.StripeSubscriptionID,
			CurrentPeriodEnd:     a.StripeCurrentPeriodEnd,
			CreatedAt:            a.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"accounts": out})
}

// ListAllPayments handles GET /admin/payments.
func (h *Handler) ListAllPayments(c *gin.Context) {
	var rows []struct {
		billing.Payment
		Email string
	}
	err := h.db.WithContext(c.Request.Context()).
		Model(&billing.Payment{}).
		Select("payments.*, accounts.email AS email").
		Joins("LEFT JOIN accounts ON accounts.id = payments.account_id").
		Order("payments.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		respond.Error(c, err, "Failed to load payments")
		return
	}

	out := make([]AdminPayment, 0, len(rows))
	for _, p := range rows {
		out = append(out, AdminPayment{
			ID:         p.ID,
			Email:      p.Email,
			Plan:       p.Plan,
			AmountUSD:  p.AmountUSD,
			Status:     p.Status,
			InvoiceID:  p.StripeInvoiceID,
			ReceiptURL: p.ReceiptURL,
			CreatedAt:  p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"payments": out})
}

// GetAdminStats handles GET /admin/stats.
func (h *Handler) GetAdminStats(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())
	since := h.now().AddDate(0, 0, -30)
	stats := AdminStats{AccountsPerPlan: map[plans.Tier]int64{}}

	var perPlan []struct {
		Plan  plans.Tier
		Count int64
	}
	var tokens struct {
		Tokens int64
		Cost   float64
	}

	steps := []func() error{
		func() error {
			return db.Model(&accounts.Account{}).Select("plan, COUNT(*) AS count").Group("plan").Scan(&perPlan).Error
		},
		func() error {
			return db.Model(&responses.GeneratedResponse{}).Count(&stats.TotalResponses).Error
		},
		func() error {
			return db.Model(&usage.Record{}).
				Select("COALESCE(SUM(tokens_used), 0) AS tokens, COALESCE(SUM(cost), 0) AS cost").
				Where("created_at >= ?", since).
				Scan(&tokens).Error
		},
		func() error {
			return db.Model(&billing.Payment{}).Where("status = ?", "paid").
				Select("COALESCE(SUM(amount_usd), 0)").Scan(&stats.TotalRevenue).Error
		},
		func() error {
			return db.Model(&billing.Payment{}).Where("status = ? AND created_at >= ?", "paid", since).
				Select("COALESCE(SUM(amount_usd), 0)").Scan(&stats.RecentRevenue).Error
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			respond.Error(c, err, "Failed to load stats")
			return
		}
	}

	for _, p := range perPlan {
		stats.AccountsPerPlan[p.Plan] = p.Count
		stats.TotalAccounts += p.Count
	}
	stats.TokensLast30Days = tokens.Tokens
	stats.CostLast30Days = tokens.Cost

	c.JSON(http.StatusOK, stats)
}
