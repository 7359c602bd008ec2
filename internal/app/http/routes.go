package routes

import (
	"net/http"

	adminapi "replyforge/internal/api/admin"
	authapi "replyforge/internal/api/auth"
	"replyforge/internal/api/billing"
	businessesapi "replyforge/internal/api/businesses"
	"replyforge/internal/api/contact"
	"replyforge/internal/api/generate"
	"replyforge/internal/api/history"
	"replyforge/internal/api/plans"
	stripewebhooks "replyforge/internal/api/stripewebhook"
	templatesapi "replyforge/internal/api/templates"
	"replyforge/internal/api/users"
	"replyforge/internal/app/billingsync"
	"replyforge/internal/app/generation"
	"replyforge/internal/app/http/middleware"
	domainplans "replyforge/internal/domain/plans"
	"replyforge/internal/infra/identity"
	"replyforge/internal/infra/mail"
	"replyforge/internal/infra/ratelimit"
	stripeinfra "replyforge/internal/infra/stripe"
	"replyforge/internal/shared/validation"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer is wired from.
type Deps struct {
	DB          *gorm.DB
	Generation  *generation.Service
	BillingSync *billingsync.Service
	Stripe      stripeinfra.Gateway
	Registry    *domainplans.Registry

	// Sessions resolves bearer tokens and the session cookie.
	Sessions   identity.Verifier
	CookieName string
	Auth       authapi.Config

	// AdminEmails may read the operator endpoints.
	AdminEmails []string

	Mailer       mail.Sender
	SupportEmail string
	AppURL       string

	// Limiter is optional; nil disables rate limiting.
	Limiter      ratelimit.Limiter
	GenerateRate ratelimit.Config
	ContactRate  ratelimit.Config
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	validation.Setup()

	webhook := stripewebhooks.NewHandler(d.Stripe, d.BillingSync)
	r.POST("/webhooks/stripe", webhook.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := authapi.NewHandler(d.DB, d.Auth)
	r.GET("/auth/login", auth.Login)
	r.GET("/auth/callback", auth.Callback)
	r.POST("/auth/logout", auth.Logout)

	plansHandler := plans.NewHandler(d.Registry)
	contactHandler := contact.NewHandler(d.Mailer, d.SupportEmail)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())
	public.GET("/plans", plansHandler.ListPlans)
	public.POST("/contact",
		middleware.RateLimit(d.Limiter, d.ContactRate, middleware.ByClientIP("contact")),
		contactHandler.Submit,
	)

	// Authenticated
	authed := r.Group("/")
	authed.Use(
		middleware.AuthMiddleware(d.Sessions, d.CookieName),
		middleware.SanitizeAndCleanInputMiddleware(),
	)

	generateHandler := generate.NewHandler(d.Generation)
	limitGenerate := middleware.RateLimit(d.Limiter, d.GenerateRate, middleware.ByAccount("generate"))
	authed.POST("/generate", limitGenerate, generateHandler.Generate)
	authed.POST("/responses/:id/improve", limitGenerate, generateHandler.Improve)

	historyHandler := history.NewHandler(d.DB)
	authed.GET("/responses", historyHandler.List)
	authed.GET("/responses/:id", historyHandler.Get)

	billingHandler := billing.NewHandler(d.DB, d.Stripe, d.Registry, d.AppURL)
	authed.GET("/payments", billingHandler.GetPaymentHistory)

	// Routes below need the caller's account row.
	account := authed.Group("/")
	account.Use(middleware.RequireAccount(d.DB))

	account.GET("/subscription", billingHandler.GetSubscription)
	account.POST("/subscription", billingHandler.PostSubscription)

	usersHandler := users.NewHandler(d.DB, d.Stripe)
	account.GET("/user", usersHandler.GetCurrentUser)
	account.PATCH("/user", usersHandler.UpdateCurrentUser)
	account.DELETE("/user", usersHandler.DeleteCurrentUser)

	businessesHandler := businessesapi.NewHandler(d.DB)
	account.GET("/businesses", businessesHandler.List)
	account.POST("/businesses", businessesHandler.Create)
	account.GET("/businesses/:id", businessesHandler.Get)
	account.PATCH("/businesses/:id", businessesHandler.Update)
	account.DELETE("/businesses/:id", businessesHandler.Delete)

	templatesHandler := templatesapi.NewHandler(d.DB)
	account.GET("/templates", templatesHandler.List)
	account.POST("/templates", templatesHandler.Create)
	account.GET("/templates/:id", templatesHandler.Get)
	account.PATCH("/templates/:id", templatesHandler.Update)
	account.DELETE("/templates/:id", templatesHandler.Delete)

	// Admin routes
	adminHandler := adminapi.NewHandler(d.DB)
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(d.Sessions, d.CookieName), middleware.RequireAdmin(d.AdminEmails))
	admin.GET("/stats", adminHandler.GetAdminStats)
	admin.GET("/accounts", adminHandler.ListAllAccounts)
	admin.GET("/payments", adminHandler.ListAllPayments)
}
