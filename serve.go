package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"replyforge/config"
	"replyforge/database"
	authapi "replyforge/internal/api/auth"
	"replyforge/internal/app/billingsync"
	"replyforge/internal/app/generation"
	routes "replyforge/internal/app/http"
	"replyforge/internal/app/http/middleware"
	"replyforge/internal/domain/plans"
	"replyforge/internal/infra/events"
	"replyforge/internal/infra/identity"
	"replyforge/internal/infra/llm"
	"replyforge/internal/infra/mail"
	"replyforge/internal/infra/ratelimit"
	stripeinfra "replyforge/internal/infra/stripe"
	"replyforge/internal/shared/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	config.LoadEnv()
	logger.Init(config.LOG_LEVEL, !config.IsProduction())
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(config.DB_URL)
	if err != nil {
		return err
	}

	registry := plans.NewRegistry(map[plans.Tier]string{
		plans.TierStarter: config.STRIPE_STARTER_PRICE_ID,
		plans.TierPro:     config.STRIPE_PRO_PRICE_ID,
		plans.TierAgency:  config.STRIPE_AGENCY_PRICE_ID,
	})
	stripeClient := stripeinfra.NewClient(config.STRIPE_SECRET_KEY, config.STRIPE_WEBHOOK_SECRET)

	publisher := newPublisher()
	if closer, ok := publisher.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	provider := llm.NewOpenAIProvider(llm.OpenAIConfig{
		APIKey:  config.OPENAI_API_KEY,
		Model:   config.OPENAI_MODEL,
		Timeout: config.OPENAI_TIMEOUT,
	})

	sessions := identity.NewSessionTokens(config.AUTH_JWT_SECRET, identity.DefaultSession)
	providerTokens := identity.NewOIDCVerifier(ctx, config.AUTH_ISSUER, config.AUTH_JWKS_URL, config.AUTH_AUDIENCE)

	deps := routes.Deps{
		DB:          db,
		Generation:  generation.NewService(db, provider, publisher),
		BillingSync: billingsync.NewService(db, stripeClient, registry, publisher),
		Stripe:      stripeClient,
		Registry:    registry,
		Sessions:    identity.Chain{sessions, providerTokens},
		CookieName:  config.SESSION_COOKIE,
		Auth: authapi.Config{
			OAuth: &oauth2.Config{
				ClientID:     config.AUTH_CLIENT_ID,
				ClientSecret: config.AUTH_CLIENT_SECRET,
				RedirectURL:  config.AUTH_REDIRECT_URL,
				Scopes:       []string{"openid", "email", "profile"},
				Endpoint: oauth2.Endpoint{
					AuthURL:  config.AUTH_AUTHORIZE_URL,
					TokenURL: config.AUTH_TOKEN_URL,
				},
			},
			IDTokens:     providerTokens,
			Sessions:     sessions,
			CookieName:   config.SESSION_COOKIE,
			SecureCookie: config.IsProduction(),
			AppURL:       config.APP_URL,
		},
		AdminEmails:  config.ADMIN_EMAILS,
		Mailer:       newMailer(),
		SupportEmail: config.SUPPORT_EMAIL,
		AppURL:       config.APP_URL,
		Limiter:      newLimiter(ctx),
		GenerateRate: ratelimit.Config{RequestsPerMinute: config.GENERATE_RATE_PER_MINUTE},
		ContactRate:  ratelimit.Config{RequestsPerHour: config.CONTACT_RATE_PER_HOUR},
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + config.PORT,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", config.APP_ENV).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newPublisher() events.Publisher {
	if config.AMQP_URL == "" {
		return events.Nop{}
	}
	p, err := events.NewAMQPPublisher(config.AMQP_URL, config.AMQP_EXCHANGE)
	if err != nil {
		log.Warn().Err(err).Msg("amqp unavailable, domain events disabled")
		return events.Nop{}
	}
	return p
}

func newLimiter(ctx context.Context) ratelimit.Limiter {
	if config.REDIS_URL == "" {
		return nil
	}
	client, err := ratelimit.NewClientFromURL(ctx, config.REDIS_URL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, rate limiting disabled")
		return nil
	}
	return ratelimit.NewRedisLimiter(client)
}

func newMailer() mail.Sender {
	if config.SMTP_HOST == "" {
		return mail.Nop{}
	}
	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:     config.SMTP_HOST,
		Port:     config.SMTP_PORT,
		Username: config.SMTP_USERNAME,
		Password: config.SMTP_PASSWORD,
		From:     config.SMTP_FROM,
	})
}
