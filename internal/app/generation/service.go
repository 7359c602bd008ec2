// Package generation runs the quota-gated reply workflow.
package generation

import (
	"context"
	"errors"
	"strings"
	"time"

	"replyforge/internal/domain/accounts"
	"replyforge/internal/domain/businesses"
	"replyforge/internal/domain/responses"
	"replyforge/internal/domain/templates"
	"replyforge/internal/domain/tone"
	"replyforge/internal/domain/usage"
	"replyforge/internal/infra/events"
	"replyforge/internal/infra/llm"
	apperrors "replyforge/internal/shared/errors"
	"replyforge/internal/shared/logger"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	msgQuotaReached   = "Monthly response limit reached. Please upgrade your plan."
	msgGenerateFailed = "Failed to generate response"
)

type Request struct {
	ReviewText         string    `json:"reviewText" binding:"required,min=10,max=5000"`
	ReviewerName       string    `json:"reviewerName" binding:"omitempty,max=100"`
	ReviewRating       *int      `json:"reviewRating" binding:"omitempty,min=1,max=5"`
	Platform           string    `json:"platform" binding:"omitempty,max=50"`
	BusinessName       string    `json:"businessName" binding:"required,max=200"`
	BusinessType       string    `json:"businessType" binding:"omitempty,max=100"`
	Tone               tone.Tone `json:"tone" binding:"omitempty,oneof=professional friendly empathetic apologetic enthusiastic"`
	CustomInstructions string    `json:"customInstructions" binding:"omitempty,max=1000"`
	Language           string    `json:"language" binding:"omitempty,max=40"`
	BusinessID         string    `json:"businessId" binding:"omitempty,uuid"`
	TemplateID         string    `json:"templateId" binding:"omitempty,uuid"`
}

type ImproveRequest struct {
	Instruction string `json:"instruction" binding:"required,min=3,max=500"`
}

type Result struct {
	Response       string `json:"response"`
	ResponseID     string `json:"responseId"`
	TokensUsed     int    `json:"tokensUsed"`
	GenerationTime int64  `json:"generationTime"`
}

type Service struct {
	db        *gorm.DB
	provider  llm.Provider
	publisher events.Publisher
	log       zerolog.Logger
}

func NewService(db *gorm.DB, provider llm.Provider, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		db:        db,
		provider:  provider,
		publisher: publisher,
		log:       logger.Component("generation"),
	}
}

// Generate produces one reply. Quota is consumed only when the reply is persisted.
func (s *Service) Generate(ctx context.Context, accountID string, req Request) (*Result, error) {
	if _, err := s.checkQuota(ctx, accountID); err != nil {
		return nil, err
	}

	in := promptInput{
		ReviewText:   req.ReviewText,
		ReviewerName: strings.TrimSpace(req.ReviewerName),
		Rating:       req.ReviewRating,
		BusinessName: req.BusinessName,
		BusinessType: req.BusinessType,
		Tone:         req.Tone.OrDefault(),
		Instructions: []string{req.CustomInstructions},
		Language:     req.Language,
	}

	var businessID, templateID *string
	if req.BusinessID != "" {
		b, err := s.ownedBusiness(ctx, accountID, req.BusinessID)
		if err != nil {
			return nil, err
		}
		businessID = &b.ID
		in.BusinessName = b.Name
		if b.Type != nil {
			in.BusinessType = *b.Type
		}
		if req.Tone == "" && b.BrandVoice != nil {
			in.Tone = tone.Tone(*b.BrandVoice).OrDefault()
		}
		in.ToneKeywords = b.ToneKeywords
		in.AvoidKeywords = b.AvoidKeywords
	}
	if req.TemplateID != "" {
		t, err := s.readableTemplate(ctx, accountID, req.TemplateID)
		if err != nil {
			return nil, err
		}
		templateID = &t.ID
		in.Instructions = append(in.Instructions, t.PromptTemplate)
		if req.Tone == "" && t.Tone != nil {
			in.Tone = tone.Tone(*t.Tone).OrDefault()
		}
	}

	system, user := buildReplyPrompts(in)
	out, elapsed, err := s.complete(ctx, accountID, system, user)
	if err != nil {
		return nil, err
	}

	row := &responses.GeneratedResponse{
		AccountID:        accountID,
		BusinessID:       businessID,
		TemplateID:       templateID,
		ReviewText:       req.ReviewText,
		ReviewerName:     optional(req.ReviewerName),
		ReviewRating:     req.ReviewRating,
		ReviewPlatform:   optional(req.Platform),
		ResponseText:     out.Text,
		ResponseTone:     string(in.Tone),
		TokensUsed:       out.TokensUsed,
		ModelUsed:        out.Model,
		GenerationTimeMs: elapsed,
	}
	meta := datatypes.JSONMap{"tone": string(in.Tone)}
	if req.Platform != "" {
		meta["platform"] = req.Platform
	}

	if err := s.persist(ctx, row, usage.ActionGenerate, meta, templateID); err != nil {
		return nil, err
	}

	s.publish(ctx, row)
	return &Result{
		Response:       row.ResponseText,
		ResponseID:     row.ID,
		TokensUsed:     row.TokensUsed,
		GenerationTime: elapsed,
	}, nil
}

// Improve rewrites an existing reply into a new row. The source row is left untouched.
func (s *Service) Improve(ctx context.Context, accountID, responseID, instruction string) (*Result, error) {
	if _, err := s.checkQuota(ctx, accountID); err != nil {
		return nil, err
	}

	var src responses.GeneratedResponse
	if err := s.db.WithContext(ctx).Where("id = ?", responseID).First(&src).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Response not found")
		}
		return nil, apperrors.NewInternalError("Failed to load response", err)
	}
	if src.AccountID != accountID {
		return nil, apperrors.NewForbiddenError("Forbidden")
	}

	system, user := buildImprovePrompts(src.ResponseText, instruction)
	out, elapsed, err := s.complete(ctx, accountID, system, user)
	if err != nil {
		return nil, err
	}

	row := &responses.GeneratedResponse{
		AccountID:        accountID,
		BusinessID:       src.BusinessID,
		TemplateID:       src.TemplateID,
		ReviewText:       src.ReviewText,
		ReviewerName:     src.ReviewerName,
		ReviewRating:     src.ReviewRating,
		ReviewPlatform:   src.ReviewPlatform,
		ResponseText:     out.Text,
		ResponseTone:     src.ResponseTone,
		TokensUsed:       out.TokensUsed,
		ModelUsed:        out.Model,
		GenerationTimeMs: elapsed,
	}
	meta := datatypes.JSONMap{"sourceResponseId": src.ID, "instruction": instruction}

	if err := s.persist(ctx, row, usage.ActionImprove, meta, nil); err != nil {
		return nil, err
	}

	s.publish(ctx, row)
	return &Result{
		Response:       row.ResponseText,
		ResponseID:     row.ID,
		TokensUsed:     row.TokensUsed,
		GenerationTime: elapsed,
	}, nil
}

func (s *Service) checkQuota(ctx context.Context, accountID string) (*accounts.Account, error) {
	a, err := accounts.Find(ctx, s.db, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("User not found")
		}
		return nil, apperrors.NewInternalError("Failed to load account", err)
	}
	if !a.CanGenerate() {
		s.log.Info().Str("account_id", accountID).Int("used", a.ResponsesUsed).Int("limit", a.ResponsesLimit).
			Msg("generation rejected, quota reached")
		return nil, apperrors.NewQuotaExceededError(msgQuotaReached)
	}
	return a, nil
}

func (s *Service) complete(ctx context.Context, accountID, system, user string) (*llm.Completion, int64, error) {
	start := time.Now()
	out, err := s.provider.Complete(ctx, system, user)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		s.log.Error().Err(err).Str("account_id", accountID).Str("provider", s.provider.Name()).
			Int64("elapsed_ms", elapsed).Msg("generation failed")
		return nil, elapsed, apperrors.NewDownstreamError(msgGenerateFailed, err)
	}
	return out, elapsed, nil
}

// persist consumes one unit of quota and writes the reply and its ledger entry atomically.
// Losing a concurrent race for the last unit rolls everything back.
func (s *Service) persist(ctx context.Context, row *responses.GeneratedResponse, action usage.Action, meta datatypes.JSONMap, templateID *string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := accounts.ConsumeResponse(ctx, tx, row.AccountID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewQuotaExceededError(msgQuotaReached)
		}

		if err := tx.Create(row).Error; err != nil {
			return err
		}

		meta["responseId"] = row.ID
		rec := &usage.Record{
			AccountID:  row.AccountID,
			Action:     action,
			TokensUsed: row.TokensUsed,
			Cost:       usage.EstimateCost(row.TokensUsed),
			Metadata:   meta,
		}
		if err := tx.Create(rec).Error; err != nil {
			return err
		}

		if templateID != nil {
			return tx.Model(&templates.Template{}).
				Where("id = ?", *templateID).
				UpdateColumn("use_count", gorm.Expr("use_count + ?", 1)).Error
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if appErr := apperrors.GetAppError(err); appErr != nil {
		s.log.Info().Str("account_id", row.AccountID).Int("tokens", row.TokensUsed).
			Msg("generation discarded, quota taken by a concurrent request")
		return appErr
	}
	s.log.Error().Err(err).Str("account_id", row.AccountID).Msg("failed to save generated response")
	return apperrors.NewInternalError("Failed to save response", err)
}

func (s *Service) ownedBusiness(ctx context.Context, accountID, id string) (*businesses.Business, error) {
	var b businesses.Business
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Business not found")
		}
		return nil, apperrors.NewInternalError("Failed to load business", err)
	}
	if !b.OwnedBy(accountID) {
		return nil, apperrors.NewForbiddenError("Forbidden")
	}
	return &b, nil
}

func (s *Service) readableTemplate(ctx context.Context, accountID, id string) (*templates.Template, error) {
	var t templates.Template
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Template not found")
		}
		return nil, apperrors.NewInternalError("Failed to load template", err)
	}
	if !t.ReadableBy(accountID) {
		return nil, apperrors.NewForbiddenError("Forbidden")
	}
	return &t, nil
}

func (s *Service) publish(ctx context.Context, row *responses.GeneratedResponse) {
	e := events.New(events.ResponseGenerated, row.AccountID, map[string]any{
		"responseId": row.ID,
		"tone":       row.ResponseTone,
		"tokensUsed": row.TokensUsed,
		"model":      row.ModelUsed,
	})
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn().Err(err).Str("account_id", row.AccountID).Msg("failed to publish event")
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
