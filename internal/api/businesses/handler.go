// Package businesses serves CRUD for the caller's business profiles.
package businesses

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"replyforge/internal/api/respond"
	"replyforge/internal/app/http/middleware"
	"replyforge/internal/domain/businesses"
	"replyforge/internal/domain/plans"
	"replyforge/internal/domain/responses"
	apperrors "replyforge/internal/shared/errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// List handles GET /businesses, newest first, each with its response count.
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()
	accountID := c.GetString("account_id")

	var rows []businesses.Business
	if err := h.db.WithContext(ctx).Where("account_id = ?", accountID).Order("created_at DESC").Find(&rows).Error; err != nil {
		respond.Error(c, err, "Failed to get businesses")
		return
	}

	counts, err := h.responseCounts(c, accountID)
	if err != nil {
		respond.Error(c, err, "Failed to get businesses")
		return
	}

	out := make([]businessView, 0, len(rows))
	for _, b := range rows {
		out = append(out, businessView{Business: b, ResponseCount: counts[b.ID]})
	}
	c.JSON(http.StatusOK, gin.H{"businesses": out})
}

func (h *Handler) responseCounts(c *gin.Context, accountID string) (map[string]int64, error) {
	var rows []struct {
		BusinessID string
		N          int64
	}
	err := h.db.WithContext(c.Request.Context()).
		Model(&responses.GeneratedResponse{}).
		Select("business_id, COUNT(*) AS n").
		Where("account_id = ? AND business_id IS NOT NULL", accountID).
		Group("business_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.BusinessID] = r.N
	}
	return counts, nil
}

// Create handles POST /businesses within the plan's business limit.
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if !respond.BindJSON(c, &req, "Invalid data") {
		return
	}

	a := middleware.CurrentAccount(c)
	b := req.model(a.ID)
	limit := a.Plan.Limits().Businesses

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&businesses.Business{}).Where("account_id = ?", a.ID).Count(&n).Error; err != nil {
			return err
		}
		if !plans.Within(limit, int(n)) {
			return apperrors.NewForbiddenError(limitMessage(a.Plan, limit))
		}
		return tx.Create(b).Error
	})
	if err != nil {
		respond.Error(c, err, "Failed to create business")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"business": b})
}

func limitMessage(tier plans.Tier, limit int) string {
	suffix := ""
	if limit > 1 {
		suffix = "es"
	}
	return fmt.Sprintf("Business limit reached. Your %s plan allows %d business%s.", tier, limit, suffix)
}

// Get handles GET /businesses/:id.
func (h *Handler) Get(c *gin.Context) {
	b, err := h.owned(c)
	if err != nil {
		respond.Error(c, err, "Failed to get business")
		return
	}

	var n int64
	if err := h.db.WithContext(c.Request.Context()).Model(&responses.GeneratedResponse{}).
		Where("business_id = ?", b.ID).Count(&n).Error; err != nil {
		respond.Error(c, err, "Failed to get business")
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": businessView{Business: *b, ResponseCount: n}})
}

// Update handles PATCH /businesses/:id.
func (h *Handler) Update(c *gin.Context) {
	b, err := h.owned(c)
	if err != nil {
		respond.Error(c, err, "Failed to update business")
		return
	}

	var req updateRequest
	if !respond.BindJSON(c, &req, "Invalid data") {
		return
	}

	ctx := c.Request.Context()
	if cols := req.columns(); len(cols) > 0 {
		cols["updated_at"] = time.Now()
		if err := h.db.WithContext(ctx).Model(&businesses.Business{}).Where("id = ?", b.ID).Updates(cols).Error; err != nil {
			respond.Error(c, err, "Failed to update business")
			return
		}
	}

	var updated businesses.Business
	if err := h.db.WithContext(ctx).Where("id = ?", b.ID).First(&updated).Error; err != nil {
		respond.Error(c, err, "Failed to update business")
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": updated})
}

// Delete handles DELETE /businesses/:id and removes the business's responses with it.
func (h *Handler) Delete(c *gin.Context) {
	b, err := h.owned(c)
	if err != nil {
		respond.Error(c, err, "Failed to delete business")
		return
	}

	var deleted int64
	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("business_id = ?", b.ID).Delete(&responses.GeneratedResponse{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return tx.Where("id = ?", b.ID).Delete(&businesses.Business{}).Error
	})
	if err != nil {
		respond.Error(c, err, "Failed to delete business")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deletedResponses": deleted})
}

func (h *Handler) owned(c *gin.Context) (*businesses.Business, error) {
	var b businesses.Business
	err := h.db.WithContext(c.Request.Context()).Where("id = ?", c.Param("id")).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("Business not found")
	}
	if err != nil {
		return nil, err
	}
	if !b.OwnedBy(c.GetString("account_id")) {
		return nil, apperrors.NewForbiddenError("Access denied")
	}
	return &b, nil
}
