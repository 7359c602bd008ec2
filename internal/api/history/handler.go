// Package history serves the caller's generated responses.
package history

import (
	"errors"
	"math"
	"net/http"
	"time"

	"replyforge/internal/api/respond"
	"replyforge/internal/domain/responses"
	apperrors "replyforge/internal/shared/errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const pageSize = 50

type Handler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, now: time.Now}
}

type Stats struct {
	Total     int64   `json:"total"`
	ThisWeek  int64   `json:"thisWeek"`
	AvgRating float64 `json:"avgRating"`
}

// List handles GET /responses: the latest responses plus totals. ?businessId narrows both.
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()
	accountID := c.GetString("account_id")

	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("account_id = ?", accountID)
		if id := c.Query("businessId"); id != "" {
			db = db.Where("business_id = ?", id)
		}
		return db
	}

	var rows []responses.GeneratedResponse
	if err := h.db.WithContext(ctx).Scopes(scope).
		Order("created_at DESC").
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		respond.Error(c, err, "Failed to load responses")
		return
	}

	stats, err := h.stats(c, scope)
	if err != nil {
		respond.Error(c, err, "Failed to load responses")
		return
	}

	c.JSON(http.StatusOK, gin.H{"responses": rows, "stats": stats})
}

func (h *Handler) stats(c *gin.Context, scope func(*gorm.DB) *gorm.DB) (Stats, error) {
	var s Stats
	db := h.db.WithContext(c.Request.Context()).Model(&responses.GeneratedResponse{})

	if err := db.Session(&gorm.Session{}).Scopes(scope).Count(&s.Total).Error; err != nil {
		return s, err
	}
	weekAgo := h.now().AddDate(0, 0, -7)
	if err := db.Session(&gorm.Session{}).Scopes(scope).
		Where("created_at >= ?", weekAgo).
		Count(&s.ThisWeek).Error; err != nil {
		return s, err
	}

	var avg struct{ Avg *float64 }
	if err := db.Session(&gorm.Session{}).Scopes(scope).
		Select("AVG(review_rating) AS avg").
		Where("review_rating IS NOT NULL").
		Scan(&avg).Error; err != nil {
		return s, err
	}
	if avg.Avg != nil {
		s.AvgRating = math.Round(*avg.Avg*10) / 10
	}
	return s, nil
}

// Get handles GET /responses/:id.
func (h *Handler) Get(c *gin.Context) {
	var row responses.GeneratedResponse
	err := h.db.WithContext(c.Request.Context()).Where("id = ?", c.Param("id")).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respond.Error(c, apperrors.NewNotFoundError("Response not found"), "")
		return
	}
	if err != nil {
		respond.Error(c, err, "Failed to load response")
		return
	}
	if row.AccountID != c.GetString("account_id") {
		respond.Error(c, apperrors.NewForbiddenError("Access denied"), "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": row})
}
