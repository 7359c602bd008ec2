// Package templates serves CRUD for reply templates.
package templates

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"replyforge/internal/api/respond"
	"replyforge/internal/app/http/middleware"
	"replyforge/internal/domain/plans"
	"replyforge/internal/domain/templates"
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

// List handles GET /templates. ?includePublic=true adds public templates, ?category filters.
func (h *Handler) List(c *gin.Context) {
	accountID := c.GetString("account_id")

	q := h.db.WithContext(c.Request.Context()).Model(&templates.Template{})
	if c.Query("includePublic") == "true" {
		q = q.Where("account_id = ? OR is_public = ?", accountID, true)
	} else {
		q = q.Where("account_id = ?", accountID)
	}
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var rows []templates.Template
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		respond.Error(c, err, "Failed to get templates")
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": rows})
}

// Create handles POST /templates within the plan's template limit.
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if !respond.BindJSON(c, &req, "Invalid data") {
		return
	}

	a := middleware.CurrentAccount(c)
	t := req.model(a.ID)
	limit := a.Plan.Limits().Templates

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&templates.Template{}).Where("account_id = ?", a.ID).Count(&n).Error; err != nil {
			return err
		}
		if !plans.Within(limit, int(n)) {
			return apperrors.NewForbiddenError(fmt.Sprintf("Template limit reached. Your %s plan allows %d templates.", a.Plan, limit))
		}
		return tx.Create(t).Error
	})
	if err != nil {
		respond.Error(c, err, "Failed to create template")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"template": t})
}

// Get handles GET /templates/:id for the owner or anyone when the template is public.
func (h *Handler) Get(c *gin.Context) {
	t, err := h.find(c)
	if err != nil {
		respond.Error(c, err, "Failed to get template")
		return
	}
	if !t.ReadableBy(c.GetString("account_id")) {
		respond.Error(c, apperrors.NewForbiddenError("Access denied"), "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": t})
}

// Update handles PATCH /templates/:id.
func (h *Handler) Update(c *gin.Context) {
	t, err := h.owned(c)
	if err != nil {
		respond.Error(c, err, "Failed to update template")
		return
	}

	var req updateRequest
	if !respond.BindJSON(c, &req, "Invalid data") {
		return
	}

	ctx := c.Request.Context()
	if cols := req.columns(); len(cols) > 0 {
		cols["updated_at"] = time.Now()
		if err := h.db.WithContext(ctx).Model(&templates.Template{}).Where("id = ?", t.ID).Updates(cols).Error; err != nil {
			respond.Error(c, err, "Failed to update template")
			return
		}
	}

	var updated templates.Template
	if err := h.db.WithContext(ctx).Where("id = ?", t.ID).First(&updated).Error; err != nil {
		respond.Error(c, err, "Failed to update template")
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": updated})
}

// Delete handles DELETE /templates/:id. Responses keep their template id.
func (h *Handler) Delete(c *gin.Context) {
	t, err := h.owned(c)
	if err != nil {
		respond.Error(c, err, "Failed to delete template")
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Where("id = ?", t.ID).Delete(&templates.Template{}).Error; err != nil {
		respond.Error(c, err, "Failed to delete template")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) find(c *gin.Context) (*templates.Template, error) {
	var t templates.Template
	err := h.db.WithContext(c.Request.Context()).Where("id = ?", c.Param("id")).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("Template not found")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *Handler) owned(c *gin.Context) (*templates.Template, error) {
	t, err := h.find(c)
	if err != nil {
		return nil, err
	}
	if !t.OwnedBy(c.GetString("account_id")) {
		return nil, apperrors.NewForbiddenError("Access denied")
	}
	return t, nil
}
