package plans

import (
	"net/http"

	"replyforge/internal/domain/plans"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	registry *plans.Registry
}

func NewHandler(registry *plans.Registry) *Handler {
	return &Handler{registry: registry}
}

// ListPlans handles GET /plans.
func (h *Handler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.registry.Catalog()})
}
