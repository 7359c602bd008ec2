package generate

import (
	"net/http"

	"replyforge/internal/api/respond"
	"replyforge/internal/app/generation"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *generation.Service
}

func NewHandler(svc *generation.Service) *Handler {
	return &Handler{svc: svc}
}

// Generate handles POST /generate.
func (h *Handler) Generate(c *gin.Context) {
	var req generation.Request
	if !respond.BindJSON(c, &req, "Invalid request data") {
		return
	}

	res, err := h.svc.Generate(c.Request.Context(), c.GetString("account_id"), req)
	if err != nil {
		respond.Error(c, err, "Failed to generate response")
		return
	}
	c.JSON(http.StatusOK, res)
}

// Improve handles POST /responses/:id/improve.
func (h *Handler) Improve(c *gin.Context) {
	var req generation.ImproveRequest
	if !respond.BindJSON(c, &req, "Invalid request data") {
		return
	}

	res, err := h.svc.Improve(c.Request.Context(), c.GetString("account_id"), c.Param("id"), req.Instruction)
	if err != nil {
		respond.Error(c, err, "Failed to improve response")
		return
	}
	c.JSON(http.StatusOK, res)
}
