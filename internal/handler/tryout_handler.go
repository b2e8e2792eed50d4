package handler

import (
	"net/http"
	"strconv"

	"github.com/Ramandaygy/tutor-app/internal/response"
	"github.com/Ramandaygy/tutor-app/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TryoutHandler handles the student-facing tryout catalog.
type TryoutHandler struct {
	tryoutService *service.TryoutService
}

// NewTryoutHandler creates a new TryoutHandler.
func NewTryoutHandler(tryoutService *service.TryoutService) *TryoutHandler {
	return &TryoutHandler{tryoutService: tryoutService}
}

// ListTryouts godoc
// GET /api/v1/portal/tryouts
// Returns published tryouts, paginated, optionally filtered by category.
func (h *TryoutHandler) ListTryouts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	category := c.Query("category")

	tryouts, pagination, err := h.tryoutService.ListPublished(c.Request.Context(), page, perPage, category)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"tryouts": tryouts}, pagination)
}

// GetTryout godoc
// GET /api/v1/portal/tryouts/:tryout_id
// Returns a single published tryout for its detail page.
func (h *TryoutHandler) GetTryout(c *gin.Context) {
	tryoutID, err := uuid.Parse(c.Param("tryout_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	tryout, err := h.tryoutService.GetByID(c.Request.Context(), tryoutID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tryout": tryout})
}
