package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vidbrief/internal/domain/models"
	"vidbrief/internal/domain/services"
	"vidbrief/internal/interfaces/http/middleware"
)

type SummaryHandler struct {
	service services.SummaryService
}

func NewSummaryHandler(service services.SummaryService) *SummaryHandler {
	return &SummaryHandler{service: service}
}

type summarizeRequest struct {
	URL         string `json:"url" binding:"required"`
	SummaryType string `json:"summary_type"`
}

func (h *SummaryHandler) Summarize(c *gin.Context) {
	var body summarizeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	userID, plan, ok := requester(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	result, err := h.service.Summarize(c.Request.Context(), &services.SummarizeRequest{
		UserID:      userID,
		Plan:        plan,
		URL:         body.URL,
		SummaryType: models.SummaryType(body.SummaryType),
	})
	if err != nil {
		writePipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SummaryHandler) Usage(c *gin.Context) {
	userID, plan, ok := requester(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	remaining, err := h.service.Usage(c.Request.Context(), userID, plan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load usage"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": plan, "remaining": remaining})
}

func requester(c *gin.Context) (int64, models.UserPlan, bool) {
	id, idOK := c.Get(middleware.ContextUserID)
	plan, planOK := c.Get(middleware.ContextUserPlan)
	if !idOK || !planOK {
		return 0, "", false
	}
	userID, idOK := id.(int64)
	userPlan, planOK := plan.(models.UserPlan)
	return userID, userPlan, idOK && planOK
}

// writePipelineError maps classified pipeline failures to HTTP statuses.
func writePipelineError(c *gin.Context, err error) {
	var pe *models.PipelineError
	if !errors.As(err, &pe) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	switch pe.Kind {
	case models.KindInvalidURL:
		c.JSON(http.StatusBadRequest, gin.H{"error": pe.Message})
	case models.KindQuotaExceeded:
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":     pe.Message,
			"reason":    pe.Reason,
			"remaining": pe.Remaining,
		})
	case models.KindTranscriptUnavailable:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": pe.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
