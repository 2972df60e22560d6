package handler

import (
	"net/http"
	"strings"
	"time"

	"linkboard/internal/guard"
	"linkboard/internal/model"
	"linkboard/internal/repository"

	"github.com/gin-gonic/gin"
)

type InsightsHandler struct {
	eventRepo  *repository.EventRepository
	boardRepo  *repository.BoardRepository
	clickGuard *guard.ClickGuard
}

func NewInsightsHandler(eventRepo *repository.EventRepository, boardRepo *repository.BoardRepository, clickGuard *guard.ClickGuard) *InsightsHandler {
	return &InsightsHandler{
		eventRepo:  eventRepo,
		boardRepo:  boardRepo,
		clickGuard: clickGuard,
	}
}

type RecordClickRequest struct {
	BoardID string `json:"boardId" binding:"required"`
}

type RecordViewRequest struct {
	BoardID string `json:"boardId" binding:"required"`
	Source  string `json:"source"`
}

type InsightsResponse struct {
	BoardID     string                      `json:"boardId"`
	TotalClicks int64                       `json:"totalClicks"`
	Cards       []repository.CardClickCount `json:"cards"`
}

type InsightsSummaryResponse struct {
	BoardID          string                      `json:"boardId"`
	TotalVisits      int64                       `json:"totalVisits"`
	VisitsLast30Days int64                       `json:"visitsLast30Days"`
	VisitsToday      int64                       `json:"visitsToday"`
	TotalClicks      int64                       `json:"totalClicks"`
	TopClickedLinks  []repository.CardClickCount `json:"topClickedLinks"`
}

// RecordClick godoc
// @Summary Record a click on a board's card
// @Tags Insights
// @Accept json
// @Param card_id path string true "Card id"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /api/click/{card_id} [post]
func (h *InsightsHandler) RecordClick(c *gin.Context) {
	cardID := c.Param("card_id")

	var req RecordClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	exists, err := h.boardRepo.ExistsByID(c.Request.Context(), req.BoardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check board"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	onBoard, err := h.boardRepo.CardExists(c.Request.Context(), req.BoardID, cardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check card"})
		return
	}
	if !onBoard {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card does not belong to board: " + cardID})
		return
	}

	sourceIP := c.ClientIP()
	if sourceIP == "" {
		sourceIP = "unknown"
	}

	if !h.clickGuard.ShouldAccept(sourceIP, req.BoardID, cardID) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many click events. Try again shortly."})
		return
	}

	event := &model.ClickEvent{
		BoardID:    req.BoardID,
		CardID:     cardID,
		OccurredAt: time.Now().UTC(),
		SourceIP:   sourceIP,
	}
	if err := h.eventRepo.CreateClick(c.Request.Context(), event); err != nil {
		// Nothing was recorded, so a retry must not be throttled.
		h.clickGuard.Forget(sourceIP, req.BoardID, cardID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record click"})
		return
	}

	c.Status(http.StatusNoContent)
}

// RecordView godoc
// @Summary Record a board view
// @Tags Insights
// @Accept json
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/insights/view [post]
func (h *InsightsHandler) RecordView(c *gin.Context) {
	var req RecordViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	exists, err := h.boardRepo.ExistsByID(c.Request.Context(), req.BoardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check board"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	sourceIP := c.ClientIP()
	if sourceIP == "" {
		sourceIP = "unknown"
	}

	event := &model.ViewEvent{
		BoardID:    req.BoardID,
		OccurredAt: time.Now().UTC(),
		SourceIP:   sourceIP,
		Source:     NormalizeSource(req.Source),
		DeviceType: ResolveDeviceType(c.GetHeader("User-Agent")),
	}
	if err := h.eventRepo.CreateView(c.Request.Context(), event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record view"})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetInsights godoc
// @Summary Per-card click counts for a board
// @Tags Insights
// @Produce json
// @Param board_id path string true "Board id"
// @Success 200 {object} InsightsResponse
// @Failure 404 {object} map[string]string
// @Router /api/insights/{board_id} [get]
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	boardID := c.Param("board_id")

	exists, err := h.boardRepo.ExistsByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check board"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	total, err := h.eventRepo.CountClicksByBoard(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve insights"})
		return
	}

	byCard, err := h.eventRepo.CountClicksByCard(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve insights"})
		return
	}

	c.JSON(http.StatusOK, InsightsResponse{
		BoardID:     boardID,
		TotalClicks: total,
		Cards:       byCard,
	})
}

// GetSummary godoc
// @Summary Visit and click summary for a board
// @Tags Insights
// @Produce json
// @Param board_id path string true "Board id"
// @Success 200 {object} InsightsSummaryResponse
// @Failure 404 {object} map[string]string
// @Router /api/insights/{board_id}/summary [get]
func (h *InsightsHandler) GetSummary(c *gin.Context) {
	boardID := c.Param("board_id")
	ctx := c.Request.Context()

	exists, err := h.boardRepo.ExistsByID(ctx, boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check board"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	now := time.Now().UTC()
	thirtyDaysAgo := now.Add(-30 * 24 * time.Hour)
	startOfTodayUTC := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	totalVisits, err := h.eventRepo.CountViewsByBoard(ctx, boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve summary"})
		return
	}
	visitsLast30Days, err := h.eventRepo.CountViewsSince(ctx, boardID, thirtyDaysAgo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve summary"})
		return
	}
	visitsToday, err := h.eventRepo.CountViewsSince(ctx, boardID, startOfTodayUTC)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve summary"})
		return
	}
	totalClicks, err := h.eventRepo.CountClicksByBoard(ctx, boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve summary"})
		return
	}
	byCard, err := h.eventRepo.CountClicksByCard(ctx, boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve summary"})
		return
	}
	if len(byCard) > 5 {
		byCard = byCard[:5]
	}

	c.JSON(http.StatusOK, InsightsSummaryResponse{
		BoardID:          boardID,
		TotalVisits:      totalVisits,
		VisitsLast30Days: visitsLast30Days,
		VisitsToday:      visitsToday,
		TotalClicks:      totalClicks,
		TopClickedLinks:  byCard,
	})
}

// NormalizeSource trims and lower-cases a referrer tag; blank means direct traffic.
func NormalizeSource(source string) string {
	normalized := strings.ToLower(strings.TrimSpace(source))
	if normalized == "" {
		return "direct"
	}
	return normalized
}

// ResolveDeviceType classifies a user-agent string. Tablet markers win over
// mobile ones since tablet agents frequently carry both.
func ResolveDeviceType(userAgent string) string {
	normalized := strings.ToLower(strings.TrimSpace(userAgent))
	if normalized == "" {
		return "unknown"
	}
	if strings.Contains(normalized, "ipad") || strings.Contains(normalized, "tablet") {
		return "tablet"
	}
	if strings.Contains(normalized, "mobi") || strings.Contains(normalized, "iphone") || strings.Contains(normalized, "android") {
		return "mobile"
	}
	return "desktop"
}
