package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"linkboard/internal/model"
	"linkboard/internal/repository"

	"github.com/gin-gonic/gin"
)

type WidgetHandler struct {
	widgetRepo *repository.WidgetRepository
	boardRepo  *repository.BoardRepository
}

func NewWidgetHandler(widgetRepo *repository.WidgetRepository, boardRepo *repository.BoardRepository) *WidgetHandler {
	return &WidgetHandler{
		widgetRepo: widgetRepo,
		boardRepo:  boardRepo,
	}
}

type UpsertWidgetRequest struct {
	Type    string          `json:"type" binding:"required"`
	Title   *string         `json:"title" binding:"required"`
	Layout  string          `json:"layout" binding:"required"`
	Config  json.RawMessage `json:"config" binding:"required"`
	Enabled *bool           `json:"enabled" binding:"required"`
	Order   *int            `json:"order" binding:"required,gte=0"`
}

type SyncWidgetRequest struct {
	ID      *int64          `json:"id"`
	Type    string          `json:"type" binding:"required"`
	Title   *string         `json:"title" binding:"required"`
	Layout  string          `json:"layout" binding:"required"`
	Config  json.RawMessage `json:"config" binding:"required"`
	Enabled *bool           `json:"enabled" binding:"required"`
	Order   *int            `json:"order" binding:"required,gte=0"`
}

type SyncWidgetsRequest struct {
	Widgets []SyncWidgetRequest `json:"widgets" binding:"required"`
}

type WidgetResponse struct {
	ID      int64           `json:"id"`
	Type    string          `json:"type"`
	Title   string          `json:"title"`
	Layout  string          `json:"layout"`
	Config  json.RawMessage `json:"config"`
	Enabled bool            `json:"enabled"`
	Order   int             `json:"order"`
}

func toWidgetResponse(widget *model.Widget) WidgetResponse {
	config := json.RawMessage(widget.ConfigJSON)
	if !json.Valid(config) {
		config = json.RawMessage("{}")
	}
	return WidgetResponse{
		ID:      widget.ID,
		Type:    widget.Type,
		Title:   widget.Title,
		Layout:  widget.Layout,
		Config:  config,
		Enabled: widget.Enabled,
		Order:   widget.SortOrder,
	}
}

func widgetFromUpsert(req *UpsertWidgetRequest) model.Widget {
	return model.Widget{
		Type:       strings.TrimSpace(req.Type),
		Title:      strings.TrimSpace(*req.Title),
		Layout:     strings.TrimSpace(req.Layout),
		ConfigJSON: string(req.Config),
		Enabled:    *req.Enabled,
		SortOrder:  *req.Order,
	}
}

func validateWidgetSpec(widgetType, layout string, config json.RawMessage) error {
	if err := model.ValidateWidgetLayout(strings.TrimSpace(layout)); err != nil {
		return err
	}
	return model.ValidateWidgetConfig(strings.TrimSpace(widgetType), config)
}

func (h *WidgetHandler) findBoard(c *gin.Context) (*model.Board, bool) {
	key := c.Param("board_id")
	board, err := h.boardRepo.GetByIDOrURL(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return nil, false
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return nil, false
	}
	return board, true
}

// GetWidgets godoc
// @Summary List a board's widgets in sort order
// @Tags Widgets
// @Produce json
// @Param board_id path string true "Board id or slug"
// @Success 200 {array} WidgetResponse
// @Failure 404 {object} map[string]string
// @Router /api/board/{board_id}/widgets [get]
func (h *WidgetHandler) GetWidgets(c *gin.Context) {
	board, ok := h.findBoard(c)
	if !ok {
		return
	}

	widgets, err := h.widgetRepo.GetByBoardID(c.Request.Context(), board.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve widgets"})
		return
	}

	c.JSON(http.StatusOK, toWidgetResponses(widgets))
}

// CreateWidget godoc
// @Summary Create a widget on a board
// @Tags Widgets
// @Accept json
// @Produce json
// @Param board_id path string true "Board id or slug"
// @Success 201 {object} WidgetResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/board/{board_id}/widgets [post]
func (h *WidgetHandler) CreateWidget(c *gin.Context) {
	board, ok := h.findBoard(c)
	if !ok {
		return
	}

	var req UpsertWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := validateWidgetSpec(req.Type, req.Layout, req.Config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	widget := widgetFromUpsert(&req)
	widget.BoardID = board.ID

	if err := h.widgetRepo.Create(c.Request.Context(), &widget); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create widget"})
		return
	}

	if err := h.boardRepo.TouchUpdatedAt(c.Request.Context(), board.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	c.JSON(http.StatusCreated, toWidgetResponse(&widget))
}

// UpdateWidget godoc
// @Summary Update a widget
// @Tags Widgets
// @Accept json
// @Produce json
// @Param board_id path string true "Board id or slug"
// @Param widget_id path int true "Widget id"
// @Success 200 {object} WidgetResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/board/{board_id}/widgets/{widget_id} [put]
func (h *WidgetHandler) UpdateWidget(c *gin.Context) {
	board, ok := h.findBoard(c)
	if !ok {
		return
	}

	widgetID, err := strconv.ParseInt(c.Param("widget_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid widget ID format"})
		return
	}

	var req UpsertWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := validateWidgetSpec(req.Type, req.Layout, req.Config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	widget, err := h.widgetRepo.GetByIDAndBoardID(c.Request.Context(), widgetID, board.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve widget"})
		return
	}
	if widget == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Widget not found"})
		return
	}

	applied := widgetFromUpsert(&req)
	widget.Type = applied.Type
	widget.Title = applied.Title
	widget.Layout = applied.Layout
	widget.ConfigJSON = applied.ConfigJSON
	widget.Enabled = applied.Enabled
	widget.SortOrder = applied.SortOrder

	if err := h.widgetRepo.Update(c.Request.Context(), widget); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update widget"})
		return
	}

	if err := h.boardRepo.TouchUpdatedAt(c.Request.Context(), board.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	c.JSON(http.StatusOK, toWidgetResponse(widget))
}

// DeleteWidget godoc
// @Summary Delete a widget
// @Tags Widgets
// @Param board_id path string true "Board id or slug"
// @Param widget_id path int true "Widget id"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/board/{board_id}/widgets/{widget_id} [delete]
func (h *WidgetHandler) DeleteWidget(c *gin.Context) {
	board, ok := h.findBoard(c)
	if !ok {
		return
	}

	widgetID, err := strconv.ParseInt(c.Param("widget_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid widget ID format"})
		return
	}

	widget, err := h.widgetRepo.GetByIDAndBoardID(c.Request.Context(), widgetID, board.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve widget"})
		return
	}
	if widget == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Widget not found"})
		return
	}

	if err := h.widgetRepo.Delete(c.Request.Context(), widgetID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete widget"})
		return
	}

	if err := h.boardRepo.TouchUpdatedAt(c.Request.Context(), board.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	c.Status(http.StatusNoContent)
}

// SyncWidgets godoc
// @Summary Reconcile a board's widgets against a submitted desired list
// @Description Specs with an id update the matching widget, specs without one
// @Description create a new widget, and stored widgets omitted from the list
// @Description are deleted. The whole sync is atomic.
// @Tags Widgets
// @Accept json
// @Produce json
// @Param board_id path string true "Board id or slug"
// @Success 200 {array} WidgetResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/board/{board_id}/widgets/sync [put]
func (h *WidgetHandler) SyncWidgets(c *gin.Context) {
	board, ok := h.findBoard(c)
	if !ok {
		return
	}

	var req SyncWidgetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Any invalid spec rejects the whole request before anything is written.
	items := make([]repository.WidgetSyncItem, len(req.Widgets))
	for i, spec := range req.Widgets {
		if err := validateWidgetSpec(spec.Type, spec.Layout, spec.Config); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		items[i] = repository.WidgetSyncItem{
			ID: spec.ID,
			Widget: model.Widget{
				Type:       strings.TrimSpace(spec.Type),
				Title:      strings.TrimSpace(*spec.Title),
				Layout:     strings.TrimSpace(spec.Layout),
				ConfigJSON: string(spec.Config),
				Enabled:    *spec.Enabled,
				SortOrder:  *spec.Order,
			},
		}
	}

	widgets, err := h.widgetRepo.Sync(c.Request.Context(), board.ID, items)
	if err != nil {
		if errors.Is(err, repository.ErrWidgetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync widgets"})
		return
	}

	if err := h.boardRepo.TouchUpdatedAt(c.Request.Context(), board.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	c.JSON(http.StatusOK, toWidgetResponses(widgets))
}

func toWidgetResponses(widgets []model.Widget) []WidgetResponse {
	response := make([]WidgetResponse, len(widgets))
	for i := range widgets {
		response[i] = toWidgetResponse(&widgets[i])
	}
	return response
}
