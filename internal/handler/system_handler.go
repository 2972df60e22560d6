package handler

import (
	"net/http"
	"strings"

	"linkboard/internal/model"
	"linkboard/internal/repository"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	systemRepo *repository.SystemRepository
	boardRepo  *repository.BoardRepository
}

func NewSystemHandler(systemRepo *repository.SystemRepository, boardRepo *repository.BoardRepository) *SystemHandler {
	return &SystemHandler{
		systemRepo: systemRepo,
		boardRepo:  boardRepo,
	}
}

type UpdateSystemRoutesRequest struct {
	GlobalHomepageBoardID string `json:"globalHomepageBoardId" binding:"required"`
	GlobalInsightsBoardID string `json:"globalInsightsBoardId" binding:"required"`
	GlobalSettingsBoardID string `json:"globalSettingsBoardId" binding:"required"`
	GlobalSigninBoardID   string `json:"globalSigninBoardId"`
}

type SystemRoutesResponse struct {
	GlobalHomepageBoardID  string `json:"globalHomepageBoardId"`
	GlobalHomepageBoardURL string `json:"globalHomepageBoardUrl"`
	GlobalInsightsBoardID  string `json:"globalInsightsBoardId"`
	GlobalInsightsBoardURL string `json:"globalInsightsBoardUrl"`
	GlobalSettingsBoardID  string `json:"globalSettingsBoardId"`
	GlobalSettingsBoardURL string `json:"globalSettingsBoardUrl"`
	GlobalSigninBoardID    string `json:"globalSigninBoardId"`
	GlobalSigninBoardURL   string `json:"globalSigninBoardUrl"`
}

func (h *SystemHandler) resolveBoard(c *gin.Context, boardID string) (*model.Board, bool) {
	board, err := h.boardRepo.GetByIDOrURL(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return nil, false
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found: " + boardID})
		return nil, false
	}
	return board, true
}

// GetRoutes godoc
// @Summary System-wide route configuration
// @Tags System
// @Produce json
// @Success 200 {object} SystemRoutesResponse
// @Router /api/system/routes [get]
func (h *SystemHandler) GetRoutes(c *gin.Context) {
	settings, err := h.systemRepo.GetOrCreate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve system settings"})
		return
	}

	homepage, ok := h.resolveBoard(c, settings.GlobalHomepageBoardID)
	if !ok {
		return
	}
	insights, ok := h.resolveBoard(c, settings.GlobalInsightsBoardID)
	if !ok {
		return
	}
	settingsBoard, ok := h.resolveBoard(c, settings.GlobalSettingsBoardID)
	if !ok {
		return
	}
	signin, ok := h.resolveBoard(c, settings.GlobalSigninBoardID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, routesResponse(homepage, insights, settingsBoard, signin))
}

// UpdateRoutes godoc
// @Summary Update system-wide route configuration
// @Tags System
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SystemRoutesResponse
// @Failure 404 {object} map[string]string
// @Router /api/system/routes [put]
func (h *SystemHandler) UpdateRoutes(c *gin.Context) {
	var req UpdateSystemRoutesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	settings, err := h.systemRepo.GetOrCreate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve system settings"})
		return
	}

	homepage, ok := h.resolveBoard(c, strings.TrimSpace(req.GlobalHomepageBoardID))
	if !ok {
		return
	}
	insights, ok := h.resolveBoard(c, strings.TrimSpace(req.GlobalInsightsBoardID))
	if !ok {
		return
	}
	settingsBoard, ok := h.resolveBoard(c, strings.TrimSpace(req.GlobalSettingsBoardID))
	if !ok {
		return
	}

	// The signin route keeps its current board when the request omits it.
	signinID := strings.TrimSpace(req.GlobalSigninBoardID)
	if signinID == "" {
		signinID = settings.GlobalSigninBoardID
	}
	signin, ok := h.resolveBoard(c, signinID)
	if !ok {
		return
	}

	settings.GlobalHomepageBoardID = homepage.ID
	settings.GlobalInsightsBoardID = insights.ID
	settings.GlobalSettingsBoardID = settingsBoard.ID
	settings.GlobalSigninBoardID = signin.ID
	settings.GlobalSignupBoardID = signin.ID

	if err := h.systemRepo.Save(c.Request.Context(), settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update system settings"})
		return
	}

	c.JSON(http.StatusOK, routesResponse(homepage, insights, settingsBoard, signin))
}

func routesResponse(homepage, insights, settings, signin *model.Board) SystemRoutesResponse {
	return SystemRoutesResponse{
		GlobalHomepageBoardID:  homepage.ID,
		GlobalHomepageBoardURL: homepage.BoardURL,
		GlobalInsightsBoardID:  insights.ID,
		GlobalInsightsBoardURL: insights.BoardURL,
		GlobalSettingsBoardID:  settings.ID,
		GlobalSettingsBoardURL: settings.BoardURL,
		GlobalSigninBoardID:    signin.ID,
		GlobalSigninBoardURL:   signin.BoardURL,
	}
}
