package handler

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"linkboard/internal/middleware"
	"linkboard/internal/model"
	"linkboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BoardHandler struct {
	boardRepo *repository.BoardRepository
	userRepo  *repository.UserRepository
}

func NewBoardHandler(boardRepo *repository.BoardRepository, userRepo *repository.UserRepository) *BoardHandler {
	return &BoardHandler{
		boardRepo: boardRepo,
		userRepo:  userRepo,
	}
}

type CardRequest struct {
	ID    string `json:"id" binding:"required"`
	Label string `json:"label" binding:"required"`
	Href  string `json:"href" binding:"required"`
}

type CreateBoardRequest struct {
	BoardName string `json:"boardName" binding:"required"`
	BoardURL  string `json:"boardUrl" binding:"required"`
	Name      string `json:"name"`
	Headline  string `json:"headline"`
}

type UpdateBoardRequest struct {
	Name     string        `json:"name" binding:"required"`
	Headline string        `json:"headline"`
	Cards    []CardRequest `json:"cards" binding:"required"`
}

type UpdateBoardMetaRequest struct {
	Name     string `json:"name" binding:"required"`
	Headline string `json:"headline"`
}

type UpdateBoardURLRequest struct {
	BoardURL string `json:"boardUrl" binding:"required"`
}

type UpdateBoardIdentityRequest struct {
	BoardName string `json:"boardName" binding:"required"`
	BoardURL  string `json:"boardUrl" binding:"required"`
}

type CardResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

type BoardResponse struct {
	ID        string         `json:"id"`
	BoardName string         `json:"boardName"`
	BoardURL  string         `json:"boardUrl"`
	Name      string         `json:"name"`
	Headline  string         `json:"headline"`
	Cards     []CardResponse `json:"cards"`
}

func toBoardResponse(board *model.Board) BoardResponse {
	cards := make([]CardResponse, len(board.Cards))
	for i, card := range board.Cards {
		cards[i] = CardResponse{ID: card.ID, Label: card.Label, Href: card.Href}
	}
	return BoardResponse{
		ID:        board.ID,
		BoardName: board.BoardName,
		BoardURL:  board.BoardURL,
		Name:      board.Name,
		Headline:  board.Headline,
		Cards:     cards,
	}
}

// findBoard resolves the path key as a board id first, then as a slug, and
// writes the 404 itself when nothing matches.
func (h *BoardHandler) findBoard(c *gin.Context) (*model.Board, bool) {
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

func authenticatedUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return id, true
}

// GetAll godoc
// @Summary List all boards
// @Tags Boards
// @Produce json
// @Success 200 {array} BoardResponse
// @Router /api/board [get]
func (h *BoardHandler) GetAll(c *gin.Context) {
	boards, err := h.boardRepo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boards"})
		return
	}

	sort.Slice(boards, func(i, j int) bool {
		return strings.ToLower(boards[i].BoardName) < strings.ToLower(boards[j].BoardName)
	})

	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = toBoardResponse(&boards[i])
	}
	c.JSON(http.StatusOK, response)
}

// GetByID godoc
// @Summary Get a board by id or slug
// @Tags Boards
// @Produce json
// @Param board_id path string true "Board id or slug"
// @Success 200 {object} BoardResponse
// @Failure 404 {object} map[string]string
// @Router /api/board/{board_id} [get]
func (h *BoardHandler) GetByID(c *gin.Context) {
	board, ok := h.findBoard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toBoardResponse(board))
}

// GetMine lists the caller's boards, most recently updated first, with the
// board pinned in their preferences sorted to the front.
func (h *BoardHandler) GetMine(c *gin.Context) {
	ownerID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	boards, err := h.boardRepo.GetOwned(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boards"})
		return
	}

	mainBoardID := ""
	if preference, err := h.userRepo.GetPreference(c.Request.Context(), ownerID); err == nil && preference != nil {
		mainBoardID = strings.TrimSpace(preference.MainBoardID)
	}

	sort.SliceStable(boards, func(i, j int) bool {
		leftPinned := mainBoardID != "" && boards[i].ID == mainBoardID
		rightPinned := mainBoardID != "" && boards[j].ID == mainBoardID
		return leftPinned && !rightPinned
	})

	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = toBoardResponse(&boards[i])
	}
	c.JSON(http.StatusOK, response)
}

// Create godoc
// @Summary Create a board
// @Tags Boards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} BoardResponse
// @Router /api/board [post]
func (h *BoardHandler) Create(c *gin.Context) {
	ownerID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	boardName := strings.TrimSpace(req.BoardName)
	if boardName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "board_name is required"})
		return
	}

	boardURL, err := model.NormalizeBoardURL(req.BoardURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taken, err := h.boardRepo.ExistsByURLExcluding(c.Request.Context(), boardURL, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check board URL"})
		return
	}
	if taken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "board_url is already used: " + boardURL})
		return
	}

	board := &model.Board{
		ID:          uuid.New().String(),
		BoardName:   boardName,
		BoardURL:    boardURL,
		Name:        req.Name,
		Headline:    req.Headline,
		OwnerUserID: ownerID,
	}

	if err := h.boardRepo.Create(c.Request.Context(), board); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "board update conflicts with existing data"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board"})
		return
	}

	c.JSON(http.StatusCreated, toBoardResponse(board))
}

// Update godoc
// @Summary Update a board and replace its card list
// @Tags Boards
// @Accept json
// @Produce json
// @Param board_id path string true "Board id or slug"
// @Success 200 {object} BoardResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/board/{board_id} [put]
func (h *BoardHandler) Update(c *gin.Context) {
	board, ok := h.findBoard(c)
	if !ok {
		return
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	cards := make([]model.Card, len(req.Cards))
	for i, card := range req.Cards {
		cards[i] = model.Card{ID: card.ID, Label: card.Label, Href: card.Href}
	}

	if err := model.CheckNoDuplicateCardIDs(cards); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Full replace: the old card list is discarded, submitted order wins.
	board.Name = req.Name
	board.Headline = req.Headline
	board.Cards = cards

	if err := h.boardRepo.SaveWithCards(c.Request.Context(), board); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "board update conflict detected, please retry"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	c.JSON(http.StatusOK, toBoardResponse(board))
}

// UpdateMeta updates the board's display name and headline only.
func (h *BoardHandler) UpdateMeta(c *gin.Context) {
	board, ok := h.findBoard(c)
	if !ok {
		return
	}

	var req UpdateBoardMetaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board.Name = req.Name
	board.Headline = req.Headline

	if err := h.boardRepo.Save(c.Request.Context(), board); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "board update conflict detected, please retry"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	c.JSON(http.StatusOK, toBoardResponse(board))
}

// UpdateURL changes the board's slug after normalization and a uniqueness probe.
func (h *BoardHandler) UpdateURL(c *gin.Context) {
	board, ok := h.findBoard(c)
	if !ok {
		return
	}

	var req UpdateBoardURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	normalized, err := model.NormalizeBoardURL(req.BoardURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taken, err := h.boardRepo.ExistsByURLExcluding(c.Request.Context(), normalized, board.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check board URL"})
		return
	}
	if taken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "board_url is already used: " + normalized})
		return
	}

	board.BoardURL = normalized

	if err := h.boardRepo.Save(c.Request.Context(), board); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "board update conflict detected, please retry"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	c.JSON(http.StatusOK, toBoardResponse(board))
}

// UpdateIdentity changes the board's handle and slug together.
func (h *BoardHandler) UpdateIdentity(c *gin.Context) {
	board, ok := h.findBoard(c)
	if !ok {
		return
	}

	var req UpdateBoardIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	boardName := strings.TrimSpace(req.BoardName)
	if boardName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "board_name is required"})
		return
	}

	normalized, err := model.NormalizeBoardURL(req.BoardURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taken, err := h.boardRepo.ExistsByURLExcluding(c.Request.Context(), normalized, board.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check board URL"})
		return
	}
	if taken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "board_url is already used: " + normalized})
		return
	}

	board.BoardName = boardName
	board.BoardURL = normalized

	if err := h.boardRepo.Save(c.Request.Context(), board); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "board update conflict detected, please retry"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	c.JSON(http.StatusOK, toBoardResponse(board))
}

// GetPermissions reports whether the caller may edit the board (owner or admin).
func (h *BoardHandler) GetPermissions(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	board, ok := h.findBoard(c)
	if !ok {
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}

	canEdit := user != nil && (user.IsAdmin() || board.OwnerUserID == user.ID)
	c.JSON(http.StatusOK, gin.H{"canEdit": canEdit})
}
