package game

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sopra-fs21-group-4/sopra-server/domain"
)

type GameCommands interface {
	CreateGame(ctx context.Context, userId string, settings Settings) (*Game, error)
	JoinGame(ctx context.Context, gameId int64, userId, password string) (*Game, error)
	LeaveGame(gameId int64, userId string) error
	StartGame(gameId int64, userId string, force bool) error
	SetReady(gameId int64, userId string, ready bool) error
	AdaptSettings(gameId int64, userId string, settings Settings) error
	PutSuggestion(gameId int64, userId, text string) error
	PutVote(gameId int64, userId, target string) error
	RunMasterCommand(gameId int64, userId, text string) error
	Game(gameId int64) (*Game, error)
	Descriptions() []Description
}

type SummaryGetter interface {
	GetGameSummary(ctx context.Context, gameId int64) (domain.GameSummary, error)
}

type Handler struct {
	games     GameCommands
	summaries SummaryGetter
}

func NewHandler(games GameCommands, summaries SummaryGetter) *Handler {
	return &Handler{games: games, summaries: summaries}
}

func (h *Handler) CreateGameHandler(ctx *gin.Context) {
	userId := ctx.GetString("id")
	if userId == "" {
		ctx.String(http.StatusUnauthorized, "unauthenticated")
		ctx.Abort()
		return
	}

	var settings Settings
	if err := ctx.ShouldBindJSON(&settings); err != nil {
		ctx.String(http.StatusBadRequest, "invalid-request-format")
		ctx.Abort()
		return
	}
	if err := settings.Validate(); err != nil {
		ctx.String(http.StatusBadRequest, err.Error())
		ctx.Abort()
		return
	}

	g, err := h.games.CreateGame(ctx.Request.Context(), userId, settings)
	if err != nil {
		abortWithGameError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, g.View())
}

func (h *Handler) GetGamesHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.games.Descriptions())
}

func (h *Handler) GetGameHandler(ctx *gin.Context) {
	gameId, ok := parseGameId(ctx)
	if !ok {
		return
	}
	g, err := h.games.Game(gameId)
	if err != nil {
		abortWithGameError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, g.View())
}

func (h *Handler) JoinGameHandler(ctx *gin.Context) {
	gameId, ok := parseGameId(ctx)
	if !ok {
		return
	}
	var body struct {
		Password string `json:"password"`
	}
	// no body means no password
	_ = ctx.ShouldBindJSON(&body)

	g, err := h.games.JoinGame(ctx.Request.Context(), gameId, ctx.GetString("id"), body.Password)
	if err != nil {
		abortWithGameError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, g.View())
}

func (h *Handler) LeaveGameHandler(ctx *gin.Context) {
	gameId, ok := parseGameId(ctx)
	if !ok {
		return
	}
	if err := h.games.LeaveGame(gameId, ctx.GetString("id")); err != nil {
		abortWithGameError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
}

func (h *Handler) StartGameHandler(ctx *gin.Context) {
	gameId, ok := parseGameId(ctx)
	if !ok {
		return
	}
	var body struct {
		Force bool `json:"force"`
	}
	_ = ctx.ShouldBindJSON(&body)

	if err := h.games.StartGame(gameId, ctx.GetString("id"), body.Force); err != nil {
		abortWithGameError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
}

func (h *Handler) SetReadyHandler(ctx *gin.Context) {
	gameId, ok := parseGameId(ctx)
	if !ok {
		return
	}
	var body struct {
		Ready bool `json:"ready"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.String(http.StatusBadRequest, "invalid-request-format")
		ctx.Abort()
		return
	}
	if err := h.games.SetReady(gameId, ctx.GetString("id"), body.Ready); err != nil {
		abortWithGameError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
}

func (h *Handler) AdaptSettingsHandler(ctx *gin.Context) {
	gameId, ok := parseGameId(ctx)
	if !ok {
		return
	}
	var settings Settings
	if err := ctx.ShouldBindJSON(&settings); err != nil {
		ctx.String(http.StatusBadRequest, "invalid-request-format")
		ctx.Abort()
		return
	}
	if err := h.games.AdaptSettings(gameId, ctx.GetString("id"), settings); err != nil {
		if errors.Is(err, ErrGameNotFound) || errors.Is(err, ErrForbidden) || errors.Is(err, ErrAlreadyRunning) {
			abortWithGameError(ctx, err)
			return
		}
		// settings validation failure
		ctx.String(http.StatusBadRequest, err.Error())
		ctx.Abort()
		return
	}
	ctx.Status(http.StatusOK)
}

func (h *Handler) PutSuggestionHandler(ctx *gin.Context) {
	gameId, ok := parseGameId(ctx)
	if !ok {
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil || body.Text == "" {
		ctx.String(http.StatusBadRequest, "invalid-request-format")
		ctx.Abort()
		return
	}
	if err := h.games.PutSuggestion(gameId, ctx.GetString("id"), body.Text); err != nil {
		abortWithGameError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
}

func (h *Handler) PutVoteHandler(ctx *gin.Context) {
	gameId, ok := parseGameId(ctx)
	if !ok {
		return
	}
	var body struct {
		Target string `json:"target"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil || body.Target == "" {
		ctx.String(http.StatusBadRequest, "invalid-request-format")
		ctx.Abort()
		return
	}
	if err := h.games.PutVote(gameId, ctx.GetString("id"), body.Target); err != nil {
		abortWithGameError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
}

func (h *Handler) MasterCommandHandler(ctx *gin.Context) {
	gameId, ok := parseGameId(ctx)
	if !ok {
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.String(http.StatusBadRequest, "invalid-request-format")
		ctx.Abort()
		return
	}
	if err := h.games.RunMasterCommand(gameId, ctx.GetString("id"), body.Text); err != nil {
		abortWithGameError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
}

func (h *Handler) GetSummaryHandler(ctx *gin.Context) {
	gameId, ok := parseGameId(ctx)
	if !ok {
		return
	}
	summary, err := h.summaries.GetGameSummary(ctx.Request.Context(), gameId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSummaryNotFound):
			ctx.String(http.StatusNotFound, "summary-not-found")
			ctx.Abort()
		default:
			log.Error().Err(err).Int64("game_id", gameId).Msg("failed to load game summary")
			ctx.String(http.StatusInternalServerError, "unknown-error")
			ctx.Abort()
		}
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

func parseGameId(ctx *gin.Context) (int64, bool) {
	gameId, err := strconv.ParseInt(ctx.Param("gameid"), 10, 64)
	if err != nil || gameId <= 0 {
		ctx.String(http.StatusNotFound, ErrGameNotFound.Error())
		ctx.Abort()
		return 0, false
	}
	return gameId, true
}

func abortWithGameError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrGameNotFound):
		ctx.String(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrWrongPassword), errors.Is(err, ErrNotEnrolled):
		ctx.String(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrForbidden):
		ctx.String(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrAlreadyRunning):
		ctx.String(http.StatusGone, err.Error())
	case errors.Is(err, ErrBanned):
		ctx.String(http.StatusLocked, err.Error())
	case errors.Is(err, ErrGameFull), errors.Is(err, ErrWrongPhase),
		errors.Is(err, ErrInvalidTarget), errors.Is(err, ErrPlayersNotReady):
		ctx.String(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrUnknownCommand), errors.Is(err, ErrMissingTarget):
		ctx.String(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		ctx.String(http.StatusUnauthorized, err.Error())
	default:
		log.Error().Err(err).Msg("unexpected game command error")
		ctx.String(http.StatusInternalServerError, "unknown-error")
	}
	ctx.Abort()
}
