package chat

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sopra-fs21-group-4/sopra-server/domain"
)

type UserGetter interface {
	GetUserById(ctx context.Context, id string) (domain.User, error)
}

type Handler struct {
	channels *Service
	users    UserGetter
}

func NewHandler(channels *Service, users UserGetter) *Handler {
	return &Handler{channels: channels, users: users}
}

func (h *Handler) PostMessageHandler(ctx *gin.Context) {
	var body struct {
		Text string `json:"text"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil || body.Text == "" {
		ctx.String(http.StatusBadRequest, "invalid-request-format")
		ctx.Abort()
		return
	}

	user, err := h.users.GetUserById(ctx.Request.Context(), ctx.GetString("id"))
	if err != nil {
		ctx.String(http.StatusUnauthorized, "unauthenticated")
		ctx.Abort()
		return
	}

	msg, err := h.channels.Post(ctx.Param("channelid"), user.Id, user.Username, body.Text)
	if err != nil {
		switch {
		case errors.Is(err, ErrChannelNotFound):
			ctx.String(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrRateLimited):
			ctx.String(http.StatusTooManyRequests, err.Error())
		default:
			ctx.String(http.StatusInternalServerError, "unknown-error")
		}
		ctx.Abort()
		return
	}
	ctx.JSON(http.StatusCreated, msg)
}

func (h *Handler) GetMessagesHandler(ctx *gin.Context) {
	afterId, _ := strconv.ParseInt(ctx.Query("after"), 10, 64)

	messages, err := h.channels.MessagesSince(ctx.Param("channelid"), afterId)
	if err != nil {
		ctx.String(http.StatusNotFound, err.Error())
		ctx.Abort()
		return
	}
	ctx.JSON(http.StatusOK, messages)
}
