package roomhandler

import (
	"net/http"
	"strconv"

	"birdroom/internal/rooms"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc rooms.IRoomService
}

func New(svc rooms.IRoomService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/views", h.views)
	r.POST("/reset", h.reset)
}

// @Summary		Delivered message count
// @Description	Number of messages written to any room connection since the last reset.
// @Tags			Rooms
// @Produce		plain
// @Success		200	{string}	string	"42"
// @Router			/views [get]
func (h *Handler) views(c *gin.Context) {
	c.String(http.StatusOK, strconv.FormatUint(h.svc.Views(), 10))
}

// @Summary		Reset all rooms
// @Description	Drops every room membership and zeroes the view counter.
// @Tags			Rooms
// @Success		200
// @Router			/reset [post]
func (h *Handler) reset(c *gin.Context) {
	h.svc.Reset()
	c.Status(http.StatusOK)
}
