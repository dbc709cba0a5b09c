package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"orderdesk.io/app/internal/http/middleware"
	"orderdesk.io/app/internal/http/validation"
	"orderdesk.io/app/internal/modules/orders"
	"orderdesk.io/app/internal/shared/apperr"
)

func (h *ConsoleHandler) APIList(c *gin.Context) {
	con := h.console(c)
	if f, ok := c.GetQuery("filter"); ok {
		con.SetFilter(orders.Filter(f))
	}
	c.JSON(http.StatusOK, h.pages.json(c.Request.Context(), con.View()))
}

type statusInput struct {
	Status string `json:"status" binding:"required"`
}

func (h *ConsoleHandler) APIStatus(c *gin.Context) {
	var in statusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid request body.", validation.FromBindError(err, &in)))
		return
	}

	con := h.console(c)
	box := &noticeBox{}
	o, err := con.HandleStatus(c.Request.Context(), c.Param("id"), in.Status, box)
	if err != nil {
		middleware.Fail(c, h.apiError(err, box))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notice": box.last,
		"order":  h.pages.order(c.Request.Context(), o),
		"view":   h.pages.json(c.Request.Context(), con.View()),
	})
}

// APIDelete needs ?confirm=1. Without it the prompt is returned with 428
// and nothing is deleted.
func (h *ConsoleHandler) APIDelete(c *gin.Context) {
	con := h.console(c)
	box := &noticeBox{}
	deleted, err := con.HandleDelete(c.Request.Context(), c.Param("id"), confirmation(c), box)
	if err != nil {
		middleware.Fail(c, h.apiError(err, box))
		return
	}
	if !deleted {
		c.JSON(http.StatusPreconditionRequired, gin.H{
			"deleted": false,
			"prompt":  orders.DeletePrompt,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted": true,
		"notice":  box.last,
		"view":    h.pages.json(c.Request.Context(), con.View()),
	})
}

func (h *ConsoleHandler) apiError(err error, box *noticeBox) error {
	switch {
	case errors.Is(err, orders.ErrInvalidStatus):
		return apperr.InvalidErr("Unknown status.", map[string]string{"status": "Must be one of: pending, dispatch, success."})
	case errors.Is(err, orders.ErrOrderNotFound):
		return apperr.NotFoundErr("Order not found.")
	}
	msg := "The order store rejected the change."
	if box.last != nil {
		msg = box.last.Message
	}
	return apperr.UnavailableErr(msg, err)
}
