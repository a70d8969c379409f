package webhooks

import (
	"github.com/labstack/echo/v4"

	"github.com/angel-coaching/site-api/internal/config"
)

type Handler struct {
	config *config.Config
}

func CreateHandler(config *config.Config) *Handler {
	return &Handler{
		config: config,
	}
}

func (h *Handler) AddRoutes(e *echo.Echo) {
	e.POST("/webhook/stripe/", h.HandleStripeWebhook)
}
