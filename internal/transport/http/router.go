package httptransport

import (
	"log/slog"

	"github.com/cozmicai/waitlist/internal/transport/http/handler"
	"github.com/cozmicai/waitlist/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, subscriberHandler *handler.SubscriberHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	// Both routes are public; the token in the confirm link is the
	// only credential in the system.
	r.POST("/subscribe", subscriberHandler.Subscribe)
	r.GET("/subscribe/confirm", subscriberHandler.Confirm)

	return r
}
