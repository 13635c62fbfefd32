package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cozmicai/waitlist/internal/domain"
	"github.com/cozmicai/waitlist/internal/usecase"
	"github.com/gin-gonic/gin"
)

// subscriberUsecaser is the subset of SubscriberUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type subscriberUsecaser interface {
	Subscribe(ctx context.Context, email, name string) (*usecase.SubscribeResult, error)
	Confirm(ctx context.Context, token string) (*domain.Subscriber, error)
}

type SubscriberHandler struct {
	subscribers subscriberUsecaser
	logger      *slog.Logger
}

func NewSubscriberHandler(subscribers subscriberUsecaser, logger *slog.Logger) *SubscriberHandler {
	return &SubscriberHandler{
		subscribers: subscribers,
		logger:      logger.With("component", "subscriber_handler"),
	}
}

type subscribeRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// POST /subscribe
// 200 {"ok":true,"created":bool,"mailResult":{...}}
// 400 {"ok":false,"error":"Invalid email"} — also for unparseable bodies
// 500 {"ok":false,"error":"Server error"}
func (h *SubscriberHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": errInvalidEmail})
		return
	}

	res, err := h.subscribers.Subscribe(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": errInvalidEmail})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "subscribe", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": errServerError})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"created":    res.Created,
		"mailResult": res.Mail,
	})
}

// GET /subscribe/confirm?token=<raw>
// 200 {"ok":true,"verified":true}
// 400 {"ok":false,"error":"Missing token"|"Invalid token"|"Token expired"}
// An unmatched token is 400, not 404 — the landing page relies on it.
func (h *SubscriberHandler) Confirm(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": errMissingToken})
		return
	}

	_, err := h.subscribers.Confirm(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": errInvalidToken})
		case errors.Is(err, domain.ErrTokenExpired):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": errTokenExpired})
		default:
			h.logger.ErrorContext(c.Request.Context(), "confirm", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": errServerError})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "verified": true})
}
