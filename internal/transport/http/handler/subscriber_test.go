package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/cozmicai/waitlist/internal/domain"
	"github.com/cozmicai/waitlist/internal/transport/http/handler"
	"github.com/cozmicai/waitlist/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeSubscriberUsecase implements the unexported subscriberUsecaser
// interface via method matching.
type fakeSubscriberUsecase struct {
	subscribe func(ctx context.Context, email, name string) (*usecase.SubscribeResult, error)
	confirm   func(ctx context.Context, token string) (*domain.Subscriber, error)
}

func (f *fakeSubscriberUsecase) Subscribe(ctx context.Context, email, name string) (*usecase.SubscribeResult, error) {
	return f.subscribe(ctx, email, name)
}

func (f *fakeSubscriberUsecase) Confirm(ctx context.Context, token string) (*domain.Subscriber, error) {
	return f.confirm(ctx, token)
}

func newTestEngine(uc *fakeSubscriberUsecase) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewSubscriberHandler(uc, logger)

	r := gin.New()
	r.POST("/subscribe", h.Subscribe)
	r.GET("/subscribe/confirm", h.Confirm)
	return r
}

func postSubscribe(t *testing.T, uc *fakeSubscriberUsecase, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/subscribe", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

// ---- Subscribe ----

func TestSubscribe_MalformedJSON_Returns400(t *testing.T) {
	w := postSubscribe(t, &fakeSubscriberUsecase{}, `{bad json}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	body := decodeBody(t, w)
	if body["ok"] != false || body["error"] != "Invalid email" {
		t.Errorf("body = %v", body)
	}
}

func TestSubscribe_InvalidEmail_Returns400(t *testing.T) {
	uc := &fakeSubscriberUsecase{
		subscribe: func(_ context.Context, _, _ string) (*usecase.SubscribeResult, error) {
			return nil, domain.ErrInvalidEmail
		},
	}
	w := postSubscribe(t, uc, `{"email":"noatsign"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Invalid email" {
		t.Errorf("body = %v", body)
	}
}

func TestSubscribe_Created_Returns200(t *testing.T) {
	uc := &fakeSubscriberUsecase{
		subscribe: func(_ context.Context, email, name string) (*usecase.SubscribeResult, error) {
			if email != "priya@example.com" || name != "Priya K" {
				t.Errorf("usecase got email=%q name=%q", email, name)
			}
			return &usecase.SubscribeResult{
				Created: true,
				Mail:    usecase.MailResult{OK: true, Info: "msg-1"},
			}, nil
		},
	}
	w := postSubscribe(t, uc, `{"email":"priya@example.com","name":"Priya K"}`)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["ok"] != true || body["created"] != true {
		t.Errorf("body = %v", body)
	}
	mail, ok := body["mailResult"].(map[string]any)
	if !ok || mail["ok"] != true {
		t.Errorf("mailResult = %v", body["mailResult"])
	}
}

func TestSubscribe_Repeat_ReportsCreatedFalse(t *testing.T) {
	uc := &fakeSubscriberUsecase{
		subscribe: func(_ context.Context, _, _ string) (*usecase.SubscribeResult, error) {
			return &usecase.SubscribeResult{Created: false, Mail: usecase.MailResult{OK: true}}, nil
		},
	}
	w := postSubscribe(t, uc, `{"email":"priya@example.com"}`)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if body := decodeBody(t, w); body["created"] != false {
		t.Errorf("body = %v", body)
	}
}

func TestSubscribe_MailFailure_SurfacesInPayload(t *testing.T) {
	uc := &fakeSubscriberUsecase{
		subscribe: func(_ context.Context, _, _ string) (*usecase.SubscribeResult, error) {
			return &usecase.SubscribeResult{
				Created: true,
				Mail:    usecase.MailResult{OK: false, Error: "provider unreachable"},
			}, nil
		},
	}
	w := postSubscribe(t, uc, `{"email":"priya@example.com"}`)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 even when mail fails", w.Code)
	}
	body := decodeBody(t, w)
	mail, _ := body["mailResult"].(map[string]any)
	if mail["ok"] != false || mail["error"] != "provider unreachable" {
		t.Errorf("mailResult = %v", body["mailResult"])
	}
}

func TestSubscribe_StorageError_Returns500(t *testing.T) {
	uc := &fakeSubscriberUsecase{
		subscribe: func(_ context.Context, _, _ string) (*usecase.SubscribeResult, error) {
			return nil, errors.New("db down")
		},
	}
	w := postSubscribe(t, uc, `{"email":"priya@example.com"}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if body := decodeBody(t, w); body["ok"] != false || body["error"] != "Server error" {
		t.Errorf("body = %v", body)
	}
}

// ---- Confirm ----

func getConfirm(t *testing.T, uc *fakeSubscriberUsecase, query string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/subscribe/confirm"+query, nil)
	newTestEngine(uc).ServeHTTP(w, req)
	return w
}

func TestConfirm_MissingToken_Returns400(t *testing.T) {
	w := getConfirm(t, &fakeSubscriberUsecase{}, "")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Missing token" {
		t.Errorf("body = %v", body)
	}
}

func TestConfirm_UnknownToken_Returns400(t *testing.T) {
	uc := &fakeSubscriberUsecase{
		confirm: func(_ context.Context, _ string) (*domain.Subscriber, error) {
			return nil, domain.ErrTokenNotFound
		},
	}
	w := getConfirm(t, uc, "?token=garbage")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 (not 404)", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Invalid token" {
		t.Errorf("body = %v", body)
	}
}

func TestConfirm_ExpiredToken_Returns400(t *testing.T) {
	uc := &fakeSubscriberUsecase{
		confirm: func(_ context.Context, _ string) (*domain.Subscriber, error) {
			return nil, domain.ErrTokenExpired
		},
	}
	w := getConfirm(t, uc, "?token=stale")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Token expired" {
		t.Errorf("body = %v", body)
	}
}

func TestConfirm_Success_Returns200(t *testing.T) {
	uc := &fakeSubscriberUsecase{
		confirm: func(_ context.Context, token string) (*domain.Subscriber, error) {
			if token != "sometoken" {
				t.Errorf("usecase got token %q", token)
			}
			return &domain.Subscriber{Email: "priya@example.com", Verified: true}, nil
		},
	}
	w := getConfirm(t, uc, "?token=sometoken")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["ok"] != true || body["verified"] != true {
		t.Errorf("body = %v", body)
	}
}

func TestConfirm_InternalError_Returns500(t *testing.T) {
	uc := &fakeSubscriberUsecase{
		confirm: func(_ context.Context, _ string) (*domain.Subscriber, error) {
			return nil, errors.New("db down")
		},
	}
	w := getConfirm(t, uc, "?token=sometoken")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Server error" {
		t.Errorf("body = %v", body)
	}
}
