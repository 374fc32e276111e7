package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/logger"
)

func TestRecover_PanicBecomesInternalError(t *testing.T) {
	var logs bytes.Buffer
	t.Setenv("LOG_FORMAT", "json")
	logger.InitWithWriter(&logs)
	t.Cleanup(func() { logger.InitWithWriter(&bytes.Buffer{}) })

	we := &writeErrRecorder{}
	h := Recover(we.fn)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	if we.calls != 1 || !domain.Is(we.last, "internal_error") {
		t.Fatalf("expected internal_error, got calls=%d err=%v", we.calls, we.last)
	}
	if !strings.Contains(logs.String(), "kaboom") {
		t.Fatalf("expected panic value logged, got %q", logs.String())
	}
}

func TestRecover_NoPanic_PassesThrough(t *testing.T) {
	we := &writeErrRecorder{}
	h := Recover(we.fn)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

	if rr.Code != http.StatusTeapot || we.calls != 0 {
		t.Fatalf("expected passthrough, got code=%d calls=%d", rr.Code, we.calls)
	}
}

func TestRecover_AbortHandlerIsRepanicked(t *testing.T) {
	we := &writeErrRecorder{}
	h := Recover(we.fn)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler re-panic, got %v", rec)
		}
		if we.calls != 0 {
			t.Fatalf("writeErr should not be called on abort")
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
}
