package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nubank/chat-assistant/internal"
)

func TestRecovery_RendersDetail(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d want 500", w.Code)
	}
	var got internal.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	if got.Detail != "Internal server error" {
		t.Fatalf("detail: got %q", got.Detail)
	}
}
