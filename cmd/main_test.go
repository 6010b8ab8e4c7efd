package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/IntelliHire/config"
	"github.com/lshigami/IntelliHire/internal/controller"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() *gin.Engine {
	router := NewGinEngine(&config.Config{Server: config.Server{GinMode: gin.TestMode}})
	RegisterRoutes(router,
		controller.NewInterviewController(nil),
		controller.NewFeedbackController(nil),
		controller.NewUserController(nil),
	)
	return router
}

func TestPreflight(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name   string
		path   string
		origin string
	}{
		{name: "cross-origin generate", path: "/api/generate", origin: "https://app.example.com"},
		{name: "cross-origin feedback", path: "/api/feedback", origin: "https://app.example.com"},
		{name: "no origin", path: "/api/generate"},
		{name: "no origin unknown path", path: "/api/anything/else"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, tt.path, nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Empty(t, w.Body.String())
			if tt.origin != "" {
				assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestHealthRoute(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
