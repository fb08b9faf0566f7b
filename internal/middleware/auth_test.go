package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthedRouter(keys []string) *gin.Engine {
	router := gin.New()
	router.Use(APIKeyAuth(keys))
	router.POST("/analyses", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestAPIKeyAuth_ValidHeader(t *testing.T) {
	router := newAuthedRouter([]string{"key-1", "key-2"})

	req := httptest.NewRequest("POST", "/analyses", nil)
	req.Header.Set("X-API-Key", "key-2")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAPIKeyAuth_ValidQueryParam(t *testing.T) {
	router := newAuthedRouter([]string{"key-1"})

	req := httptest.NewRequest("POST", "/analyses?api_key=key-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAPIKeyAuth_Missing(t *testing.T) {
	router := newAuthedRouter([]string{"key-1"})

	req := httptest.NewRequest("POST", "/analyses", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAPIKeyAuth_Invalid(t *testing.T) {
	router := newAuthedRouter([]string{"key-1"})

	req := httptest.NewRequest("POST", "/analyses", nil)
	req.Header.Set("X-API-Key", "wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAdminKeyAuth_InvalidIsForbidden(t *testing.T) {
	router := gin.New()
	router.Use(AdminKeyAuth([]string{"admin-key"}))
	router.GET("/admin/stats", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest("GET", "/admin/stats", nil)
	req.Header.Set("X-API-Key", "not-admin")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Wrong admin key is 403, not 401 — the key exists, it just isn't admin.
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestRateLimit_ExhaustsBurst(t *testing.T) {
	router := gin.New()
	router.Use(APIKeyAuth([]string{"key-1"}))
	router.Use(RateLimit(0.001, 2))
	router.POST("/analyses", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/analyses", nil)
		req.Header.Set("X-API-Key", "key-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	req := httptest.NewRequest("POST", "/analyses", nil)
	req.Header.Set("X-API-Key", "key-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst exhausted, got %d", w.Code)
	}
}

func TestRateLimit_PerKeyBuckets(t *testing.T) {
	router := gin.New()
	router.Use(APIKeyAuth([]string{"key-1", "key-2"}))
	router.Use(RateLimit(0.001, 1))
	router.POST("/analyses", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	do := func(key string) int {
		req := httptest.NewRequest("POST", "/analyses", nil)
		req.Header.Set("X-API-Key", key)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := do("key-1"); code != http.StatusOK {
		t.Fatalf("key-1 first request: expected 200, got %d", code)
	}
	if code := do("key-1"); code != http.StatusTooManyRequests {
		t.Errorf("key-1 second request: expected 429, got %d", code)
	}
	// A different key gets its own bucket.
	if code := do("key-2"); code != http.StatusOK {
		t.Errorf("key-2 first request: expected 200, got %d", code)
	}
}
