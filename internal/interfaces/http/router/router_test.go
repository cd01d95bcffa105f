package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func TestRouter_SetupMountsUnderVersionPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	group := NewDomainGroup("partner", "/partner")
	group.GET("/customers", okHandler)

	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/partner/customers", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CustomAPIVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	group := NewDomainGroup("system", "/system")
	group.GET("/ping", okHandler)

	NewRouter(engine, WithAPIVersion("v2")).Register(group).Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v2/system/ping", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/system/ping", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDomainGroup_AllMethods(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	group := NewDomainGroup("trade", "/trade")
	group.GET("/orders", okHandler)
	group.POST("/orders", okHandler)
	group.PUT("/orders/:id", okHandler)
	group.DELETE("/orders/:id", okHandler)

	NewRouter(engine).Register(group).Setup()

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/trade/orders"},
		{http.MethodPost, "/api/v1/trade/orders"},
		{http.MethodPut, "/api/v1/trade/orders/1"},
		{http.MethodDelete, "/api/v1/trade/orders/1"},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestDomainGroup_Subgroups(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	group := NewDomainGroup("inventory", "/inventory")
	sub := group.Group("stock", "/stock")
	sub.GET("/low", okHandler)

	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/stock/low", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDomainGroup_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	called := false
	group := NewDomainGroup("partner", "/partner")
	group.Use(func(c *gin.Context) {
		called = true
		c.Next()
	})
	group.GET("/customers", okHandler)

	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/partner/customers", nil)
	engine.ServeHTTP(w, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDomainGroup_Accessors(t *testing.T) {
	group := NewDomainGroup("notifications", "/notifications")
	assert.Equal(t, "notifications", group.Name())
	assert.Equal(t, "/notifications", group.Prefix())
}
