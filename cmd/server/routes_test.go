package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeps-agent.backend/internal/interfaces/http/handlers"
	"aeps-agent.backend/internal/interfaces/http/middleware"
)

func TestRegisterAPIV1Routes_RegistersAepsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	registerAPIV1Routes(r, routeDeps{
		aepsHandler:    &handlers.AepsHandler{},
		authMiddleware: func(c *gin.Context) { c.Next() },
	})

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /api/v1/aeps/status",
		"POST /api/v1/aeps/onboarding",
		"POST /api/v1/aeps/ekyc/otp",
		"POST /api/v1/aeps/ekyc/otp/verify",
		"POST /api/v1/aeps/ekyc/biometric",
		"GET /api/v1/aeps/banks",
		"GET /api/v1/aeps/form",
		"PUT /api/v1/aeps/form/bank",
		"POST /api/v1/aeps/form/biometric",
		"DELETE /api/v1/aeps/form",
		"POST /api/v1/aeps/two-fa",
		"POST /api/v1/aeps/transactions",
		"GET /api/v1/aeps/transactions",
		"GET /api/v1/aeps/receipts/:id",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestRegisterAPIV1Routes_RequiresAgentRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerAPIV1Routes(r, routeDeps{
		aepsHandler: &handlers.AepsHandler{},
		authMiddleware: func(c *gin.Context) {
			c.Set(middleware.AgentIDKey, uuid.New())
			c.Set(middleware.AgentRoleKey, "DISTRIBUTOR")
			c.Next()
		},
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/aeps/form", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestApplyCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	applyCORSMiddleware(r)
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRegisterHealthRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerHealthRoute(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"status": "ok", "service": serviceName, "version": serviceVersion}, body)
}

func TestRegisterMetricsRoute_NilHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerMetricsRoute(r, nil)
	assert.Empty(t, r.Routes())
}
