package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aeps-agent.backend/internal/interfaces/http/handlers"
	"aeps-agent.backend/internal/interfaces/http/middleware"
)

const (
	serviceName    = "aeps-agent-backend"
	serviceVersion = "1.0.0"
	agentRole      = "AGENT"
)

type routeDeps struct {
	aepsHandler    *handlers.AepsHandler
	authMiddleware gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key, X-Request-ID, X-Latitude, X-Longitude, X-Device-IP")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, X-Idempotency-Hit")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine, h http.Handler) {
	if h == nil {
		return
	}
	r.GET("/metrics", gin.WrapH(h))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		aeps := v1.Group("/aeps")
		aeps.Use(d.authMiddleware, middleware.RequireRole(agentRole))
		{
			aeps.GET("/status", d.aepsHandler.GetStatus)

			aeps.POST("/onboarding", d.aepsHandler.SubmitOnboarding)
			aeps.POST("/ekyc/otp", d.aepsHandler.SendEkycOtp)
			aeps.POST("/ekyc/otp/verify", d.aepsHandler.VerifyEkycOtp)
			aeps.POST("/ekyc/biometric", d.aepsHandler.SubmitEkycBiometric)

			aeps.GET("/banks", d.aepsHandler.ListBanks)

			aeps.GET("/form", d.aepsHandler.GetForm)
			aeps.PUT("/form/bank", d.aepsHandler.SelectBank)
			aeps.POST("/form/biometric", d.aepsHandler.CaptureBiometric)
			aeps.DELETE("/form", d.aepsHandler.ResetForm)

			aeps.POST("/two-fa", middleware.IdempotencyMiddleware(), d.aepsHandler.SubmitTwoFactor)
			aeps.POST("/transactions", middleware.IdempotencyMiddleware(), d.aepsHandler.SubmitTransaction)
			aeps.GET("/transactions", d.aepsHandler.ListTransactions)
			aeps.GET("/receipts/:id", d.aepsHandler.GetReceipt)
		}
	}
}
