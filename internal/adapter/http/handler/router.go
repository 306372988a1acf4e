package handler

import (
	"case-opening-platform/internal/adapter/http/middleware"
	"case-opening-platform/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxRequestBody = 1 << 20

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	OpeningSvc     ports.CaseOpeningService
	ProbabilitySvc ports.ProbabilityService
	CaseAdminSvc   ports.CaseAdminService
	PaymentSvc     ports.PaymentService
	AccountSvc     ports.AccountService
	TokenSvc       ports.TokenService
	Catalog        ports.Catalog
	RateLimitStore middleware.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	APIDocs        *APIDocs           // nil = no /swagger routes
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxRequestBody))

	// Health check (deep: PostgreSQL, Redis, NATS)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	if deps.APIDocs != nil {
		swagger := r.Group("/swagger")
		{
			swagger.GET("", deps.APIDocs.UI)
			swagger.GET("/spec", deps.APIDocs.Spec)
		}
	}

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	// --- Public routes (gateway callbacks and payer return) ---
	webhookHandler := NewWebhookHandler(deps.PaymentSvc, deps.Logger)
	webhooks := v1.Group("/webhooks", rl(middleware.GroupWebhooks))
	{
		webhooks.POST("/yookassa", webhookHandler.YooKassa)
		webhooks.POST("/exnode", webhookHandler.Exnode)
	}

	depositHandler := NewDepositHandler(deps.PaymentSvc)
	v1.GET("/payments/return", rl(middleware.GroupWebhooks), depositHandler.Return)

	// --- JWT-authenticated routes (players) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	caseHandler := NewCaseHandler(deps.OpeningSvc)
	cases := v1.Group("/cases", jwtAuth)
	{
		cases.POST("/:id/open", rl(middleware.GroupOpenCase), caseHandler.OpenCase)
	}

	deposits := v1.Group("/deposits", jwtAuth, rl(middleware.GroupDeposits))
	{
		deposits.POST("", depositHandler.CreateDeposit)
		deposits.GET("/:id/qr", depositHandler.QRCode)
	}

	accountHandler := NewAccountHandler(deps.AccountSvc)
	account := v1.Group("/account", jwtAuth)
	{
		account.GET("/balance", accountHandler.GetBalance)
		account.GET("/stats", accountHandler.GetStats)
	}

	// --- Admin routes ---
	adminMW := []gin.HandlerFunc{jwtAuth, middleware.RequireRole(ports.RoleAdmin), rl(middleware.GroupAdmin)}
	if deps.AuditSvc != nil {
		adminMW = append(adminMW, middleware.AuditLog(deps.AuditSvc))
	}
	adminHandler := NewAdminHandler(deps.ProbabilitySvc, deps.CaseAdminSvc, deps.PaymentSvc, deps.Catalog)
	admin := v1.Group("/admin", adminMW...)
	{
		admin.POST("/probabilities/preview", adminHandler.PreviewProbabilities)
		admin.PUT("/cases/:id/items", adminHandler.SetCaseItems)
		admin.GET("/payments/stats", adminHandler.PaymentStats)
		admin.POST("/catalog/reload", adminHandler.ReloadCatalog)
	}

	return r
}
