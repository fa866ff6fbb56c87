package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vidbrief/internal/domain/services"
	"vidbrief/internal/interfaces/http/middleware"
)

// HealthCheck probes one dependency. Name keys the status in the health
// response.
type HealthCheck func() error

// NewRouter assembles the HTTP surface. The webhook route stays outside the
// auth group: Stripe signs its own requests.
func NewRouter(
	jwtService services.JWTService,
	authHandler *AuthHandler,
	summaryHandler *SummaryHandler,
	billingHandler *BillingHandler,
	healthChecks map[string]HealthCheck,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger())

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		deps := gin.H{}
		for name, check := range healthChecks {
			if err := check(); err != nil {
				deps[name] = err.Error()
				status = http.StatusServiceUnavailable
			} else {
				deps[name] = "ok"
			}
		}
		c.JSON(status, gin.H{
			"status":       statusWord(status),
			"service":      "vidbrief",
			"dependencies": deps,
			"time":         time.Now().UTC(),
		})
	})

	router.POST("/api/auth/register", authHandler.Register)
	router.POST("/api/auth/login", authHandler.Login)
	router.POST("/api/billing/webhook", billingHandler.Webhook)

	api := router.Group("/api")
	api.Use(middleware.JWTAuth(jwtService))
	{
		api.POST("/summarize", summaryHandler.Summarize)
		api.GET("/usage", summaryHandler.Usage)
		api.POST("/billing/checkout", billingHandler.CreateCheckout)
	}

	return router
}

func statusWord(status int) string {
	if status == http.StatusOK {
		return "healthy"
	}
	return "degraded"
}
