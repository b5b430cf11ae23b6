package handlers

import (
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portssvc "github.com/acctcore/move_accounting_app/internal/core/ports/services"
	"github.com/acctcore/move_accounting_app/internal/middleware"
	"github.com/acctcore/move_accounting_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes, passing service interfaces
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Every v1 call is attributed to an actor for audit stamping.
	v1 := r.Group("/api/v1", middleware.RequireActor())

	registerMoveRoutes(v1, services)
	registerExchangeRateRoutes(v1, services.Currency)
	registerExampleRoutes(v1)
}

// registerCustomValidators hooks domain enum checks into gin's binding
// validator.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("functionalorigin", func(fl validator.FieldLevel) bool {
		switch domain.FunctionalOrigin(fl.Field().String()) {
		case domain.FunctionalOriginOpening,
			domain.FunctionalOriginClosure,
			domain.FunctionalOriginSale,
			domain.FunctionalOriginPurchase,
			domain.FunctionalOriginPayment,
			domain.FunctionalOriginFixedAsset,
			domain.FunctionalOriginCutOff:
			return true
		}
		return false
	})
}
