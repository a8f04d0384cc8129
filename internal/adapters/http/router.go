package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"products-service/internal/adapters/config"
	"products-service/internal/adapters/http/controllers"
	"products-service/internal/adapters/http/middleware"
)

type Router struct {
	healthController  *controllers.HealthController
	productController *controllers.ProductController
	rateLimiter       middleware.RateLimiter
}

func NewRouter(
	healthController *controllers.HealthController,
	productController *controllers.ProductController,
	rateLimiter middleware.RateLimiter,
) *Router {
	return &Router{
		healthController:  healthController,
		productController: productController,
		rateLimiter:       rateLimiter,
	}
}

func (r *Router) SetupRoutes(router *gin.Engine) {
	rl := r.rateLimiter

	apiGroup := router.Group("/api")
	v1Group := apiGroup.Group("/v1")
	{
		v1Group.Use(middleware.LogRequest())
		v1Group.GET("/health", r.healthController.Health)

		products := v1Group.Group("/products")
		{
			products.GET("", r.productController.GetAll)
			products.GET("/categories", r.productController.GetCategories)
			products.GET("/:id", r.productController.GetByID)
			products.POST("", middleware.RateLimit(rl, 30, 1*time.Minute), r.productController.CreateProduct)
			products.PUT("/:id", middleware.RateLimit(rl, 30, 1*time.Minute), r.productController.UpdateProduct)
			products.DELETE("/:id", middleware.RateLimit(rl, 30, 1*time.Minute), r.productController.DeleteProduct)
			products.PATCH("/:id/quantity/:delta", middleware.RateLimit(rl, 60, 1*time.Minute), r.productController.AdjustQuantity)
		}
	}
}

func (r *Router) ListenAndServe(ctx context.Context, config config.HTTPConfig) error {
	engine := gin.Default()
	r.SetupRoutes(engine)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", config.BindInterface, config.Port),
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
