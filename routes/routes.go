package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"balloonshop/controllers"
	"balloonshop/identity"
	"balloonshop/middleware"
)

func RegisterRoutes(r *gin.Engine, env *controllers.Env, resolver identity.Resolver, corsOrigins []string) {
	r.Use(cors.New(corsConfig(corsOrigins)))
	r.Use(middleware.Identity(resolver))

	api := r.Group("/api")
	{
		api.GET("/products", env.GetProducts)
		api.GET("/categories", env.GetCategories)
		api.POST("/contact", env.SubmitContact)

		shop := api.Group("/")
		shop.Use(middleware.CartSession())
		{
			shop.GET("/cart", env.GetCart)
			shop.POST("/cart/items", env.AddToCart)
			shop.PUT("/cart/items/:productId", env.UpdateCart)
			shop.DELETE("/cart", env.ClearCart)

			shop.POST("/checkout", env.Checkout)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AdminOnly())
		{
			admin.GET("/orders", env.GetOrdersAdmin)
			admin.GET("/orders/:id", env.GetOrderByIDAdmin)
			admin.PUT("/orders/:id/status", env.UpdateOrderStatus)
		}
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.CartHeader},
		ExposeHeaders: []string{middleware.CartHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
