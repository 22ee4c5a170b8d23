package router

import (
	"github.com/taomoai/tesa-PDA/internal/middleware"
	"github.com/taomoai/tesa-PDA/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.PUT("/:id", handler.UpdateUser, authRequired, middleware.SelfOrAdmin())
	users.GET("", handler.GetAllUsers, authRequired, adminOnly)
	users.GET("/:id", handler.GetUserByID, authRequired, middleware.SelfOrAdmin())
	users.DELETE("/:id", handler.DeleteUser, authRequired, adminOnly)
}

func SetupDesignRoutes(api *echo.Group, handler *rest.DesignHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	design := api.Group("/design")

	design.POST("/proposals", handler.Propose)
	design.POST("/optimize", handler.Optimize)

	design.GET("/runs", handler.ListRuns, authRequired)
	design.GET("/runs/:id", handler.GetRun, authRequired)

	design.GET("/config", handler.GetConfig, authRequired, adminOnly)
	design.PUT("/config", handler.UpsertConfig, authRequired, adminOnly)
	design.PUT("/models", handler.UpsertModel, authRequired, adminOnly)
}

func SetupSearchRoutes(api *echo.Group, handler *rest.SearchHandler) {
	searchGroup := api.Group("/search")
	searchGroup.POST("/products", handler.ExactSearch)
	searchGroup.POST("/products/approximate", handler.ApproximateSearch)

	products := api.Group("/products")
	products.GET("/item-names", handler.ListItemNames)
	products.GET("/:nart", handler.GetProductByNART)
}

func SetupMaterialRoutes(api *echo.Group, handler *rest.MaterialHandler) {
	materials := api.Group("/materials")

	materials.GET("", handler.GetAllMaterials)
	materials.GET("/:nart", handler.GetMaterialByNART)
}

func SetupExtractionRoutes(api *echo.Group, handler *rest.ExtractionHandler) {
	extraction := api.Group("/extraction")

	extraction.POST("/format", handler.FormatDocument)
}
