package http

import "github.com/labstack/echo/v4"

// Register вешает публичные, auth и админские маршруты на e.
func (r *Routers) Register(e *echo.Echo) {
	e.GET("/health", r.Health)
	e.GET("/sitemap.xml", r.Sitemap)

	api := e.Group("/api/v1")
	{
		api.GET("/categories", r.PublicCategories)
		api.GET("/categories/:slug", r.PublicCategory)
		api.GET("/creations", r.PublicCreations)
		api.GET("/creations/featured", r.FeaturedCreations)
		api.GET("/creations/latest", r.LatestCreations)
		api.GET("/creations/:slug", r.PublicCreation)
		api.POST("/contact", r.SubmitContact)

		auth := api.Group("/auth")
		{
			auth.POST("/login", r.Login)
			auth.POST("/refresh", r.Refresh)
			auth.POST("/logout", r.Logout)
		}
	}

	admin := e.Group("/admin", r.RequireOperator)
	{
		admin.GET("/categories", r.ListCategories)
		admin.POST("/categories", r.CreateCategory)
		admin.PUT("/categories/order", r.ReorderCategories)
		admin.GET("/categories/:id", r.GetCategory)
		admin.PUT("/categories/:id", r.UpdateCategory)
		admin.DELETE("/categories/:id", r.DeleteCategory)

		admin.GET("/creations", r.ListCreations)
		admin.POST("/creations", r.CreateCreation)
		admin.PUT("/creations/order", r.ReorderCreations)
		admin.GET("/creations/:id", r.GetCreation)
		admin.PUT("/creations/:id", r.UpdateCreation)
		admin.DELETE("/creations/:id", r.DeleteCreation)

		admin.POST("/creations/:id/images", r.AddImage)
		admin.PUT("/creations/:id/images/move", r.MoveImage)
		admin.DELETE("/creations/:id/images/:image_id", r.RemoveImage)
		admin.PUT("/creations/:id/images/:image_id/primary", r.SetPrimaryImage)

		admin.POST("/media", r.UploadMedia)
		admin.DELETE("/media", r.DeleteMedia)

		admin.GET("/messages", r.ListMessages)
		admin.PUT("/messages/:id/read", r.MarkMessageRead)
		admin.DELETE("/messages/:id", r.DeleteMessage)
	}
}
