package app

import (
	"hexaboard_backend/docs"
	"hexaboard_backend/internal/config"
	"hexaboard_backend/internal/middleware"
	"hexaboard_backend/internal/model"
	"hexaboard_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerFresherRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)
	}
}

// registerFresherRoutes covers the self-service surface: freshers reach only
// their own resources, admins reach anyone's.
func (a *App) registerFresherRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	freshers := rg.Group("/freshers/:id")
	freshers.Use(middleware.SelfOrAdmin("id"))
	{
		freshers.GET("/dashboard", c.fresher.Dashboard)
		freshers.GET("/courses", c.course.ListForFresher)
		freshers.GET("/courses/:courseId", c.course.Get)
		freshers.PATCH("/courses/:courseId/progress", c.course.AdvanceProgress)
		freshers.POST("/courses/:courseId/finish", c.course.Finish)
		freshers.GET("/tasks", c.course.Tasks)
		freshers.POST("/chat", c.chatbot.SendMessage)
		freshers.GET("/chat", c.chatbot.History)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/freshers", c.fresher.Provision)
		admin.POST("/freshers/bulk", c.fresher.BulkImport)
		admin.GET("/freshers", c.fresher.List)
		admin.GET("/freshers/:id", c.fresher.Get)
		admin.DELETE("/freshers/:id", c.fresher.Delete)
		admin.POST("/freshers/:id/reset-progress", c.fresher.ResetProgress)
		admin.DELETE("/freshers/:id/courses/:courseId", c.course.Delete)
		admin.GET("/freshers/:id/chat/analytics", c.chatbot.Analytics)

		admin.GET("/departments", c.department.List)
		admin.POST("/departments", c.department.Create)
		admin.GET("/departments/:id", c.department.Get)
		admin.DELETE("/departments/:id", c.department.Delete)
		admin.DELETE("/departments/:id/freshers/:fresherId", c.department.RemoveFresher)
		admin.POST("/departments/auto-assign", c.department.AutoAssign)

		admin.POST("/courses", c.course.AssignCourse)

		admin.GET("/stats", c.stats.Dashboard)
		admin.GET("/login-logs", c.stats.LoginLogs)
	}
}
