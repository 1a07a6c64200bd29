package app

import (
	"skillup_backend/docs"
	"skillup_backend/internal/config"
	"skillup_backend/internal/middleware"
	"skillup_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 需要身份令牌的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.IdentityMiddleware(&cfg.Identity, s.learner))
	{
		a.registerLearnerRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", c.course.GetCourse)
	}

	// 证书验证对外公开，单独限流
	verify := router.Group("/api/verify")
	verify.Use(a.newLimiter(cfg.RateLimit.VerifyMaxRequests).Middleware())
	{
		verify.POST("", c.certificate.VerifyPayload)
		verify.GET("/:code", c.certificate.VerifyCode)
		verify.GET("/:code/qr", c.certificate.QRImage)
	}
}

func (a *App) registerLearnerRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/me", c.learner.GetMe)
	group.PUT("/me", c.learner.UpdateMe)

	group.GET("/enrollments", c.enrollment.ListEnrollments)
	group.GET("/certificates", c.certificate.ListMine)
	group.GET("/certificates/:id", c.certificate.GetByID)

	courses := group.Group("/courses/:id")
	{
		courses.POST("/enroll", c.enrollment.Enroll)
		courses.GET("/progress", c.enrollment.GetProgress)
		courses.POST("/lessons/:lesson/sub-lessons/:sub/complete", c.enrollment.CompleteSubLesson)
		courses.POST("/certificate", c.certificate.Issue)
		courses.GET("/certificate", c.certificate.GetMine)
	}
}
