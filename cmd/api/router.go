package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	userModel "realestate-backend/internal/domains/user/model"
	"realestate-backend/internal/shared/middleware"
	"realestate-backend/pkg/container"
)

const loginPath = "/login"

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.CORSOrigins),
		middleware.ClientIPMiddleware(),
		gzip.Gzip(gzip.DefaultCompression),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupProfileRoutes(v1, c)
		setupPublicRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	setupBackOfficeRoutes(router, c)

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/refresh", c.UserHandler.Refresh)
		auth.POST("/logout", middleware.AuthMiddleware(c.JWTManager, c.Revocations), c.UserHandler.Logout)
	}
}

// ========================================
// PROFILE ROUTES
// ========================================
func setupProfileRoutes(v1 *gin.RouterGroup, c *container.Container) {
	me := v1.Group("/me")
	me.Use(middleware.AuthMiddleware(c.JWTManager, c.Revocations))
	{
		me.GET("", c.UserHandler.GetProfile)
		me.PUT("", c.UserHandler.UpdateProfile)
		me.PUT("/password", c.UserHandler.ChangePassword)
	}
}

// ========================================
// PUBLIC ROUTES
// ========================================
func setupPublicRoutes(v1 *gin.RouterGroup, c *container.Container) {
	public := v1.Group("/public")
	{
		public.POST("/inquiries",
			middleware.RateLimit(c.Cache, "inquiry", c.Config.RateLimit.InquiryLimit, c.Config.RateLimit.InquiryWindow),
			c.LeadHandler.SubmitInquiry,
		)
		public.GET("/blog", c.BlogHandler.ListPublished)
		public.GET("/blog/:slug", c.BlogHandler.GetBySlug)
	}
}

// ========================================
// ADMIN API ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager, c.Revocations))

	adminOnly := middleware.RequireRole(c.UserService, userModel.RoleAdmin)
	staff := middleware.RequireRole(c.UserService, userModel.RoleAdmin, userModel.RoleAgent)
	editors := middleware.RequireRole(c.UserService, userModel.RoleAdmin, userModel.RoleEditor)

	users := admin.Group("/users", adminOnly)
	{
		users.GET("", c.UserHandler.ListUsers)
		users.POST("", c.UserHandler.CreateUser)
		users.GET("/:id", c.UserHandler.GetUser)
		users.PUT("/:id/role", c.UserHandler.UpdateRole)
		users.PUT("/:id/status", c.UserHandler.UpdateStatus)
		users.POST("/:id/reset-password", c.UserHandler.ResetPassword)
		users.DELETE("/:id", c.UserHandler.DeleteUser)
	}

	leads := admin.Group("/leads", staff)
	{
		leads.GET("", c.LeadHandler.List)
		leads.POST("", c.LeadHandler.Create)
		leads.GET("/export", c.LeadHandler.Export)
		leads.POST("/import", c.LeadHandler.Import)
		leads.GET("/:id", c.LeadHandler.Get)
		leads.PUT("/:id", c.LeadHandler.Update)
		leads.PATCH("/:id", c.LeadHandler.Patch)
		leads.DELETE("/:id", c.LeadHandler.SoftDelete)
		leads.POST("/:id/restore", c.LeadHandler.Restore)
		leads.POST("/:id/convert", c.LeadHandler.Convert)
		leads.DELETE("/:id/purge", adminOnly, c.LeadHandler.Purge)
	}

	clients := admin.Group("/clients", staff)
	{
		clients.GET("", c.ClientHandler.List)
		clients.POST("", c.ClientHandler.Create)
		clients.GET("/export", c.ClientHandler.Export)
		clients.POST("/import", c.ClientHandler.Import)
		clients.GET("/:id", c.ClientHandler.Get)
		clients.PUT("/:id", c.ClientHandler.Update)
		clients.PATCH("/:id", c.ClientHandler.Patch)
		clients.DELETE("/:id", c.ClientHandler.SoftDelete)
		clients.POST("/:id/restore", c.ClientHandler.Restore)
		clients.DELETE("/:id/purge", adminOnly, c.ClientHandler.Purge)
	}

	posts := admin.Group("/blog/posts", editors)
	{
		posts.GET("", c.BlogHandler.List)
		posts.POST("", c.BlogHandler.Create)
		posts.GET("/:id", c.BlogHandler.Get)
		posts.PUT("/:id", c.BlogHandler.Update)
		posts.POST("/:id/publish", c.BlogHandler.Publish)
		posts.POST("/:id/unpublish", c.BlogHandler.Unpublish)
		posts.POST("/:id/cover", c.BlogHandler.UploadCover)
		posts.DELETE("/:id", c.BlogHandler.SoftDelete)
		posts.POST("/:id/restore", c.BlogHandler.Restore)
	}
}

// ========================================
// BACK-OFFICE ASSETS
// ========================================
func setupBackOfficeRoutes(router *gin.Engine, c *container.Container) {
	dir := c.Config.App.AdminStaticDir

	router.GET(loginPath, func(ctx *gin.Context) {
		ctx.File(filepath.Join(dir, "login.html"))
	})

	gate := middleware.AdminGate(c.JWTManager, c.Revocations, loginPath)
	router.GET("/admin", gate, adminAssetHandler(dir))
	router.GET("/admin/*filepath", gate, adminAssetHandler(dir))
}

// adminAssetHandler serves files of the built bundle and falls back to
// index.html so client-side routes resolve.
func adminAssetHandler(dir string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rel := path.Clean("/" + ctx.Param("filepath"))
		if rel != "/" {
			candidate := filepath.Join(dir, filepath.FromSlash(rel))
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				ctx.File(candidate)
				return
			}
		}
		ctx.File(filepath.Join(dir, "index.html"))
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis
		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "disconnected"
		} else if err := appCtx.Redis.HealthCheck(c.Request.Context()); err != nil {
			redisStatus = fmt.Sprintf("error: %v", err)
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
