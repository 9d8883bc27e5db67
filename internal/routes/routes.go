package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"userdesk/internal/authz"
	"userdesk/internal/handlers"
	"userdesk/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	userHandler *handlers.UserHandler,
	adminHandler *handlers.AdminHandler,
	jwtSecret []byte,
	accounts middleware.AccountLookup,
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ---- public
	users := r.Group("/api/users")
	{
		users.POST("/register", userHandler.Register)
		users.POST("/signin", userHandler.SignIn)
		users.POST("/otp", userHandler.RequestOTP)
		users.PUT("/reset-password", userHandler.ResetPassword)
		users.POST("/description", userHandler.SubmitDescription)
	}

	// ---- admin (JWT + stored role/status)
	admin := r.Group("/api/admin",
		middleware.AuthMiddleware(jwtSecret),
		middleware.CurrentAccount(accounts),
		middleware.RequireRoles(authz.RoleAdmin),
	)
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/users/:id", adminHandler.GetUser)
		admin.PATCH("/users/:id/role", adminHandler.SetRole)
		admin.PATCH("/users/:id/status", adminHandler.SetStatus)
		admin.GET("/reports/users.pdf", adminHandler.UsersReport)
		admin.GET("/descriptions", adminHandler.ListDescriptions)
	}

	return r
}
