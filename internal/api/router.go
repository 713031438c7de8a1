package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"expense-tracker/internal/api/controller"
	"expense-tracker/internal/api/middleware"

	_ "expense-tracker/docs"
)

// RegisterRoutes wires every route. Registration, login, health and the
// swagger UI are public; everything else sits behind the session gate.
func RegisterRoutes(r *gin.Engine, authCtrl *controller.AuthController, expenseCtrl *controller.ExpenseController) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/register", authCtrl.ShowRegister)
	r.POST("/register", authCtrl.Register)
	r.GET("/login", authCtrl.ShowLogin)
	r.POST("/login", authCtrl.Login)

	protected := r.Group("/")
	protected.Use(middleware.RequireSession())
	{
		protected.GET("/", authCtrl.Index)
		protected.GET("/logout", authCtrl.Logout)

		protected.POST("/api/expenses", expenseCtrl.Create)
		protected.GET("/api/expenses", expenseCtrl.List)
		protected.PUT("/api/expenses/:id", expenseCtrl.Update)
		protected.DELETE("/api/expenses/:id", expenseCtrl.Delete)
	}
}
