package main

import (
	"html/template"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"expense-tracker/internal/api"
	"expense-tracker/internal/api/controller"
	"expense-tracker/internal/api/middleware"
	"expense-tracker/internal/config"
	"expense-tracker/internal/infrastructure/database"
	"expense-tracker/internal/repository"
	"expense-tracker/internal/service"
	"expense-tracker/web"
)

// @title           Expense Tracker API
// @version         1.0
// @description     Personal expense tracking with session-cookie authentication.

// @host            localhost:8080
// @BasePath        /

func main() {
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel(conf.Log.Level),
	}))
	slog.SetDefault(logger)

	db, err := database.NewSQLiteConnection(conf.Database.Path)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	slog.Info("database ready", "path", conf.Database.Path)

	if conf.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Layer wiring
	userRepo := repository.NewUserRepository(db)
	expenseRepo := repository.NewExpenseRepo(db)
	authSvc := service.NewAuthService(userRepo)
	expenseSvc := service.NewExpenseService(expenseRepo)
	authCtrl := controller.NewAuthController(authSvc)
	expenseCtrl := controller.NewExpenseController(expenseSvc)

	r := gin.Default()
	r.Use(middleware.Cors())

	store := cookie.NewStore([]byte(conf.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("session", store))

	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))

	api.RegisterRoutes(r, authCtrl, expenseCtrl)

	slog.Info("server starting", "port", conf.Server.Port)
	if err := r.Run(conf.Server.Port); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
