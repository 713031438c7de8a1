package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"expense-tracker/internal/api/middleware"
	"expense-tracker/internal/model"
	"expense-tracker/internal/service"
)

// AuthController serves the registration, login, logout and index pages.
type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type pageData struct {
	Flashes []middleware.Flash
	Error   string
}

// ShowRegister renders the registration form.
func (ctrl *AuthController) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", pageData{
		Flashes: middleware.ConsumeFlashes(c),
	})
}

// Register handles the registration form submission.
func (ctrl *AuthController) Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.HTML(http.StatusBadRequest, "register.html", pageData{
			Error: "Username and password are required.",
		})
		return
	}

	err := ctrl.authService.Register(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.HTML(http.StatusOK, "register.html", pageData{
				Error: "Username already exists.",
			})
			return
		}
		slog.Error("register failed", "username", username, "err", err)
		c.HTML(http.StatusInternalServerError, "register.html", pageData{
			Error: "Something went wrong. Please try again.",
		})
		return
	}

	slog.Info("user registered", "username", username)
	middleware.AddFlash(c, middleware.FlashSuccess, "Registration successful. Please log in.")
	c.Redirect(http.StatusFound, "/login")
}

// ShowLogin renders the login form.
func (ctrl *AuthController) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", pageData{
		Flashes: middleware.ConsumeFlashes(c),
	})
}

// Login handles the login form submission. Unknown usernames and wrong
// passwords produce the same message.
func (ctrl *AuthController) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	user, err := ctrl.authService.Login(c.Request.Context(), username, password)
	if err != nil {
		slog.Warn("login failed", "username", username)
		c.HTML(http.StatusOK, "login.html", pageData{
			Error: "Invalid username or password.",
		})
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.UserIDKey, user.ID)
	if err := session.Save(); err != nil {
		slog.Error("session save failed", "err", err)
		c.HTML(http.StatusInternalServerError, "login.html", pageData{
			Error: "Something went wrong. Please try again.",
		})
		return
	}

	slog.Info("user logged in", "username", username)
	middleware.AddFlash(c, middleware.FlashSuccess, "Logged in successfully.")
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the session's user association. Logging out while not
// logged in is not a failure, but the route sits behind the session gate
// so that case redirects to the login page anyway.
func (ctrl *AuthController) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(middleware.UserIDKey)
	_ = session.Save()

	middleware.AddFlash(c, middleware.FlashInfo, "You have been logged out.")
	c.Redirect(http.StatusFound, "/login")
}

type indexData struct {
	Flashes    []middleware.Flash
	Username   string
	Categories []model.Category
}

// Index renders the expense dashboard shell: the logged-in username plus
// the category list the client-side UI needs.
func (ctrl *AuthController) Index(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	username := ""
	if user, err := ctrl.authService.GetUser(c.Request.Context(), userID); err == nil {
		username = user.Username
	}

	c.HTML(http.StatusOK, "index.html", indexData{
		Flashes:    middleware.ConsumeFlashes(c),
		Username:   username,
		Categories: model.Categories,
	})
}
