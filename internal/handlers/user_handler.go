package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"userdesk/internal/middleware"
	"userdesk/internal/models"
	"userdesk/internal/services"
)

type UserHandler struct {
	auth         services.AuthService
	descriptions services.DescriptionService
	jwtSecret    []byte
	accessTTL    time.Duration
}

func NewUserHandler(auth services.AuthService, descriptions services.DescriptionService, jwtSecret []byte, accessTTL time.Duration) *UserHandler {
	return &UserHandler{
		auth:         auth,
		descriptions: descriptions,
		jwtSecret:    jwtSecret,
		accessTTL:    accessTTL,
	}
}

// @Summary      Регистрация
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      models.RegisterRequest  true  "Данные пользователя"
// @Success      201   {object}  models.User
// @Failure      400   {object}  map[string]string
// @Router       /api/users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, "Register", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// @Summary      Вход в систему
// @Description  Проверяет пароль и возвращает access token
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      models.LoginRequest  true  "Данные для входа"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/users/signin [post]
func (h *UserHandler) SignIn(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// одинаковый ответ, чтобы не раскрывать наличие email
		if errors.Is(err, services.ErrNotFound) {
			err = services.ErrInvalidCredentials
		}
		writeError(c, "SignIn", err)
		return
	}

	token, exp, err := middleware.IssueAccessToken(h.jwtSecret, identity.UserID, identity.Role, h.accessTTL)
	if err != nil {
		log.Printf("[auth][signin] sign access token failed for user_id=%d: %v", identity.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"user":         identity,
		"access_token": token,
		"expires_at":   exp.UTC().Format(time.RFC3339),
	})
}

// @Summary      Запросить код для сброса пароля
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      models.OTPRequest  true  "Email"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/users/otp [post]
func (h *UserHandler) RequestOTP(c *gin.Context) {
	var req models.OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.auth.RequestOTP(c.Request.Context(), req.Email); err != nil {
		writeError(c, "RequestOTP", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the email is registered, a code has been sent"})
}

// @Summary      Сброс пароля по коду
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      models.ResetPasswordRequest  true  "Email, код и новый пароль"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/users/reset-password [put]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		writeError(c, "ResetPassword", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// @Summary      Отправить форму описания
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      models.DescriptionRequest  true  "Форма"
// @Success      201   {string}  string  "ok"
// @Failure      400   {object}  map[string]string
// @Router       /api/users/description [post]
func (h *UserHandler) SubmitDescription(c *gin.Context) {
	var req models.DescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.descriptions.Submit(c.Request.Context(), req); err != nil {
		writeError(c, "SubmitDescription", err)
		return
	}
	c.JSON(http.StatusCreated, "ok")
}
