package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"userdesk/internal/models"
	"userdesk/internal/services"
)

type AdminHandler struct {
	admin        services.AdminService
	descriptions services.DescriptionService
}

func NewAdminHandler(admin services.AdminService, descriptions services.DescriptionService) *AdminHandler {
	return &AdminHandler{admin: admin, descriptions: descriptions}
}

// @Summary   Список пользователей
// @Tags      Admin
// @Produce   json
// @Security  BearerAuth
// @Param     page   query  int  false  "Страница"
// @Param     limit  query  int  false  "Размер страницы"
// @Success   200  {object}  map[string]interface{}
// @Router    /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset := pagination(c)
	users, total, err := h.admin.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, "ListUsers", err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total})
}

// @Summary   Пользователь по ID
// @Tags      Admin
// @Produce   json
// @Security  BearerAuth
// @Param     id  path  int  true  "ID"
// @Success   200  {object}  models.User
// @Failure   404  {object}  map[string]string
// @Router    /api/admin/users/{id} [get]
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	user, err := h.admin.GetUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, "GetUser", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary   Сменить роль
// @Tags      Admin
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path  int  true  "ID"
// @Param     body  body  object  true  "{\"role\":\"admin\"}"
// @Success   200  {object}  models.User
// @Router    /api/admin/users/{id}/role [patch]
func (h *AdminHandler) SetRole(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.admin.SetRole(c.Request.Context(), id, req.Role)
	if err != nil {
		writeError(c, "SetRole", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary   Сменить статус
// @Tags      Admin
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path  int  true  "ID"
// @Param     body  body  object  true  "{\"status\":\"inactive\"}"
// @Success   200  {object}  models.User
// @Router    /api/admin/users/{id}/status [patch]
func (h *AdminHandler) SetStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.admin.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeError(c, "SetStatus", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary   PDF со списком пользователей
// @Tags      Admin
// @Produce   application/pdf
// @Security  BearerAuth
// @Success   200  {file}  file
// @Router    /api/admin/reports/users.pdf [get]
func (h *AdminHandler) UsersReport(c *gin.Context) {
	data, err := h.admin.UsersReport(c.Request.Context())
	if err != nil {
		writeError(c, "UsersReport", err)
		return
	}
	filename := fmt.Sprintf("users_%s.pdf", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// @Summary   Заявки из формы описания
// @Tags      Admin
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}  models.Description
// @Router    /api/admin/descriptions [get]
func (h *AdminHandler) ListDescriptions(c *gin.Context) {
	limit, offset := pagination(c)
	items, err := h.descriptions.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, "ListDescriptions", err)
		return
	}
	if items == nil {
		items = []*models.Description{}
	}
	c.JSON(http.StatusOK, items)
}
