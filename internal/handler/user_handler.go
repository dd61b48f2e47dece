package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/api/usuarios")
	{
		users.POST("", middleware.RequireRole(middleware.UsersManage...), h.CreateUser)
		users.GET("", middleware.RequireRole(middleware.UsersList...), h.ListUsers)
		users.GET("/roles/list", middleware.RequireRole(middleware.UsersList...), h.ListRoles)
		users.GET("/:id", middleware.RequireRole(middleware.UsersList...), h.GetUser)
		users.PUT("/:id", middleware.RequireRole(middleware.UsersManage...), h.UpdateUser)
		users.DELETE("/:id", middleware.RequireRole(middleware.UsersManage...), h.DeleteUser)
	}
}

// CreateUser registers a new employee account
// @Summary      Create user
// @Description  Registers a new employee account
// @Tags         usuarios
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateUserInput  true  "User payload"
// @Success      201      {object}  response.Response{data=model.User}
// @Failure      409      {object}  response.Response
// @Router       /api/usuarios [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var input service.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	user, err := h.userService.Create(c.Request.Context(), input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// ListUsers returns a paginated list of employee accounts
// @Summary      List users
// @Tags         usuarios
// @Security     BearerAuth
// @Produce      json
// @Param        skip   query     int  false  "Rows to skip"
// @Param        limit  query     int  false  "Max rows to return"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/usuarios [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	p := pagination.Parse(c)

	users, total, err := h.userService.List(c.Request.Context(), p.Skip, p.Limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"usuarios": users,
		"total":    total,
		"skip":     p.Skip,
		"limit":    p.Limit,
	}))
}

// ListRoles returns the closed role enumeration
// @Summary      List roles
// @Tags         usuarios
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]string}
// @Router       /api/usuarios/roles/list [get]
func (h *UserHandler) ListRoles(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, model.AllRoles))
}

// GetUser returns one employee account by ID
// @Summary      Get user
// @Tags         usuarios
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=model.User}
// @Failure      404  {object}  response.Response
// @Router       /api/usuarios/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// UpdateUser updates an employee account
// @Summary      Update user
// @Tags         usuarios
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "User ID"
// @Param        payload  body      service.UpdateUserInput  true  "Fields to update"
// @Success      200      {object}  response.Response{data=model.User}
// @Failure      409      {object}  response.Response
// @Router       /api/usuarios/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// DeleteUser deactivates and soft-deletes an employee account
// @Summary      Delete user
// @Tags         usuarios
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/usuarios/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	if err := h.userService.Delete(c.Request.Context(), principal, id); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"mensaje": "Usuario eliminado"}))
}
