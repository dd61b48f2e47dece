package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/login-codigo", h.LoginCodigo)
		auth.GET("/me", middleware.RequireRole(middleware.AnyActive...), h.Me)
	}
}

// loginRequest binds both JSON and form-encoded bodies, so SPA and plain
// HTML-form clients hit the same endpoint.
type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type loginCodigoRequest struct {
	Codigo string `json:"codigo" form:"codigo" binding:"required"`
}

// Login authenticates by username and password
// @Summary      Login
// @Description  Authenticates an employee by username and password, returns a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      loginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=service.LoginResult}
// @Failure      401      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "Datos de acceso incompletos")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// LoginCodigo authenticates a technician by 4-digit code
// @Summary      Technician login
// @Description  Authenticates a technician by their 4-digit code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      loginCodigoRequest  true  "Code"
// @Success      200      {object}  response.Response{data=service.LoginResult}
// @Failure      401      {object}  response.Response
// @Router       /api/auth/login-codigo [post]
func (h *AuthHandler) LoginCodigo(c *gin.Context) {
	var req loginCodigoRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "Datos de acceso incompletos")
		return
	}

	result, err := h.authService.LoginCodigo(c.Request.Context(), req.Codigo)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Me returns the authenticated principal
// @Summary      Current user
// @Description  Returns the profile of the authenticated user
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.User}
// @Failure      401  {object}  response.Response
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "No autenticado"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, principal))
}
