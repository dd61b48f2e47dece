package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CategoriaHandler struct {
	categoriaService service.CategoriaService
}

func NewCategoriaHandler(categoriaService service.CategoriaService) *CategoriaHandler {
	return &CategoriaHandler{categoriaService: categoriaService}
}

func (h *CategoriaHandler) RegisterRoutes(router *gin.RouterGroup) {
	categorias := router.Group("/api/categorias")
	{
		// Any active user may browse the taxonomy when filling out orders.
		categorias.GET("", middleware.RequireRole(middleware.AnyActive...), h.ListCategorias)
		categorias.GET("/:id/subcategorias", middleware.RequireRole(middleware.AnyActive...), h.ListSubcategorias)

		categorias.POST("", middleware.RequireRole(middleware.CategoriasManage...), h.CreateCategoria)
		categorias.PUT("/:id", middleware.RequireRole(middleware.CategoriasManage...), h.UpdateCategoria)
		categorias.POST("/:id/subcategorias", middleware.RequireRole(middleware.CategoriasManage...), h.CreateSubcategoria)
	}
}

// CreateCategoria adds a new order category
// @Summary      Create category
// @Tags         categorias
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CategoriaInput  true  "Category payload"
// @Success      201      {object}  response.Response{data=model.CategoriaOrden}
// @Failure      409      {object}  response.Response
// @Router       /api/categorias [post]
func (h *CategoriaHandler) CreateCategoria(c *gin.Context) {
	var input service.CategoriaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	categoria, err := h.categoriaService.Create(c.Request.Context(), input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, categoria))
}

// ListCategorias returns the order categories
// @Summary      List categories
// @Tags         categorias
// @Security     BearerAuth
// @Produce      json
// @Param        activo  query     bool  false  "Filter by active flag"
// @Success      200     {object}  response.Response{data=[]model.CategoriaOrden}
// @Router       /api/categorias [get]
func (h *CategoriaHandler) ListCategorias(c *gin.Context) {
	categorias, err := h.categoriaService.List(c.Request.Context(), queryBool(c, "activo"))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, categorias))
}

// UpdateCategoria updates an order category
// @Summary      Update category
// @Tags         categorias
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Category ID"
// @Param        payload  body      service.CategoriaInput  true  "Category payload"
// @Success      200      {object}  response.Response{data=model.CategoriaOrden}
// @Failure      404      {object}  response.Response
// @Router       /api/categorias/{id} [put]
func (h *CategoriaHandler) UpdateCategoria(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.CategoriaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	categoria, err := h.categoriaService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, categoria))
}

// CreateSubcategoria adds a subcategory under a category
// @Summary      Create subcategory
// @Tags         categorias
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Category ID"
// @Param        payload  body      service.SubcategoriaInput  true  "Subcategory payload"
// @Success      201      {object}  response.Response{data=model.SubcategoriaOrden}
// @Failure      404      {object}  response.Response
// @Router       /api/categorias/{id}/subcategorias [post]
func (h *CategoriaHandler) CreateSubcategoria(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.SubcategoriaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	subcategoria, err := h.categoriaService.CreateSubcategoria(c.Request.Context(), id, input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, subcategoria))
}

// ListSubcategorias returns the subcategories of one category
// @Summary      List subcategories
// @Tags         categorias
// @Security     BearerAuth
// @Produce      json
// @Param        id      path      string  true   "Category ID"
// @Param        activo  query     bool    false  "Filter by active flag"
// @Success      200     {object}  response.Response{data=[]model.SubcategoriaOrden}
// @Router       /api/categorias/{id}/subcategorias [get]
func (h *CategoriaHandler) ListSubcategorias(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	subcategorias, err := h.categoriaService.ListSubcategorias(c.Request.Context(), id, queryBool(c, "activo"))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, subcategorias))
}
