package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type IncidenciaHandler struct {
	incidenciaService service.IncidenciaService
}

func NewIncidenciaHandler(incidenciaService service.IncidenciaService) *IncidenciaHandler {
	return &IncidenciaHandler{incidenciaService: incidenciaService}
}

func (h *IncidenciaHandler) RegisterRoutes(router *gin.RouterGroup) {
	incidencias := router.Group("/api/incidencias")
	{
		// Reads are open to any active account; the service scopes regular
		// employees to their own record.
		incidencias.GET("", middleware.RequireRole(middleware.AnyActive...), h.ListIncidencias)
		incidencias.GET("/:id", middleware.RequireRole(middleware.AnyActive...), h.GetIncidencia)

		incidencias.POST("", middleware.RequireRole(middleware.IncidenciasManage...), h.CreateIncidencia)
		incidencias.PUT("/:id", middleware.RequireRole(middleware.IncidenciasManage...), h.UpdateIncidencia)
		incidencias.DELETE("/:id", middleware.RequireRole(middleware.IncidenciasManage...), h.DeleteIncidencia)
	}
}

// CreateIncidencia logs a new HR incident
// @Summary      Create incident
// @Tags         incidencias
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateIncidenciaInput  true  "Incident payload"
// @Success      201      {object}  response.Response{data=model.IncidenciaEmpleado}
// @Failure      422      {object}  response.Response
// @Router       /api/incidencias [post]
func (h *IncidenciaHandler) CreateIncidencia(c *gin.Context) {
	var input service.CreateIncidenciaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	incidencia, err := h.incidenciaService.Create(c.Request.Context(), principal, input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, incidencia))
}

// ListIncidencias returns a paginated, filterable list of HR incidents
// @Summary      List incidents
// @Tags         incidencias
// @Security     BearerAuth
// @Produce      json
// @Param        empleado_id           query     string  false  "Filter by employee"
// @Param        tipo                  query     string  false  "Filter by type"
// @Param        severidad             query     string  false  "Filter by severity"
// @Param        desde                 query     string  false  "Incident date lower bound (YYYY-MM-DD)"
// @Param        hasta                 query     string  false  "Incident date upper bound (YYYY-MM-DD)"
// @Param        requiere_seguimiento  query     bool    false  "Filter by follow-up flag"
// @Param        skip                  query     int     false  "Rows to skip"
// @Param        limit                 query     int     false  "Max rows to return"
// @Success      200                   {object}  response.Response{data=object}
// @Router       /api/incidencias [get]
func (h *IncidenciaHandler) ListIncidencias(c *gin.Context) {
	p := pagination.Parse(c)
	filter := repository.IncidenciaFilter{
		EmpleadoID:          queryUUID(c, "empleado_id"),
		Tipo:                c.Query("tipo"),
		Severidad:           c.Query("severidad"),
		FechaDesde:          queryDate(c, "desde"),
		FechaHasta:          queryDate(c, "hasta"),
		RequiereSeguimiento: queryBool(c, "requiere_seguimiento"),
		Skip:                p.Skip,
		Limit:               p.Limit,
	}

	principal, _ := middleware.GetPrincipal(c)
	incidencias, total, err := h.incidenciaService.List(c.Request.Context(), principal, filter)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"incidencias": incidencias,
		"total":       total,
		"skip":        p.Skip,
		"limit":       p.Limit,
	}))
}

// GetIncidencia returns one HR incident
// @Summary      Get incident
// @Tags         incidencias
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Incident ID"
// @Success      200  {object}  response.Response{data=model.IncidenciaEmpleado}
// @Failure      404  {object}  response.Response
// @Router       /api/incidencias/{id} [get]
func (h *IncidenciaHandler) GetIncidencia(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	incidencia, err := h.incidenciaService.GetByID(c.Request.Context(), principal, id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, incidencia))
}

// UpdateIncidencia updates an HR incident
// @Summary      Update incident
// @Tags         incidencias
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Incident ID"
// @Param        payload  body      service.UpdateIncidenciaInput  true  "Fields to update"
// @Success      200      {object}  response.Response{data=model.IncidenciaEmpleado}
// @Failure      404      {object}  response.Response
// @Router       /api/incidencias/{id} [put]
func (h *IncidenciaHandler) UpdateIncidencia(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.UpdateIncidenciaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	incidencia, err := h.incidenciaService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, incidencia))
}

// DeleteIncidencia removes an HR incident
// @Summary      Delete incident
// @Tags         incidencias
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Incident ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/incidencias/{id} [delete]
func (h *IncidenciaHandler) DeleteIncidencia(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.incidenciaService.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"mensaje": "Incidencia eliminada"}))
}
