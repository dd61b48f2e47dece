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

type VacacionesHandler struct {
	vacacionesService service.VacacionesService
}

func NewVacacionesHandler(vacacionesService service.VacacionesService) *VacacionesHandler {
	return &VacacionesHandler{vacacionesService: vacacionesService}
}

func (h *VacacionesHandler) RegisterRoutes(router *gin.RouterGroup) {
	vacaciones := router.Group("/api/vacaciones")
	{
		vacaciones.GET("/mis-vacaciones", middleware.RequireRole(middleware.AnyActive...), h.MiResumen)
		vacaciones.GET("/resumen/:empleadoId", middleware.RequireRole(middleware.AnyActive...), h.Resumen)

		vacaciones.POST("/solicitudes", middleware.RequireRole(middleware.AnyActive...), h.CreateSolicitud)
		vacaciones.GET("/solicitudes", middleware.RequireRole(middleware.AnyActive...), h.ListSolicitudes)
		vacaciones.GET("/solicitudes/:id", middleware.RequireRole(middleware.AnyActive...), h.GetSolicitud)
		vacaciones.PUT("/solicitudes/:id", middleware.RequireRole(middleware.AnyActive...), h.UpdateSolicitud)
		vacaciones.GET("/solicitudes/:id/pdf", middleware.RequireRole(middleware.AnyActive...), h.DescargarPDF)
		vacaciones.DELETE("/solicitudes/:id", middleware.RequireRole(middleware.AnyActive...), h.DeleteSolicitud)

		vacaciones.PUT("/solicitudes/:id/aprobar", middleware.RequireRole(middleware.VacacionesDecide...), h.AprobarSolicitud)
		vacaciones.PUT("/solicitudes/:id/rechazar", middleware.RequireRole(middleware.VacacionesDecide...), h.RechazarSolicitud)
	}
}

type rechazarRequest struct {
	Motivo string `json:"motivo" binding:"required"`
}

// MiResumen returns the caller's own vacation balance
// @Summary      Own vacation balance
// @Tags         vacaciones
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.VacacionesResumen}
// @Router       /api/vacaciones/mis-vacaciones [get]
func (h *VacacionesHandler) MiResumen(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	resumen, err := h.vacacionesService.Resumen(c.Request.Context(), principal.ID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, resumen))
}

// Resumen returns the derived vacation balance for one employee
// @Summary      Vacation balance
// @Description  Re-derives entitlement, carry-over and available days from tenure
// @Tags         vacaciones
// @Security     BearerAuth
// @Produce      json
// @Param        empleadoId  path      string  true  "Employee ID"
// @Success      200         {object}  response.Response{data=service.VacacionesResumen}
// @Failure      404         {object}  response.Response
// @Router       /api/vacaciones/resumen/{empleadoId} [get]
func (h *VacacionesHandler) Resumen(c *gin.Context) {
	empleadoID, ok := parseIDParam(c, "empleadoId")
	if !ok {
		return
	}

	resumen, err := h.vacacionesService.Resumen(c.Request.Context(), empleadoID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, resumen))
}

// CreateSolicitud submits a vacation request
// @Summary      Create vacation request
// @Description  Validates the balance and dates, stores the request and generates the printable form
// @Tags         vacaciones
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSolicitudInput  true  "Request payload"
// @Success      201      {object}  response.Response{data=model.SolicitudVacaciones}
// @Failure      422      {object}  response.Response
// @Router       /api/vacaciones/solicitudes [post]
func (h *VacacionesHandler) CreateSolicitud(c *gin.Context) {
	var input service.CreateSolicitudInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	solicitud, err := h.vacacionesService.Create(c.Request.Context(), principal, input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, solicitud))
}

// ListSolicitudes returns a paginated list of vacation requests
// @Summary      List vacation requests
// @Description  Regular employees only see their own requests
// @Tags         vacaciones
// @Security     BearerAuth
// @Produce      json
// @Param        empleado_id  query     string  false  "Filter by employee (managers only)"
// @Param        estado       query     string  false  "Filter by state"
// @Param        desde        query     string  false  "Start date lower bound (YYYY-MM-DD)"
// @Param        hasta        query     string  false  "End date upper bound (YYYY-MM-DD)"
// @Param        skip         query     int     false  "Rows to skip"
// @Param        limit        query     int     false  "Max rows to return"
// @Success      200          {object}  response.Response{data=object}
// @Router       /api/vacaciones/solicitudes [get]
func (h *VacacionesHandler) ListSolicitudes(c *gin.Context) {
	p := pagination.Parse(c)
	filter := repository.SolicitudFilter{
		EmpleadoID: queryUUID(c, "empleado_id"),
		Estado:     c.Query("estado"),
		FechaDesde: queryDate(c, "desde"),
		FechaHasta: queryDate(c, "hasta"),
		Skip:       p.Skip,
		Limit:      p.Limit,
	}

	principal, _ := middleware.GetPrincipal(c)
	solicitudes, total, err := h.vacacionesService.List(c.Request.Context(), principal, filter)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"solicitudes": solicitudes,
		"total":       total,
		"skip":        p.Skip,
		"limit":       p.Limit,
	}))
}

// GetSolicitud returns one vacation request
// @Summary      Get vacation request
// @Tags         vacaciones
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=model.SolicitudVacaciones}
// @Failure      404  {object}  response.Response
// @Router       /api/vacaciones/solicitudes/{id} [get]
func (h *VacacionesHandler) GetSolicitud(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	solicitud, err := h.vacacionesService.GetByID(c.Request.Context(), principal, id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, solicitud))
}

// UpdateSolicitud edits a pending vacation request
// @Summary      Update vacation request
// @Description  Only the requesting employee may edit, and only while pending
// @Tags         vacaciones
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Request ID"
// @Param        payload  body      service.UpdateSolicitudInput  true  "Fields to update"
// @Success      200      {object}  response.Response{data=model.SolicitudVacaciones}
// @Failure      409      {object}  response.Response
// @Router       /api/vacaciones/solicitudes/{id} [put]
func (h *VacacionesHandler) UpdateSolicitud(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.UpdateSolicitudInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	solicitud, err := h.vacacionesService.Update(c.Request.Context(), principal, id, input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, solicitud))
}

// DescargarPDF streams the printable request form
// @Summary      Download request PDF
// @Tags         vacaciones
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id  path  string  true  "Request ID"
// @Success      200
// @Failure      404  {object}  response.Response
// @Router       /api/vacaciones/solicitudes/{id}/pdf [get]
func (h *VacacionesHandler) DescargarPDF(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	contenido, nombre, err := h.vacacionesService.GenerarPDF(c.Request.Context(), principal, id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+nombre)
	c.Data(http.StatusOK, "application/pdf", contenido)
}

// AprobarSolicitud approves a pending vacation request
// @Summary      Approve vacation request
// @Description  Grants the request and debits the employee's day counter atomically
// @Tags         vacaciones
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=model.SolicitudVacaciones}
// @Failure      409  {object}  response.Response
// @Router       /api/vacaciones/solicitudes/{id}/aprobar [put]
func (h *VacacionesHandler) AprobarSolicitud(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	solicitud, err := h.vacacionesService.Aprobar(c.Request.Context(), principal, id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, solicitud))
}

// RechazarSolicitud rejects a pending vacation request
// @Summary      Reject vacation request
// @Tags         vacaciones
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string           true  "Request ID"
// @Param        payload  body      rechazarRequest  true  "Rejection reason"
// @Success      200      {object}  response.Response{data=model.SolicitudVacaciones}
// @Failure      409      {object}  response.Response
// @Router       /api/vacaciones/solicitudes/{id}/rechazar [put]
func (h *VacacionesHandler) RechazarSolicitud(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req rechazarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "El motivo de rechazo es obligatorio")
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	solicitud, err := h.vacacionesService.Rechazar(c.Request.Context(), principal, id, req.Motivo)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, solicitud))
}

// DeleteSolicitud removes a pending or rejected vacation request
// @Summary      Delete vacation request
// @Tags         vacaciones
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/vacaciones/solicitudes/{id} [delete]
func (h *VacacionesHandler) DeleteSolicitud(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	if err := h.vacacionesService.Delete(c.Request.Context(), principal, id); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"mensaje": "Solicitud eliminada"}))
}
