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

type OrdenHandler struct {
	ordenService service.OrdenService
}

func NewOrdenHandler(ordenService service.OrdenService) *OrdenHandler {
	return &OrdenHandler{ordenService: ordenService}
}

func (h *OrdenHandler) RegisterRoutes(router *gin.RouterGroup) {
	ordenes := router.Group("/api/ordenes")
	{
		ordenes.POST("", middleware.RequireRole(middleware.OrdenesWrite...), h.CreateOrden)
		ordenes.GET("", middleware.RequireRole(middleware.OrdenesRead...), h.ListOrdenes)
		ordenes.GET("/:id", middleware.RequireRole(middleware.OrdenesRead...), h.GetOrden)
		ordenes.PUT("/:id", middleware.RequireRole(middleware.OrdenesUpdate...), h.UpdateOrden)
		ordenes.PUT("/:id/estado", middleware.RequireRole(middleware.OrdenesUpdate...), h.CambiarEstado)
		ordenes.DELETE("/:id", middleware.RequireRole(middleware.OrdenesDelete...), h.DeleteOrden)

		ordenes.POST("/:id/subtareas", middleware.RequireRole(middleware.OrdenesUpdate...), h.CreateSubtarea)
		ordenes.PUT("/:id/subtareas/:subtareaId", middleware.RequireRole(middleware.OrdenesUpdate...), h.UpdateSubtarea)
		ordenes.DELETE("/:id/subtareas/:subtareaId", middleware.RequireRole(middleware.OrdenesUpdate...), h.DeleteSubtarea)

		ordenes.POST("/:id/fotos", middleware.RequireRole(middleware.OrdenesUpdate...), h.SubirFoto)
	}
}

type cambiarEstadoRequest struct {
	Estado string `json:"estado" binding:"required"`
	Nota   string `json:"nota"`
}

// CreateOrden receives a new work order and assigns its folio
// @Summary      Create work order
// @Description  Registers a received unit and assigns the next folio of the year
// @Tags         ordenes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateOrdenInput  true  "Order payload"
// @Success      201      {object}  response.Response{data=model.OrdenTrabajo}
// @Failure      409      {object}  response.Response
// @Router       /api/ordenes [post]
func (h *OrdenHandler) CreateOrden(c *gin.Context) {
	var input service.CreateOrdenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	orden, err := h.ordenService.Create(c.Request.Context(), principal, input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, orden))
}

// ListOrdenes returns a paginated, filterable list of work orders
// @Summary      List work orders
// @Description  Technicians only see orders assigned to them
// @Tags         ordenes
// @Security     BearerAuth
// @Produce      json
// @Param        estatus       query     string  false  "Filter by status"
// @Param        cliente_id    query     string  false  "Filter by client"
// @Param        tecnico_id    query     string  false  "Filter by assigned technician"
// @Param        categoria_id  query     string  false  "Filter by category"
// @Param        prioridad     query     string  false  "Filter by priority"
// @Param        buscar        query     string  false  "Free-text search over folio, description and client name"
// @Param        skip          query     int     false  "Rows to skip"
// @Param        limit         query     int     false  "Max rows to return"
// @Success      200           {object}  response.Response{data=object}
// @Router       /api/ordenes [get]
func (h *OrdenHandler) ListOrdenes(c *gin.Context) {
	p := pagination.Parse(c)
	filter := repository.OrdenFilter{
		Estatus:     c.Query("estatus"),
		ClienteID:   queryUUID(c, "cliente_id"),
		TecnicoID:   queryUUID(c, "tecnico_id"),
		CategoriaID: queryUUID(c, "categoria_id"),
		Prioridad:   c.Query("prioridad"),
		Search:      c.Query("buscar"),
		Skip:        p.Skip,
		Limit:       p.Limit,
	}

	principal, _ := middleware.GetPrincipal(c)
	ordenes, total, err := h.ordenService.List(c.Request.Context(), principal, filter)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"ordenes": ordenes,
		"total":   total,
		"skip":    p.Skip,
		"limit":   p.Limit,
	}))
}

// GetOrden returns one work order with subtasks and photos
// @Summary      Get work order
// @Tags         ordenes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=model.OrdenTrabajo}
// @Failure      404  {object}  response.Response
// @Router       /api/ordenes/{id} [get]
func (h *OrdenHandler) GetOrden(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	orden, err := h.ordenService.GetByID(c.Request.Context(), principal, id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, orden))
}

// UpdateOrden updates a work order
// @Summary      Update work order
// @Description  Technicians may only change description, observations and status
// @Tags         ordenes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Order ID"
// @Param        payload  body      service.UpdateOrdenInput  true  "Fields to update"
// @Success      200      {object}  response.Response{data=model.OrdenTrabajo}
// @Failure      403      {object}  response.Response
// @Router       /api/ordenes/{id} [put]
func (h *OrdenHandler) UpdateOrden(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.UpdateOrdenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	orden, err := h.ordenService.Update(c.Request.Context(), principal, id, input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, orden))
}

// CambiarEstado moves a work order to a new status
// @Summary      Change order status
// @Description  Sets the new status, stamps milestone dates on first reach and logs the optional note
// @Tags         ordenes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Order ID"
// @Param        payload  body      cambiarEstadoRequest  true  "New status and optional note"
// @Success      200      {object}  response.Response{data=model.OrdenTrabajo}
// @Failure      422      {object}  response.Response
// @Router       /api/ordenes/{id}/estado [put]
func (h *OrdenHandler) CambiarEstado(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req cambiarEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	orden, err := h.ordenService.CambiarEstado(c.Request.Context(), principal, id, req.Estado, req.Nota)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, orden))
}

// DeleteOrden removes a freshly received order
// @Summary      Delete work order
// @Description  Only orders still in RECIBIDO can be deleted
// @Tags         ordenes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/ordenes/{id} [delete]
func (h *OrdenHandler) DeleteOrden(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	if err := h.ordenService.Delete(c.Request.Context(), principal, id); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"mensaje": "Orden eliminada"}))
}

// CreateSubtarea adds a subtask to a work order
// @Summary      Create subtask
// @Tags         ordenes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Order ID"
// @Param        payload  body      service.SubtareaInput  true  "Subtask payload"
// @Success      201      {object}  response.Response{data=model.SubtareaOrden}
// @Failure      404      {object}  response.Response
// @Router       /api/ordenes/{id}/subtareas [post]
func (h *OrdenHandler) CreateSubtarea(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.SubtareaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	subtarea, err := h.ordenService.CreateSubtarea(c.Request.Context(), principal, id, input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, subtarea))
}

// UpdateSubtarea updates one subtask of a work order
// @Summary      Update subtask
// @Tags         ordenes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id          path      string                       true  "Order ID"
// @Param        subtareaId  path      string                       true  "Subtask ID"
// @Param        payload     body      service.UpdateSubtareaInput  true  "Fields to update"
// @Success      200         {object}  response.Response{data=model.SubtareaOrden}
// @Failure      404         {object}  response.Response
// @Router       /api/ordenes/{id}/subtareas/{subtareaId} [put]
func (h *OrdenHandler) UpdateSubtarea(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	subtareaID, ok := parseIDParam(c, "subtareaId")
	if !ok {
		return
	}

	var input service.UpdateSubtareaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	subtarea, err := h.ordenService.UpdateSubtarea(c.Request.Context(), principal, id, subtareaID, input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, subtarea))
}

// DeleteSubtarea removes a subtask from a work order
// @Summary      Delete subtask
// @Tags         ordenes
// @Security     BearerAuth
// @Produce      json
// @Param        id          path      string  true  "Order ID"
// @Param        subtareaId  path      string  true  "Subtask ID"
// @Success      200         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Router       /api/ordenes/{id}/subtareas/{subtareaId} [delete]
func (h *OrdenHandler) DeleteSubtarea(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	subtareaID, ok := parseIDParam(c, "subtareaId")
	if !ok {
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	if err := h.ordenService.DeleteSubtarea(c.Request.Context(), principal, id, subtareaID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"mensaje": "Subtarea eliminada"}))
}

// SubirFoto uploads photo evidence for a work order
// @Summary      Upload order photo
// @Description  Entry photos accumulate as history; the exit photo is a single overwritable slot
// @Tags         ordenes
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Order ID"
// @Param        tipo  formData  string  true  "Photo kind: entrada or salida"
// @Param        foto  formData  file    true  "Image file"
// @Success      200   {object}  response.Response{data=model.OrdenTrabajo}
// @Failure      422   {object}  response.Response
// @Router       /api/ordenes/{id}/fotos [post]
func (h *OrdenHandler) SubirFoto(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// The kind discriminator may come as a query param or a form field.
	tipo := c.Query("tipo")
	if tipo == "" {
		tipo = c.PostForm("tipo")
	}
	fileHeader, err := c.FormFile("foto")
	if err != nil {
		respondBadRequest(c, "Falta el archivo de foto")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondBadRequest(c, "No se pudo leer el archivo")
		return
	}
	defer file.Close()

	principal, _ := middleware.GetPrincipal(c)
	orden, err := h.ordenService.SubirFoto(c.Request.Context(), principal, id, tipo, fileHeader.Filename, file)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, orden))
}
