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

type ClienteHandler struct {
	clienteService service.ClienteService
}

func NewClienteHandler(clienteService service.ClienteService) *ClienteHandler {
	return &ClienteHandler{clienteService: clienteService}
}

func (h *ClienteHandler) RegisterRoutes(router *gin.RouterGroup) {
	clientes := router.Group("/api/clientes", middleware.RequireRole(middleware.ClientesManage...))
	{
		clientes.POST("", h.CreateCliente)
		clientes.GET("", h.ListClientes)
		clientes.GET("/:id", h.GetCliente)
		clientes.PUT("/:id", h.UpdateCliente)
		clientes.DELETE("/:id", h.DeactivateCliente)
		clientes.PUT("/:id/reactivar", h.ReactivateCliente)

		clientes.POST("/:id/sucursales", h.CreateSucursal)
		clientes.GET("/:id/sucursales", h.ListSucursales)
		clientes.PUT("/:id/sucursales/:sucursalId", h.UpdateSucursal)
		clientes.DELETE("/:id/sucursales/:sucursalId", h.DeleteSucursal)
	}
}

// CreateCliente registers a new customer
// @Summary      Create client
// @Tags         clientes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateClienteInput  true  "Client payload"
// @Success      201      {object}  response.Response{data=model.Cliente}
// @Failure      409      {object}  response.Response
// @Router       /api/clientes [post]
func (h *ClienteHandler) CreateCliente(c *gin.Context) {
	var input service.CreateClienteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	cliente, err := h.clienteService.Create(c.Request.Context(), input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, cliente))
}

// ListClientes returns a paginated, searchable list of customers
// @Summary      List clients
// @Tags         clientes
// @Security     BearerAuth
// @Produce      json
// @Param        buscar  query     string  false  "Free-text search over name, RFC, phone and email"
// @Param        activo  query     bool    false  "Filter by active flag"
// @Param        skip    query     int     false  "Rows to skip"
// @Param        limit   query     int     false  "Max rows to return"
// @Success      200     {object}  response.Response{data=object}
// @Router       /api/clientes [get]
func (h *ClienteHandler) ListClientes(c *gin.Context) {
	p := pagination.Parse(c)
	filter := repository.ClienteFilter{
		Buscar: c.Query("buscar"),
		Activo: queryBool(c, "activo"),
		Skip:   p.Skip,
		Limit:  p.Limit,
	}

	clientes, total, err := h.clienteService.List(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"clientes": clientes,
		"total":    total,
		"skip":     p.Skip,
		"limit":    p.Limit,
	}))
}

// GetCliente returns one customer with branches
// @Summary      Get client
// @Tags         clientes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  response.Response{data=model.Cliente}
// @Failure      404  {object}  response.Response
// @Router       /api/clientes/{id} [get]
func (h *ClienteHandler) GetCliente(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cliente, err := h.clienteService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, cliente))
}

// UpdateCliente updates a customer
// @Summary      Update client
// @Tags         clientes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Client ID"
// @Param        payload  body      service.UpdateClienteInput  true  "Fields to update"
// @Success      200      {object}  response.Response{data=model.Cliente}
// @Failure      409      {object}  response.Response
// @Router       /api/clientes/{id} [put]
func (h *ClienteHandler) UpdateCliente(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.UpdateClienteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	cliente, err := h.clienteService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, cliente))
}

// DeactivateCliente marks a customer inactive; clients are never hard-deleted
// @Summary      Deactivate client
// @Tags         clientes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/clientes/{id} [delete]
func (h *ClienteHandler) DeactivateCliente(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.clienteService.Deactivate(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"mensaje": "Cliente desactivado"}))
}

// ReactivateCliente marks a previously deactivated customer active again
// @Summary      Reactivate client
// @Tags         clientes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  response.Response{data=model.Cliente}
// @Failure      404  {object}  response.Response
// @Router       /api/clientes/{id}/reactivar [put]
func (h *ClienteHandler) ReactivateCliente(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cliente, err := h.clienteService.Reactivate(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, cliente))
}

// CreateSucursal adds a branch to a customer
// @Summary      Create branch
// @Tags         clientes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Client ID"
// @Param        payload  body      service.SucursalInput  true  "Branch payload"
// @Success      201      {object}  response.Response{data=model.Sucursal}
// @Failure      404      {object}  response.Response
// @Router       /api/clientes/{id}/sucursales [post]
func (h *ClienteHandler) CreateSucursal(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.SucursalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	sucursal, err := h.clienteService.CreateSucursal(c.Request.Context(), id, input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sucursal))
}

// ListSucursales returns the customer's branches
// @Summary      List branches
// @Tags         clientes
// @Security     BearerAuth
// @Produce      json
// @Param        id      path      string  true   "Client ID"
// @Param        activo  query     bool    false  "Filter by active flag"
// @Success      200     {object}  response.Response{data=[]model.Sucursal}
// @Failure      404     {object}  response.Response
// @Router       /api/clientes/{id}/sucursales [get]
func (h *ClienteHandler) ListSucursales(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sucursales, err := h.clienteService.ListSucursales(c.Request.Context(), id, queryBool(c, "activo"))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, sucursales))
}

// UpdateSucursal updates one branch of a customer
// @Summary      Update branch
// @Tags         clientes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id          path      string                 true  "Client ID"
// @Param        sucursalId  path      string                 true  "Branch ID"
// @Param        payload     body      service.SucursalInput  true  "Branch payload"
// @Success      200         {object}  response.Response{data=model.Sucursal}
// @Failure      404         {object}  response.Response
// @Router       /api/clientes/{id}/sucursales/{sucursalId} [put]
func (h *ClienteHandler) UpdateSucursal(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	sucursalID, ok := parseIDParam(c, "sucursalId")
	if !ok {
		return
	}

	var input service.SucursalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Datos inválidos: "+err.Error())
		return
	}

	sucursal, err := h.clienteService.UpdateSucursal(c.Request.Context(), id, sucursalID, input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, sucursal))
}

// DeleteSucursal removes a branch permanently
// @Summary      Delete branch
// @Tags         clientes
// @Security     BearerAuth
// @Produce      json
// @Param        id          path      string  true  "Client ID"
// @Param        sucursalId  path      string  true  "Branch ID"
// @Success      200         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Router       /api/clientes/{id}/sucursales/{sucursalId} [delete]
func (h *ClienteHandler) DeleteSucursal(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	sucursalID, ok := parseIDParam(c, "sucursalId")
	if !ok {
		return
	}

	if err := h.clienteService.DeleteSucursal(c.Request.Context(), id, sucursalID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"mensaje": "Sucursal eliminada"}))
}
