package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/api/auditoria")
	{
		audit.GET("", middleware.RequireRole(middleware.AuditRead...), h.ListAuditLogs)
	}
}

// ListAuditLogs returns the change history, newest first
// @Summary      List audit trail
// @Tags         auditoria
// @Security     BearerAuth
// @Produce      json
// @Param        skip   query     int  false  "Rows to skip"
// @Param        limit  query     int  false  "Max rows to return"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/auditoria [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	logs, total, err := h.auditService.List(c.Request.Context(), p.Skip, p.Limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"registros": logs,
		"total":     total,
		"skip":      p.Skip,
		"limit":     p.Limit,
	}))
}
