package middleware

import "backend/internal/model"

// Role sets per operation. Declared once so role coverage is checkable in
// one place instead of inline literals at each route.
var (
	// AnyActive allows any authenticated active account.
	AnyActive = model.AllRoles

	// UsersManage: user administration.
	UsersManage = []string{model.RoleAdmin}
	// UsersList additionally covers reception so technicians can be picked
	// when creating orders.
	UsersList = []string{model.RoleAdmin, model.RoleRecepcion}

	// ClientesManage: client and branch directory.
	ClientesManage = []string{model.RoleAdmin, model.RoleRecepcion}

	// OrdenesRead: technicians are additionally scoped to their own orders
	// by the service layer.
	OrdenesRead   = []string{model.RoleAdmin, model.RoleRecepcion, model.RoleTecnico}
	OrdenesWrite  = []string{model.RoleAdmin, model.RoleRecepcion}
	OrdenesUpdate = []string{model.RoleAdmin, model.RoleRecepcion, model.RoleTecnico}
	OrdenesDelete = []string{model.RoleAdmin}

	// CategoriasManage: taxonomy administration.
	CategoriasManage = []string{model.RoleAdmin}

	// VacacionesDecide: approve or reject vacation requests.
	VacacionesDecide = []string{model.RoleAdmin, model.RoleJefeTaller}

	// IncidenciasManage: log, update, and delete HR incidents.
	IncidenciasManage = []string{model.RoleAdmin, model.RoleJefeTaller}

	// AuditRead: change-history listing.
	AuditRead = []string{model.RoleAdmin, model.RoleJefeTaller}
)
