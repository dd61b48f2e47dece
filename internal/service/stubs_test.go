package service

import (
	"context"
	"strconv"
	"strings"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository stubs. They keep just enough behavior for service
// tests: lookups return gorm.ErrRecordNotFound like the real layer so the
// services' error translation stays on the same code path.

type memTx struct{}

func (memTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type memUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newMemUserRepo(users ...*model.User) *memUserRepo {
	r := &memUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) GetByCodigo(_ context.Context, codigo string) (*model.User, error) {
	for _, u := range r.users {
		if u.Codigo != nil && *u.Codigo == codigo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) CodigoEnUso(_ context.Context, codigo string, excludeID uuid.UUID) (bool, error) {
	for _, u := range r.users {
		if u.ID != excludeID && u.Codigo != nil && *u.Codigo == codigo {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) List(_ context.Context, skip, limit int) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) Update(_ context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) CountActiveAdmins(_ context.Context) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Rol == model.RoleAdmin && u.Activo {
			n++
		}
	}
	return n, nil
}

type memClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newMemClienteRepo(clientes ...*model.Cliente) *memClienteRepo {
	r := &memClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
	for _, c := range clientes {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.clientes[c.ID] = c
	}
	return r
}

func (r *memClienteRepo) Create(_ context.Context, cliente *model.Cliente) error {
	if cliente.ID == uuid.Nil {
		cliente.ID = uuid.New()
	}
	r.clientes[cliente.ID] = cliente
	return nil
}

func (r *memClienteRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	if c, ok := r.clientes[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memClienteRepo) List(_ context.Context, filter repository.ClienteFilter) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if filter.Activo != nil && c.Activo != *filter.Activo {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *memClienteRepo) Update(_ context.Context, cliente *model.Cliente) error {
	r.clientes[cliente.ID] = cliente
	return nil
}

func (r *memClienteRepo) RFCEnUso(_ context.Context, rfc string, excludeID uuid.UUID) (bool, error) {
	for _, c := range r.clientes {
		if c.ID != excludeID && c.RFC != nil && *c.RFC == rfc {
			return true, nil
		}
	}
	return false, nil
}

func (r *memClienteRepo) EmailEnUso(_ context.Context, email string, excludeID uuid.UUID) (bool, error) {
	for _, c := range r.clientes {
		if c.ID != excludeID && c.Email != nil && *c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type memOrdenRepo struct {
	ordenes   map[uuid.UUID]*model.OrdenTrabajo
	subtareas map[uuid.UUID]*model.SubtareaOrden
	fotos     []*model.FotoOrden
}

func newMemOrdenRepo() *memOrdenRepo {
	return &memOrdenRepo{
		ordenes:   make(map[uuid.UUID]*model.OrdenTrabajo),
		subtareas: make(map[uuid.UUID]*model.SubtareaOrden),
	}
}

func (r *memOrdenRepo) Create(_ context.Context, orden *model.OrdenTrabajo) error {
	for _, o := range r.ordenes {
		if o.Folio == orden.Folio {
			return gorm.ErrDuplicatedKey
		}
	}
	if orden.ID == uuid.Nil {
		orden.ID = uuid.New()
	}
	r.ordenes[orden.ID] = orden
	return nil
}

func (r *memOrdenRepo) GetByID(_ context.Context, id uuid.UUID) (*model.OrdenTrabajo, error) {
	if o, ok := r.ordenes[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memOrdenRepo) List(_ context.Context, filter repository.OrdenFilter) ([]model.OrdenTrabajo, int64, error) {
	var out []model.OrdenTrabajo
	for _, o := range r.ordenes {
		if filter.Estatus != "" && o.Estatus != filter.Estatus {
			continue
		}
		if filter.TecnicoID != nil {
			if o.TecnicoAsignadoID == nil || *o.TecnicoAsignadoID != *filter.TecnicoID {
				continue
			}
		}
		if filter.ClienteID != nil && o.ClienteID != *filter.ClienteID {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *memOrdenRepo) Update(_ context.Context, orden *model.OrdenTrabajo) error {
	r.ordenes[orden.ID] = orden
	return nil
}

func (r *memOrdenRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.ordenes, id)
	return nil
}

func (r *memOrdenRepo) NextFolio(_ context.Context, year int) (string, error) {
	prefix := model.FolioPrefix(year)
	maxSeq := 0
	for _, o := range r.ordenes {
		if !strings.HasPrefix(o.Folio, prefix) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(o.Folio, prefix)); err == nil && n > maxSeq {
			maxSeq = n
		}
	}
	return model.FormatFolio(year, maxSeq+1), nil
}

func (r *memOrdenRepo) CreateSubtarea(_ context.Context, subtarea *model.SubtareaOrden) error {
	if subtarea.ID == uuid.Nil {
		subtarea.ID = uuid.New()
	}
	r.subtareas[subtarea.ID] = subtarea
	if orden, ok := r.ordenes[subtarea.OrdenTrabajoID]; ok {
		orden.Subtareas = append(orden.Subtareas, *subtarea)
	}
	return nil
}

func (r *memOrdenRepo) GetSubtarea(_ context.Context, id uuid.UUID) (*model.SubtareaOrden, error) {
	if st, ok := r.subtareas[id]; ok {
		return st, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memOrdenRepo) UpdateSubtarea(_ context.Context, subtarea *model.SubtareaOrden) error {
	r.subtareas[subtarea.ID] = subtarea
	return nil
}

func (r *memOrdenRepo) DeleteSubtarea(_ context.Context, id uuid.UUID) error {
	delete(r.subtareas, id)
	return nil
}

func (r *memOrdenRepo) CreateFoto(_ context.Context, foto *model.FotoOrden) error {
	if foto.ID == uuid.Nil {
		foto.ID = uuid.New()
	}
	r.fotos = append(r.fotos, foto)
	return nil
}

type memSolicitudRepo struct {
	solicitudes map[uuid.UUID]*model.SolicitudVacaciones
}

func newMemSolicitudRepo() *memSolicitudRepo {
	return &memSolicitudRepo{solicitudes: make(map[uuid.UUID]*model.SolicitudVacaciones)}
}

func (r *memSolicitudRepo) Create(_ context.Context, s *model.SolicitudVacaciones) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.solicitudes[s.ID] = s
	return nil
}

func (r *memSolicitudRepo) GetByID(_ context.Context, id uuid.UUID) (*model.SolicitudVacaciones, error) {
	if s, ok := r.solicitudes[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSolicitudRepo) List(_ context.Context, filter repository.SolicitudFilter) ([]model.SolicitudVacaciones, int64, error) {
	var out []model.SolicitudVacaciones
	for _, s := range r.solicitudes {
		if filter.EmpleadoID != nil && s.EmpleadoID != *filter.EmpleadoID {
			continue
		}
		if filter.Estado != "" && s.Estado != filter.Estado {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *memSolicitudRepo) Update(_ context.Context, s *model.SolicitudVacaciones) error {
	r.solicitudes[s.ID] = s
	return nil
}

func (r *memSolicitudRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.solicitudes, id)
	return nil
}

type memAuditRepo struct {
	entries []*model.AuditLog
}

func (r *memAuditRepo) Create(_ context.Context, entry *model.AuditLog) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memAuditRepo) List(_ context.Context, skip, limit int) ([]model.AuditLog, int64, error) {
	var out []model.AuditLog
	for _, e := range r.entries {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}
