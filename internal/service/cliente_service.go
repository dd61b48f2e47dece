package service

import (
	"context"
	"errors"
	"time"

	"backend/internal/apierror"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateClienteInput carries the fields for registering a customer.
type CreateClienteInput struct {
	TipoCliente     string  `json:"tipo_cliente"`
	Nombre          string  `json:"nombre"`
	ApellidoPaterno string  `json:"apellido_paterno"`
	ApellidoMaterno string  `json:"apellido_materno"`
	RazonSocial     string  `json:"razon_social"`
	RFC             *string `json:"rfc"`

	Email               *string `json:"email"`
	Telefono            string  `json:"telefono" binding:"required"`
	TelefonoAlternativo string  `json:"telefono_alternativo"`

	Calle          string `json:"calle"`
	NumeroExterior string `json:"numero_exterior"`
	NumeroInterior string `json:"numero_interior"`
	Colonia        string `json:"colonia"`
	CodigoPostal   string `json:"codigo_postal"`
	Ciudad         string `json:"ciudad"`
	Estado         string `json:"estado"`

	FechaNacimiento *time.Time `json:"fecha_nacimiento"`
	Notas           string     `json:"notas"`
	Preferencias    string     `json:"preferencias"`
}

// UpdateClienteInput carries the optional fields for updating a customer.
type UpdateClienteInput struct {
	Nombre          *string `json:"nombre"`
	ApellidoPaterno *string `json:"apellido_paterno"`
	ApellidoMaterno *string `json:"apellido_materno"`
	RazonSocial     *string `json:"razon_social"`
	RFC             *string `json:"rfc"`

	Email               *string `json:"email"`
	Telefono            *string `json:"telefono"`
	TelefonoAlternativo *string `json:"telefono_alternativo"`

	Calle          *string `json:"calle"`
	NumeroExterior *string `json:"numero_exterior"`
	NumeroInterior *string `json:"numero_interior"`
	Colonia        *string `json:"colonia"`
	CodigoPostal   *string `json:"codigo_postal"`
	Ciudad         *string `json:"ciudad"`
	Estado         *string `json:"estado"`

	FechaNacimiento *time.Time `json:"fecha_nacimiento"`
	Notas           *string    `json:"notas"`
	Preferencias    *string    `json:"preferencias"`
	Activo          *bool      `json:"activo"`
}

// SucursalInput carries the fields for creating or updating a branch.
type SucursalInput struct {
	NombreSucursal string `json:"nombre_sucursal" binding:"required"`
	CodigoSucursal string `json:"codigo_sucursal"`

	Telefono            string  `json:"telefono"`
	TelefonoAlternativo string  `json:"telefono_alternativo"`
	Email               *string `json:"email"`

	Calle          string `json:"calle"`
	NumeroExterior string `json:"numero_exterior"`
	NumeroInterior string `json:"numero_interior"`
	Colonia        string `json:"colonia"`
	CodigoPostal   string `json:"codigo_postal"`
	Ciudad         string `json:"ciudad"`
	Estado         string `json:"estado"`

	Notas  string `json:"notas"`
	Activo *bool  `json:"activo"`
}

// ClienteService handles customer and branch management.
type ClienteService interface {
	Create(ctx context.Context, input CreateClienteInput) (*model.Cliente, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	List(ctx context.Context, filter repository.ClienteFilter) ([]model.Cliente, int64, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateClienteInput) (*model.Cliente, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) (*model.Cliente, error)

	CreateSucursal(ctx context.Context, clienteID uuid.UUID, input SucursalInput) (*model.Sucursal, error)
	ListSucursales(ctx context.Context, clienteID uuid.UUID, activo *bool) ([]model.Sucursal, error)
	UpdateSucursal(ctx context.Context, clienteID, sucursalID uuid.UUID, input SucursalInput) (*model.Sucursal, error)
	DeleteSucursal(ctx context.Context, clienteID, sucursalID uuid.UUID) error
}

type clienteService struct {
	clienteRepo  repository.ClienteRepository
	sucursalRepo repository.SucursalRepository
}

// NewClienteService returns a new instance of ClienteService
func NewClienteService(clienteRepo repository.ClienteRepository, sucursalRepo repository.SucursalRepository) ClienteService {
	return &clienteService{clienteRepo: clienteRepo, sucursalRepo: sucursalRepo}
}

func (s *clienteService) Create(ctx context.Context, input CreateClienteInput) (*model.Cliente, error) {
	tipo := input.TipoCliente
	if tipo == "" {
		tipo = model.ClientePersonaFisica
	}

	switch tipo {
	case model.ClientePersonaFisica:
		if input.Nombre == "" {
			return nil, apierror.New(apierror.InvalidInput, "El nombre es obligatorio para persona física")
		}
	case model.ClientePersonaMoral:
		if input.RazonSocial == "" {
			return nil, apierror.New(apierror.InvalidInput, "La razón social es obligatoria para persona moral")
		}
	default:
		return nil, apierror.Newf(apierror.InvalidInput, "Tipo de cliente inválido: %s", tipo)
	}

	if err := s.checkUnique(ctx, input.RFC, input.Email, uuid.Nil); err != nil {
		return nil, err
	}

	cliente := &model.Cliente{
		TipoCliente:         tipo,
		Nombre:              input.Nombre,
		ApellidoPaterno:     input.ApellidoPaterno,
		ApellidoMaterno:     input.ApellidoMaterno,
		RazonSocial:         input.RazonSocial,
		RFC:                 input.RFC,
		Email:               input.Email,
		Telefono:            input.Telefono,
		TelefonoAlternativo: input.TelefonoAlternativo,
		Calle:               input.Calle,
		NumeroExterior:      input.NumeroExterior,
		NumeroInterior:      input.NumeroInterior,
		Colonia:             input.Colonia,
		CodigoPostal:        input.CodigoPostal,
		Ciudad:              input.Ciudad,
		Estado:              input.Estado,
		FechaNacimiento:     input.FechaNacimiento,
		Notas:               input.Notas,
		Preferencias:        input.Preferencias,
		Activo:              true,
	}

	if err := s.clienteRepo.Create(ctx, cliente); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.New(apierror.Conflict, "Ya existe un cliente con ese RFC")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al crear el cliente", err)
	}

	return cliente, nil
}

func (s *clienteService) checkUnique(ctx context.Context, rfc, email *string, excludeID uuid.UUID) error {
	if rfc != nil && *rfc != "" {
		enUso, err := s.clienteRepo.RFCEnUso(ctx, *rfc, excludeID)
		if err != nil {
			return apierror.Wrap(apierror.Internal, "error al consultar el RFC", err)
		}
		if enUso {
			return apierror.New(apierror.Conflict, "Ya existe un cliente con ese RFC")
		}
	}
	if email != nil && *email != "" {
		enUso, err := s.clienteRepo.EmailEnUso(ctx, *email, excludeID)
		if err != nil {
			return apierror.Wrap(apierror.Internal, "error al consultar el email", err)
		}
		if enUso {
			return apierror.New(apierror.Conflict, "Ya existe un cliente con ese email")
		}
	}
	return nil
}

func (s *clienteService) GetByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	cliente, err := s.clienteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.New(apierror.NotFound, "Cliente no encontrado")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al consultar el cliente", err)
	}
	return cliente, nil
}

func (s *clienteService) List(ctx context.Context, filter repository.ClienteFilter) ([]model.Cliente, int64, error) {
	clientes, total, err := s.clienteRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, apierror.Wrap(apierror.Internal, "error al listar clientes", err)
	}
	return clientes, total, nil
}

func (s *clienteService) Update(ctx context.Context, id uuid.UUID, input UpdateClienteInput) (*model.Cliente, error) {
	cliente, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUnique(ctx, input.RFC, input.Email, cliente.ID); err != nil {
		return nil, err
	}

	if input.Nombre != nil {
		cliente.Nombre = *input.Nombre
	}
	if input.ApellidoPaterno != nil {
		cliente.ApellidoPaterno = *input.ApellidoPaterno
	}
	if input.ApellidoMaterno != nil {
		cliente.ApellidoMaterno = *input.ApellidoMaterno
	}
	if input.RazonSocial != nil {
		cliente.RazonSocial = *input.RazonSocial
	}
	if input.RFC != nil {
		cliente.RFC = input.RFC
	}
	if input.Email != nil {
		cliente.Email = input.Email
	}
	if input.Telefono != nil {
		cliente.Telefono = *input.Telefono
	}
	if input.TelefonoAlternativo != nil {
		cliente.TelefonoAlternativo = *input.TelefonoAlternativo
	}
	if input.Calle != nil {
		cliente.Calle = *input.Calle
	}
	if input.NumeroExterior != nil {
		cliente.NumeroExterior = *input.NumeroExterior
	}
	if input.NumeroInterior != nil {
		cliente.NumeroInterior = *input.NumeroInterior
	}
	if input.Colonia != nil {
		cliente.Colonia = *input.Colonia
	}
	if input.CodigoPostal != nil {
		cliente.CodigoPostal = *input.CodigoPostal
	}
	if input.Ciudad != nil {
		cliente.Ciudad = *input.Ciudad
	}
	if input.Estado != nil {
		cliente.Estado = *input.Estado
	}
	if input.FechaNacimiento != nil {
		cliente.FechaNacimiento = input.FechaNacimiento
	}
	if input.Notas != nil {
		cliente.Notas = *input.Notas
	}
	if input.Preferencias != nil {
		cliente.Preferencias = *input.Preferencias
	}
	if input.Activo != nil {
		cliente.Activo = *input.Activo
	}

	if err := s.clienteRepo.Update(ctx, cliente); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.New(apierror.Conflict, "Ya existe un cliente con ese RFC")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al actualizar el cliente", err)
	}

	return cliente, nil
}

// Deactivate marks the client inactive. Customers are never hard-deleted:
// their orders and folio history must stay navigable.
func (s *clienteService) Deactivate(ctx context.Context, id uuid.UUID) error {
	cliente, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	cliente.Activo = false
	if err := s.clienteRepo.Update(ctx, cliente); err != nil {
		return apierror.Wrap(apierror.Internal, "error al desactivar el cliente", err)
	}
	return nil
}

func (s *clienteService) Reactivate(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	cliente, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cliente.Activo = true
	if err := s.clienteRepo.Update(ctx, cliente); err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al reactivar el cliente", err)
	}
	return cliente, nil
}

func (s *clienteService) CreateSucursal(ctx context.Context, clienteID uuid.UUID, input SucursalInput) (*model.Sucursal, error) {
	if _, err := s.GetByID(ctx, clienteID); err != nil {
		return nil, err
	}

	sucursal := &model.Sucursal{
		ClienteID:           clienteID,
		NombreSucursal:      input.NombreSucursal,
		CodigoSucursal:      input.CodigoSucursal,
		Telefono:            input.Telefono,
		TelefonoAlternativo: input.TelefonoAlternativo,
		Email:               input.Email,
		Calle:               input.Calle,
		NumeroExterior:      input.NumeroExterior,
		NumeroInterior:      input.NumeroInterior,
		Colonia:             input.Colonia,
		CodigoPostal:        input.CodigoPostal,
		Ciudad:              input.Ciudad,
		Estado:              input.Estado,
		Notas:               input.Notas,
		Activo:              true,
	}
	if input.Activo != nil {
		sucursal.Activo = *input.Activo
	}

	if err := s.sucursalRepo.Create(ctx, sucursal); err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al crear la sucursal", err)
	}

	return sucursal, nil
}

func (s *clienteService) ListSucursales(ctx context.Context, clienteID uuid.UUID, activo *bool) ([]model.Sucursal, error) {
	if _, err := s.GetByID(ctx, clienteID); err != nil {
		return nil, err
	}
	sucursales, err := s.sucursalRepo.ListByCliente(ctx, clienteID, activo)
	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al listar sucursales", err)
	}
	return sucursales, nil
}

func (s *clienteService) getSucursal(ctx context.Context, clienteID, sucursalID uuid.UUID) (*model.Sucursal, error) {
	sucursal, err := s.sucursalRepo.GetByID(ctx, sucursalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.New(apierror.NotFound, "Sucursal no encontrada")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al consultar la sucursal", err)
	}
	if sucursal.ClienteID != clienteID {
		return nil, apierror.New(apierror.NotFound, "Sucursal no encontrada")
	}
	return sucursal, nil
}

func (s *clienteService) UpdateSucursal(ctx context.Context, clienteID, sucursalID uuid.UUID, input SucursalInput) (*model.Sucursal, error) {
	sucursal, err := s.getSucursal(ctx, clienteID, sucursalID)
	if err != nil {
		return nil, err
	}

	sucursal.NombreSucursal = input.NombreSucursal
	sucursal.CodigoSucursal = input.CodigoSucursal
	sucursal.Telefono = input.Telefono
	sucursal.TelefonoAlternativo = input.TelefonoAlternativo
	sucursal.Email = input.Email
	sucursal.Calle = input.Calle
	sucursal.NumeroExterior = input.NumeroExterior
	sucursal.NumeroInterior = input.NumeroInterior
	sucursal.Colonia = input.Colonia
	sucursal.CodigoPostal = input.CodigoPostal
	sucursal.Ciudad = input.Ciudad
	sucursal.Estado = input.Estado
	sucursal.Notas = input.Notas
	if input.Activo != nil {
		sucursal.Activo = *input.Activo
	}

	if err := s.sucursalRepo.Update(ctx, sucursal); err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al actualizar la sucursal", err)
	}

	return sucursal, nil
}

func (s *clienteService) DeleteSucursal(ctx context.Context, clienteID, sucursalID uuid.UUID) error {
	if _, err := s.getSucursal(ctx, clienteID, sucursalID); err != nil {
		return err
	}
	if err := s.sucursalRepo.Delete(ctx, sucursalID); err != nil {
		return apierror.Wrap(apierror.Internal, "error al eliminar la sucursal", err)
	}
	return nil
}
