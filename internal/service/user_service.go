package service

import (
	"context"
	"errors"
	"time"

	"backend/internal/apierror"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUserInput carries the fields for registering an employee account.
type CreateUserInput struct {
	Username       string               `json:"username" binding:"required,min=3,max=50"`
	Email          string               `json:"email" binding:"required,email"`
	NombreCompleto string               `json:"nombre_completo" binding:"required"`
	Password       string               `json:"password" binding:"required,min=8"`
	Rol            string               `json:"rol" binding:"required"`
	Codigo         *string              `json:"codigo"`
	FechaIngreso   *time.Time           `json:"fecha_ingreso"`
	TipoContrato   string               `json:"tipo_contrato"`
	Departamento   string               `json:"departamento"`
	Puesto         string               `json:"puesto"`
	RFC            string               `json:"rfc"`
	SalarioDiario  *decimal.Decimal     `json:"salario_diario"`
	JefeDirectoID  *uuid.UUID           `json:"jefe_directo_id"`
}

// UpdateUserInput carries the optional fields for updating an account. Nil
// pointers leave the stored value untouched.
type UpdateUserInput struct {
	Email          *string          `json:"email"`
	NombreCompleto *string          `json:"nombre_completo"`
	Password       *string          `json:"password"`
	Rol            *string          `json:"rol"`
	Codigo         *string          `json:"codigo"`
	Activo         *bool            `json:"activo"`
	FechaIngreso   *time.Time       `json:"fecha_ingreso"`
	TipoContrato   *string          `json:"tipo_contrato"`
	Departamento   *string          `json:"departamento"`
	Puesto         *string          `json:"puesto"`
	RFC            *string          `json:"rfc"`
	SalarioDiario  *decimal.Decimal `json:"salario_diario"`
	JefeDirectoID  *uuid.UUID       `json:"jefe_directo_id"`

	DiasVacacionesAnteriores *int `json:"dias_vacaciones_pendientes_anios_anteriores"`
}

// UserService handles employee account management.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, skip, limit int) ([]model.User, int64, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*model.User, error)
	Delete(ctx context.Context, principal *model.User, id uuid.UUID) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService returns a new instance of UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if !model.ValidRole(input.Rol) {
		return nil, apierror.Newf(apierror.InvalidInput, "Rol inválido: %s", input.Rol)
	}

	if _, err := s.userRepo.GetByUsername(ctx, input.Username); err == nil {
		return nil, apierror.New(apierror.Conflict, "El nombre de usuario ya está registrado")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Wrap(apierror.Internal, "error al consultar el usuario", err)
	}

	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, apierror.New(apierror.Conflict, "El email ya está registrado")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Wrap(apierror.Internal, "error al consultar el usuario", err)
	}

	if input.Codigo != nil {
		if !codigoPattern.MatchString(*input.Codigo) {
			return nil, apierror.New(apierror.InvalidInput, "El código debe ser de 4 dígitos")
		}
		enUso, err := s.userRepo.CodigoEnUso(ctx, *input.Codigo, uuid.Nil)
		if err != nil {
			return nil, apierror.Wrap(apierror.Internal, "error al consultar el código", err)
		}
		if enUso {
			return nil, apierror.New(apierror.Conflict, "El código ya está asignado a otro empleado")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al generar el hash de contraseña", err)
	}

	user := &model.User{
		Username:       input.Username,
		Email:          input.Email,
		NombreCompleto: input.NombreCompleto,
		PasswordHash:   string(hash),
		Rol:            input.Rol,
		Codigo:         input.Codigo,
		Activo:         true,
		FechaIngreso:   input.FechaIngreso,
		TipoContrato:   input.TipoContrato,
		Departamento:   input.Departamento,
		Puesto:         input.Puesto,
		RFC:            input.RFC,
		JefeDirectoID:  input.JefeDirectoID,
	}
	if input.SalarioDiario != nil {
		user.SalarioDiario = *input.SalarioDiario
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.New(apierror.Conflict, "Ya existe un usuario con esos datos")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al crear el usuario", err)
	}

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.New(apierror.NotFound, "Usuario no encontrado")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al consultar el usuario", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, skip, limit int) ([]model.User, int64, error) {
	users, total, err := s.userRepo.List(ctx, skip, limit)
	if err != nil {
		return nil, 0, apierror.Wrap(apierror.Internal, "error al listar usuarios", err)
	}
	return users, total, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// The system must always keep at least one active administrator.
	// Demoting or deactivating the last one is refused, never queued.
	losesAdmin := user.Rol == model.RoleAdmin && user.Activo &&
		((input.Rol != nil && *input.Rol != model.RoleAdmin) || (input.Activo != nil && !*input.Activo))
	if losesAdmin {
		admins, err := s.userRepo.CountActiveAdmins(ctx)
		if err != nil {
			return nil, apierror.Wrap(apierror.Internal, "error al contar administradores", err)
		}
		if admins <= 1 {
			return nil, apierror.New(apierror.Conflict, "No se puede quitar el último administrador activo")
		}
	}

	if input.Rol != nil {
		if !model.ValidRole(*input.Rol) {
			return nil, apierror.Newf(apierror.InvalidInput, "Rol inválido: %s", *input.Rol)
		}
		user.Rol = *input.Rol
	}
	if input.Email != nil {
		if existing, err := s.userRepo.GetByEmail(ctx, *input.Email); err == nil && existing.ID != user.ID {
			return nil, apierror.New(apierror.Conflict, "El email ya está registrado")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Wrap(apierror.Internal, "error al consultar el usuario", err)
		}
		user.Email = *input.Email
	}
	if input.Codigo != nil {
		if !codigoPattern.MatchString(*input.Codigo) {
			return nil, apierror.New(apierror.InvalidInput, "El código debe ser de 4 dígitos")
		}
		enUso, err := s.userRepo.CodigoEnUso(ctx, *input.Codigo, user.ID)
		if err != nil {
			return nil, apierror.Wrap(apierror.Internal, "error al consultar el código", err)
		}
		if enUso {
			return nil, apierror.New(apierror.Conflict, "El código ya está asignado a otro empleado")
		}
		user.Codigo = input.Codigo
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apierror.Wrap(apierror.Internal, "error al generar el hash de contraseña", err)
		}
		user.PasswordHash = string(hash)
	}
	if input.NombreCompleto != nil {
		user.NombreCompleto = *input.NombreCompleto
	}
	if input.Activo != nil {
		user.Activo = *input.Activo
	}
	if input.FechaIngreso != nil {
		user.FechaIngreso = input.FechaIngreso
	}
	if input.TipoContrato != nil {
		user.TipoContrato = *input.TipoContrato
	}
	if input.Departamento != nil {
		user.Departamento = *input.Departamento
	}
	if input.Puesto != nil {
		user.Puesto = *input.Puesto
	}
	if input.RFC != nil {
		user.RFC = *input.RFC
	}
	if input.SalarioDiario != nil {
		user.SalarioDiario = *input.SalarioDiario
	}
	if input.JefeDirectoID != nil {
		user.JefeDirectoID = input.JefeDirectoID
	}
	if input.DiasVacacionesAnteriores != nil {
		user.DiasVacacionesAnteriores = *input.DiasVacacionesAnteriores
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.New(apierror.Conflict, "Ya existe un usuario con esos datos")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al actualizar el usuario", err)
	}

	return user, nil
}

func (s *userService) Delete(ctx context.Context, principal *model.User, id uuid.UUID) error {
	if principal.ID == id {
		return apierror.New(apierror.Conflict, "No puedes eliminar tu propia cuenta")
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if user.Rol == model.RoleAdmin && user.Activo {
		admins, err := s.userRepo.CountActiveAdmins(ctx)
		if err != nil {
			return apierror.Wrap(apierror.Internal, "error al contar administradores", err)
		}
		if admins <= 1 {
			return apierror.New(apierror.Conflict, "No se puede eliminar el último administrador activo")
		}
	}

	// Soft delete keeps the row for audit references and folio history.
	user.Activo = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return apierror.Wrap(apierror.Internal, "error al desactivar el usuario", err)
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return apierror.Wrap(apierror.Internal, "error al eliminar el usuario", err)
	}

	return nil
}
