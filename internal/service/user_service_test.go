package service

import (
	"context"
	"testing"

	"backend/internal/apierror"
	"backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserValidation(t *testing.T) {
	userRepo := newMemUserRepo()
	svc := NewUserService(userRepo)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Username:       "maria",
		Email:          "maria@taller.mx",
		NombreCompleto: "María García",
		Password:       "secreto123",
		Rol:            model.RoleRecepcion,
	})
	require.NoError(t, err)
	assert.True(t, user.Activo)
	assert.NotEqual(t, "secreto123", user.PasswordHash)

	// Duplicate username conflicts.
	_, err = svc.Create(context.Background(), CreateUserInput{
		Username:       "maria",
		Email:          "otra@taller.mx",
		NombreCompleto: "Otra",
		Password:       "secreto123",
		Rol:            model.RoleRecepcion,
	})
	require.Error(t, err)
	assert.Equal(t, apierror.Conflict, apierror.KindOf(err))

	// Unknown role is invalid input.
	_, err = svc.Create(context.Background(), CreateUserInput{
		Username:       "pedro",
		Email:          "pedro@taller.mx",
		NombreCompleto: "Pedro",
		Password:       "secreto123",
		Rol:            "GERENTE",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.InvalidInput, apierror.KindOf(err))
}

func TestCodigoUniqueAndFormat(t *testing.T) {
	userRepo := newMemUserRepo()
	svc := NewUserService(userRepo)

	codigo := "1234"
	_, err := svc.Create(context.Background(), CreateUserInput{
		Username:       "tec1",
		Email:          "tec1@taller.mx",
		NombreCompleto: "Técnico Uno",
		Password:       "secreto123",
		Rol:            model.RoleTecnico,
		Codigo:         &codigo,
	})
	require.NoError(t, err)

	mismo := "1234"
	_, err = svc.Create(context.Background(), CreateUserInput{
		Username:       "tec2",
		Email:          "tec2@taller.mx",
		NombreCompleto: "Técnico Dos",
		Password:       "secreto123",
		Rol:            model.RoleTecnico,
		Codigo:         &mismo,
	})
	require.Error(t, err)
	assert.Equal(t, apierror.Conflict, apierror.KindOf(err))

	corto := "12"
	_, err = svc.Create(context.Background(), CreateUserInput{
		Username:       "tec3",
		Email:          "tec3@taller.mx",
		NombreCompleto: "Técnico Tres",
		Password:       "secreto123",
		Rol:            model.RoleTecnico,
		Codigo:         &corto,
	})
	require.Error(t, err)
	assert.Equal(t, apierror.InvalidInput, apierror.KindOf(err))
}

func TestLastAdminCannotBeRemoved(t *testing.T) {
	admin := &model.User{Username: "admin", Email: "admin@taller.mx", Rol: model.RoleAdmin, Activo: true}
	userRepo := newMemUserRepo(admin)
	svc := NewUserService(userRepo)

	// Demoting the only active admin is refused.
	rol := model.RoleRecepcion
	_, err := svc.Update(context.Background(), admin.ID, UpdateUserInput{Rol: &rol})
	require.Error(t, err)
	assert.Equal(t, apierror.Conflict, apierror.KindOf(err))

	// Deactivating too.
	inactivo := false
	_, err = svc.Update(context.Background(), admin.ID, UpdateUserInput{Activo: &inactivo})
	require.Error(t, err)
	assert.Equal(t, apierror.Conflict, apierror.KindOf(err))

	// With a second active admin both operations go through.
	segundo := &model.User{Username: "admin2", Email: "admin2@taller.mx", Rol: model.RoleAdmin, Activo: true}
	require.NoError(t, userRepo.Create(context.Background(), segundo))

	_, err = svc.Update(context.Background(), admin.ID, UpdateUserInput{Rol: &rol})
	assert.NoError(t, err)
}

func TestDeleteUserGuards(t *testing.T) {
	admin := &model.User{Username: "admin", Email: "admin@taller.mx", Rol: model.RoleAdmin, Activo: true}
	userRepo := newMemUserRepo(admin)
	svc := NewUserService(userRepo)

	// Self-deletion is refused.
	err := svc.Delete(context.Background(), admin, admin.ID)
	require.Error(t, err)
	assert.Equal(t, apierror.Conflict, apierror.KindOf(err))

	// Deleting the last active admin is refused even by another account.
	recepcion := &model.User{Username: "rec", Email: "rec@taller.mx", Rol: model.RoleRecepcion, Activo: true}
	require.NoError(t, userRepo.Create(context.Background(), recepcion))

	err = svc.Delete(context.Background(), recepcion, admin.ID)
	require.Error(t, err)
	assert.Equal(t, apierror.Conflict, apierror.KindOf(err))

	// A non-admin account can be removed.
	err = svc.Delete(context.Background(), admin, recepcion.ID)
	assert.NoError(t, err)
}
