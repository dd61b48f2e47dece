package service

import (
	"context"
	"testing"

	"backend/internal/apierror"
	"backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLogin(t *testing.T) {
	user := &model.User{
		Username:     "maria",
		PasswordHash: hashPassword(t, "secreto123"),
		Rol:          model.RoleRecepcion,
		Activo:       true,
	}
	svc := NewAuthService(newMemUserRepo(user))

	result, err := svc.Login(context.Background(), "maria", "secreto123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "bearer", result.TokenType)
	assert.Equal(t, user.ID, result.User.ID)
}

func TestLoginUniformFailureForBadCredentials(t *testing.T) {
	user := &model.User{
		Username:     "maria",
		PasswordHash: hashPassword(t, "secreto123"),
		Rol:          model.RoleRecepcion,
		Activo:       true,
	}
	svc := NewAuthService(newMemUserRepo(user))

	// Unknown username and wrong password yield the same message, so the
	// endpoint never confirms which accounts exist.
	_, errUsuario := svc.Login(context.Background(), "nadie", "secreto123")
	_, errPassword := svc.Login(context.Background(), "maria", "incorrecta")

	require.Error(t, errUsuario)
	require.Error(t, errPassword)
	assert.Equal(t, apierror.Unauthenticated, apierror.KindOf(errUsuario))
	assert.Equal(t, apierror.Unauthenticated, apierror.KindOf(errPassword))
	assert.Equal(t, apierror.Message(errUsuario), apierror.Message(errPassword))
}

func TestLoginInactiveIsForbidden(t *testing.T) {
	user := &model.User{
		Username:     "maria",
		PasswordHash: hashPassword(t, "secreto123"),
		Rol:          model.RoleRecepcion,
		Activo:       false,
	}
	svc := NewAuthService(newMemUserRepo(user))

	_, err := svc.Login(context.Background(), "maria", "secreto123")
	require.Error(t, err)
	assert.Equal(t, apierror.Forbidden, apierror.KindOf(err))
}

func TestLoginCodigo(t *testing.T) {
	codigo := "4821"
	tecnico := &model.User{
		Username: "tec",
		Rol:      model.RoleTecnico,
		Codigo:   &codigo,
		Activo:   true,
	}
	otroCodigo := "9999"
	recepcion := &model.User{
		Username: "rec",
		Rol:      model.RoleRecepcion,
		Codigo:   &otroCodigo,
		Activo:   true,
	}
	svc := NewAuthService(newMemUserRepo(tecnico, recepcion))

	result, err := svc.LoginCodigo(context.Background(), "4821")
	require.NoError(t, err)
	assert.Equal(t, tecnico.ID, result.User.ID)

	// Every failure mode collapses to the same uniform message.
	casos := []string{"0000", "9999", "48211", "abcd", ""}
	var mensajes []string
	for _, c := range casos {
		_, err := svc.LoginCodigo(context.Background(), c)
		require.Error(t, err, "codigo %q", c)
		assert.Equal(t, apierror.Unauthenticated, apierror.KindOf(err))
		mensajes = append(mensajes, apierror.Message(err))
	}
	for _, m := range mensajes {
		assert.Equal(t, mensajes[0], m)
	}
}

func TestLoginCodigoInactiveTecnico(t *testing.T) {
	codigo := "4821"
	tecnico := &model.User{
		Username: "tec",
		Rol:      model.RoleTecnico,
		Codigo:   &codigo,
		Activo:   false,
	}
	svc := NewAuthService(newMemUserRepo(tecnico))

	_, err := svc.LoginCodigo(context.Background(), "4821")
	require.Error(t, err)
	assert.Equal(t, apierror.Unauthenticated, apierror.KindOf(err))
}
