package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"backend/internal/apierror"
	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

var codigoPattern = regexp.MustCompile(`^\d{4}$`)

// LoginResult carries the signed token and the authenticated user.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *model.User `json:"user"`
}

// AuthService handles credential verification and token issuance.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	LoginCodigo(ctx context.Context, codigo string) (*LoginResult, error)
}

type authService struct {
	userRepo repository.UserRepository
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Login authenticates by username and password. Unknown usernames and wrong
// passwords produce the same response so the endpoint does not confirm which
// accounts exist. An inactive account with correct credentials is rejected
// separately: the caller proved identity but lost access.
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.New(apierror.Unauthenticated, "Usuario o contraseña incorrectos")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al consultar el usuario", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apierror.New(apierror.Unauthenticated, "Usuario o contraseña incorrectos")
	}

	if !user.Activo {
		return nil, apierror.New(apierror.Forbidden, "Usuario inactivo")
	}

	return s.issueToken(user)
}

// LoginCodigo authenticates a technician by 4-digit code. Every failure mode
// collapses to the same message: a short numeric code is guessable, so the
// endpoint must not reveal whether a code exists, belongs to a technician or
// is merely inactive.
func (s *authService) LoginCodigo(ctx context.Context, codigo string) (*LoginResult, error) {
	uniform := apierror.New(apierror.Unauthenticated, "Código inválido")

	if !codigoPattern.MatchString(codigo) {
		return nil, uniform
	}

	user, err := s.userRepo.GetByCodigo(ctx, codigo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, uniform
		}
		return nil, apierror.Wrap(apierror.Internal, "error al consultar el usuario", err)
	}

	if user.Rol != model.RoleTecnico || !user.Activo {
		return nil, uniform
	}

	return s.issueToken(user)
}

func (s *authService) issueToken(user *model.User) (*LoginResult, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"rol": user.Rol,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(middleware.GetJWTSecret())
	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al firmar el token", err)
	}

	return &LoginResult{AccessToken: signed, TokenType: "bearer", User: user}, nil
}
