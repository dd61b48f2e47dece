package middleware

import (
	"net/http"
	"os"
	"strings"

	"backend/internal/model"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const principalKey = "principal"

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// authDB holds the database reference for principal lookups — set via Init.
var authDB *gorm.DB

// Init sets the DB reference used to resolve token subjects to user rows.
func Init(db *gorm.DB) {
	authDB = db
}

// RequireRole validates the JWT, resolves the subject to a user row, and
// checks that the user is active and its role is in allowedRoles. A bad or
// missing token is 401; a valid token for an inactive account or an
// insufficient role is 403.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Falta la cabecera Authorization"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Formato de autorización inválido. Se espera 'Bearer <token>'"))
			return
		}
		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return GetJWTSecret(), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Token inválido o expirado"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Claims del token inválidos"))
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Claims del token inválidos"))
			return
		}

		// Resolve the principal against the database: the role and active
		// flag in the token may be stale.
		var user model.User
		if err := authDB.First(&user, "id = ?", userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "No se pudo validar las credenciales"))
			return
		}

		if !user.Activo {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Usuario inactivo"))
			return
		}

		roleAllowed := false
		for _, role := range allowedRoles {
			if user.Rol == role {
				roleAllowed = true
				break
			}
		}
		if !roleAllowed {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Se requiere rol: "+strings.Join(allowedRoles, ", ")))
			return
		}

		c.Set(principalKey, &user)
		c.Set("userID", user.ID.String())
		c.Set("userRole", user.Rol)

		c.Next()
	}
}

// GetPrincipal returns the authenticated user set by RequireRole.
func GetPrincipal(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}
