package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentorhub/internal/app/auth"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	tokens "github.com/yigit/mentorhub/internal/pkg/auth"
)

const principalKey = "principal"

// PrincipalResolver loads the caller behind a validated token
type PrincipalResolver interface {
	Resolve(ctx context.Context, userID int64) (*auth.Principal, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *tokens.JWTService
	resolver   PrincipalResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *tokens.JWTService, resolver PrincipalResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		resolver:   resolver,
	}
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, details string) {
	errorDetail := dto.NewErrorDetail(code, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

// JWTAuth middleware for JWT token validation. On success the resolved
// principal is stored in the context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		// Swagger UI sometimes sends the token as a query parameter
		if authHeader == "" {
			authHeader = c.Query("token")
		}
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing")
			return
		}

		tokenString, err := tokens.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Invalid token format")
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			if errors.Is(err, apperrors.ErrTokenExpired) {
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
				return
			}
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
			return
		}

		principal, err := m.resolver.Resolve(c.Request.Context(), claims.UserID)
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Set("userID", principal.UserID)
		c.Set("role", principal.Role)
		c.Next()
	}
}

// CurrentPrincipal returns the caller stored by JWTAuth
func CurrentPrincipal(c *gin.Context) (*auth.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*auth.Principal)
	return p, ok && p != nil
}

// hasRole treats an active head of department as holding the HOD role
// whatever the account role says.
func hasRole(p *auth.Principal, role models.Role) bool {
	if role == models.RoleHOD && p.HODDepartmentID != 0 {
		return true
	}
	return p.Role == role
}

// RoleRequired middleware to check the caller holds one of the roles
func (m *AuthMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "User information not found")
			return
		}

		for _, role := range roles {
			if hasRole(p, role) {
				c.Next()
				return
			}
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
			WithDetails("You don't have sufficient permissions for this operation")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
	}
}
