// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"slices"
	"strings"

	"github.com/amirphl/meal-campaign-stats/app/dto"
	"github.com/amirphl/meal-campaign-stats/app/services"
	"github.com/amirphl/meal-campaign-stats/models"
	"github.com/amirphl/meal-campaign-stats/repository"
	"github.com/amirphl/meal-campaign-stats/utils"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// AuthMiddleware handles JWT token validation for the admin dashboard endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
	adminRepo    repository.AdminRepository
	logger       *zap.Logger
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService, adminRepo repository.AdminRepository, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{
		tokenService: tokenService,
		adminRepo:    adminRepo,
		logger:       logger.Named("auth"),
	}
}

func unauthorized(c fiber.Ctx, message, code string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorDetail{Code: code},
	})
}

// AdminAuthenticate validates the bearer token and loads the active admin behind it
func (m *AuthMiddleware) AdminAuthenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required", "MISSING_AUTHORIZATION_HEADER")
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c, "Invalid authorization header format. Expected 'Bearer <token>'", "INVALID_AUTHORIZATION_FORMAT")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return unauthorized(c, "Access token is required", "MISSING_ACCESS_TOKEN")
		}

		claims, err := m.tokenService.ValidateAdminToken(c.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTokenExpired):
				return unauthorized(c, "Access token has expired", "TOKEN_EXPIRED")
			case errors.Is(err, services.ErrTokenInvalid):
				return unauthorized(c, "Invalid access token", "TOKEN_INVALID")
			case errors.Is(err, services.ErrTokenRevoked):
				return unauthorized(c, "Access token has been revoked", "TOKEN_REVOKED")
			default:
				m.logger.Error("Token validation failed", zap.Error(err))
				return unauthorized(c, "Token validation failed", "TOKEN_VALIDATION_FAILED")
			}
		}

		admin, err := m.adminRepo.ByID(c.Context(), claims.AdminID)
		if err != nil {
			m.logger.Error("Failed to load admin", zap.Uint("admin_id", claims.AdminID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
				Success: false,
				Message: "Failed to authenticate admin",
				Error:   dto.ErrorDetail{Code: "AUTHENTICATION_FAILED"},
			})
		}
		if admin == nil || !utils.IsTrue(admin.IsActive) {
			return unauthorized(c, "Admin account is not active", "ADMIN_INACTIVE")
		}

		c.Locals(string(utils.AdminIDKey), admin.ID)
		c.Locals("admin_role", admin.Role)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals(string(utils.RequestIDKey), requestID)
		}

		return c.Next()
	}
}

// RequireRole rejects admins whose role is not one of roles. It must run after AdminAuthenticate.
func (m *AuthMiddleware) RequireRole(roles ...models.AdminRole) fiber.Handler {
	return func(c fiber.Ctx) error {
		role, ok := GetAdminRoleFromContext(c)
		if !ok {
			return unauthorized(c, "Admin authentication required", "ADMIN_AUTHENTICATION_REQUIRED")
		}
		if !slices.Contains(roles, role) {
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "Insufficient permissions",
				Error:   dto.ErrorDetail{Code: "FORBIDDEN"},
			})
		}
		return c.Next()
	}
}

// GetAdminIDFromContext extracts admin ID from the request context
func GetAdminIDFromContext(c fiber.Ctx) (uint, bool) {
	adminID, ok := c.Locals(string(utils.AdminIDKey)).(uint)
	return adminID, ok
}

// GetAdminRoleFromContext extracts the admin role from the request context
func GetAdminRoleFromContext(c fiber.Ctx) (models.AdminRole, bool) {
	role, ok := c.Locals("admin_role").(models.AdminRole)
	return role, ok
}

// GetTokenClaimsFromContext extracts token claims from the request context
func GetTokenClaimsFromContext(c fiber.Ctx) (*services.AdminTokenClaims, bool) {
	claims, ok := c.Locals("token_claims").(*services.AdminTokenClaims)
	return claims, ok
}
