package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"doc-registry/pkg/contextkeys"
	apperrors "doc-registry/pkg/errors"
	"doc-registry/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AccessClaims — удостоверение вызывающего. Ядро само ничего не запрашивает:
// кто пользователь и какие у него права, решает внешний контур.
type AccessClaims struct {
	UserID      uint64   `json:"user_id"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	secretKey []byte
	logger    *zap.Logger
}

func NewAuthMiddleware(secretKey string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		secretKey: []byte(secretKey),
		logger:    logger,
	}
}

// Auth извлекает JWT из заголовка и кладёт UserID и права в контекст запроса.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.NewHttpError(
				http.StatusUnauthorized, "заголовок авторизации отсутствует", apperrors.ErrUnauthorized, nil,
			), m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.NewHttpError(
				http.StatusUnauthorized, "неверный формат заголовка авторизации", apperrors.ErrUnauthorized, nil,
			), m.logger)
		}

		claims := &AccessClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("неверный метод подписи токена: %v", t.Header["alg"])
			}
			return m.secretKey, nil
		})
		if err != nil || !token.Valid {
			m.logger.Warn("AuthMiddleware: ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, apperrors.NewHttpError(
				http.StatusUnauthorized, "недопустимый токен", apperrors.ErrUnauthorized, nil,
			), m.logger)
		}

		permissions := make(map[string]bool, len(claims.Permissions))
		for _, p := range claims.Permissions {
			permissions[p] = true
		}

		ctx := c.Request().Context()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.UserPermissionsKey, permissions)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
