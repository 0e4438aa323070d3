package middleware

import (
	"net/http"

	apperrors "doc-registry/pkg/errors"
	"doc-registry/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequirePermission пропускает запрос только при наличии указанного права
// в контексте. Права кладёт Auth, поэтому навешивается после него.
func RequirePermission(permission string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			permissions, err := utils.GetPermissionsFromCtx(c.Request().Context())
			if err != nil {
				logger.Warn("RequirePermission: права не найдены в контексте", zap.String("permission", permission))
				return utils.ErrorResponse(c, apperrors.NewHttpError(
					http.StatusForbidden, "права доступа не определены", apperrors.ErrForbidden, nil,
				), logger)
			}
			if !permissions[permission] {
				logger.Warn("RequirePermission: недостаточно прав", zap.String("permission", permission))
				return utils.ErrorResponse(c, apperrors.NewHttpError(
					http.StatusForbidden, "недостаточно прав для операции", apperrors.ErrForbidden, nil,
				), logger)
			}
			return next(c)
		}
	}
}
