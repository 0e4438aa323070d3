package utils

import (
	"context"

	"doc-registry/pkg/contextkeys"
	apperrors "doc-registry/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func GetPermissionsFromCtx(ctx context.Context) (map[string]bool, error) {
	permissions, ok := ctx.Value(contextkeys.UserPermissionsKey).(map[string]bool)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}
	return permissions, nil
}
