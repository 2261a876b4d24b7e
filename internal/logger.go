package internal

import (
	"context"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WithContext parses the context and adds the group ID to the logger if available
func WithContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	logger = logutil.WithContext(ctx, logger)
	if ctx == nil {
		return logger
	}

	groupID, ok := ctx.Value(GroupIDContextKey).(uuid.UUID)
	if ok && groupID != uuid.Nil {
		logger = logger.With(zap.String("group_id", groupID.String()))
	}

	return logger
}
