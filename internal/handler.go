package internal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type contextKey string

var (
	UserContextKey    contextKey = "user"
	GroupIDContextKey contextKey = "group-id"
)

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

func ParseUUID(value string) (uuid.UUID, error) {
	parsedUUID, err := uuid.Parse(value)
	if err != nil {
		return parsedUUID, fmt.Errorf("failed to parse UUID: %w", err)
	}

	return parsedUUID, nil
}

func GetGroupIDFromContext(ctx context.Context) (uuid.UUID, error) {
	groupID, ok := ctx.Value(GroupIDContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("group id not found in context")
	}
	return groupID, nil
}
