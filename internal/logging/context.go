package logging

import (
	"context"

	"go.uber.org/zap"
)

type operationCtxKey struct{}

// WithOperation tags ctx with the user-facing operation being performed
// (an action name or CLI command), so every log line underneath carries it.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationCtxKey{}, op)
}

// OperationFromContext returns the operation set by WithOperation.
func OperationFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	op, _ := ctx.Value(operationCtxKey{}).(string)
	return op
}

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	if op := OperationFromContext(ctx); op != "" {
		return []zap.Field{zap.String("op", op)}
	}
	return nil
}
