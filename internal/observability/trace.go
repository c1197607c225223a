package observability

import (
	"context"

	"github.com/rs/xid"
)

type ctxKey int

const traceIDKey ctxKey = iota

const traceHeader = "X-Trace-ID"

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

func TraceIDFromContext(ctx context.Context) string {
	value, _ := ctx.Value(traceIDKey).(string)
	return value
}

func newTraceID() string {
	return xid.New().String()
}
