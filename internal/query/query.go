package query

import (
	"context"
	"time"
)

type Request struct {
	SQL      string
	RowLimit int
}

type Result struct {
	Columns  []string
	Rows     [][]any
	Duration time.Duration
}

// Engine executes one read statement against the customer dataset. The
// underlying connection is scoped to the call: acquired inside Execute
// and released before it returns, success or failure.
type Engine interface {
	Execute(ctx context.Context, request Request) (Result, error)
}
