// Package llm wraps the language-model collaborator. The model is an
// opaque text-in text-out service; callers are responsible for parsing
// whatever comes back.
package llm

import "context"

type Request struct {
	Model  string
	System string
	User   string
}

type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
