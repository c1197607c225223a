// Package nl2sql turns natural-language marketing questions into SQL
// against the fixed customer table. The model's reply is a three-way
// contract: a bare SQL statement, or one of two sentinel literals it is
// instructed to emit instead of guessing.
package nl2sql

import "context"

type Kind int

const (
	// KindSQL means the outcome carries an executable statement.
	KindSQL Kind = iota
	// KindInvalid means the model judged the question unanswerable from
	// the schema.
	KindInvalid
	// KindNoResults means the model judged the query valid but certain
	// to return nothing. Advisory only; execution results win.
	KindNoResults
)

type Outcome struct {
	Kind Kind
	SQL  string
}

type Translator interface {
	Translate(ctx context.Context, question string) (Outcome, error)
}
