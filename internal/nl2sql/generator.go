package nl2sql

import (
	"context"
	"fmt"
	"strings"

	"github.com/adpulse/adpulse/internal/llm"
	"github.com/adpulse/adpulse/internal/schema"
)

const (
	sentinelInvalid   = "INVALID QUERY"
	sentinelNoResults = "NO RESULTS"
)

// Generator is the production Translator. It builds the schema-bound
// instruction set, calls the model, and classifies the reply against the
// two sentinels by exact string match.
type Generator struct {
	client llm.Client
	model  string
	schema schema.Descriptor
}

func NewGenerator(client llm.Client, model string, descriptor schema.Descriptor) (*Generator, error) {
	if client == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("model is required")
	}
	if descriptor.Table == "" || len(descriptor.Columns) == 0 {
		return nil, fmt.Errorf("schema descriptor is required")
	}
	return &Generator{client: client, model: strings.TrimSpace(model), schema: descriptor}, nil
}

func (g *Generator) Translate(ctx context.Context, question string) (Outcome, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Outcome{}, fmt.Errorf("question is required")
	}

	reply, err := g.client.Complete(ctx, llm.Request{
		Model:  g.model,
		System: sqlSystemPrompt,
		User:   g.userPrompt(question),
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("translate question: %w", err)
	}
	return ParseReply(reply)
}

// ParseReply classifies raw model output into the three-way outcome.
// Markdown fencing and surrounding whitespace are tolerated even though
// the prompt forbids them.
func ParseReply(reply string) (Outcome, error) {
	cleaned := stripMarkdownFence(reply)
	switch strings.ToUpper(cleaned) {
	case sentinelInvalid:
		return Outcome{Kind: KindInvalid}, nil
	case sentinelNoResults:
		return Outcome{Kind: KindNoResults}, nil
	}
	if cleaned == "" {
		return Outcome{}, fmt.Errorf("model returned empty reply")
	}
	return Outcome{Kind: KindSQL, SQL: cleaned}, nil
}

const sqlSystemPrompt = `You are a marketing analytics assistant that translates natural language business questions into SQL queries over a single advertising performance table.

Rules:
- Use ONLY the columns listed in the schema. NEVER invent table or column names.
- Metrics may be read directly or derived from existing columns using the given formulas, or any formula constructible from listed columns.
- Wrap string and date literals in single quotes.
- Name computed columns with AS (e.g. spend / conversions AS CPA).
- Return ONLY the SQL statement in plain text. No markdown fences, no quotes, no explanation, and never more than one statement.
- If the question cannot be answered from the schema, return exactly: INVALID QUERY
- If the query is valid but is structurally certain to return no rows, return exactly: NO RESULTS`

func (g *Generator) userPrompt(question string) string {
	var b strings.Builder
	b.WriteString("Table schema:\n\n")
	b.WriteString(g.schema.DDL())
	b.WriteString("\n\nDerivable metric formulas:\n")
	b.WriteString(g.schema.MetricFormulas())
	b.WriteString("\n\nNatural language question:\n\"")
	b.WriteString(question)
	b.WriteString("\"\n\nSQL query (or sentinel):")
	return b.String()
}

func stripMarkdownFence(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```sql")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		return strings.TrimSpace(trimmed)
	}
	return trimmed
}
