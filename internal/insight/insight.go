// Package insight turns executed query results into plain-English
// marketing analysis.
package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/adpulse/adpulse/internal/llm"
)

type Request struct {
	Question string
	SQL      string
	Columns  []string
	Rows     [][]any
}

// Generator produces one insight per non-empty result set. There is no
// sentinel branch here: any generation failure aborts the turn.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

type PromptGenerator struct {
	client llm.Client
	model  string
}

func NewPromptGenerator(client llm.Client, model string) (*PromptGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("model is required")
	}
	return &PromptGenerator{client: client, model: strings.TrimSpace(model)}, nil
}

func (g *PromptGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Question) == "" {
		return "", fmt.Errorf("question is required")
	}
	if len(req.Rows) == 0 {
		return "", fmt.Errorf("result rows are required")
	}

	text, err := g.client.Complete(ctx, llm.Request{
		Model:  g.model,
		System: insightSystemPrompt,
		User:   buildUserPrompt(req),
	})
	if err != nil {
		return "", fmt.Errorf("generate insight: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("model returned empty insight")
	}
	return text, nil
}

const insightSystemPrompt = `You are a senior marketing analyst interpreting SQL query results over advertising KPIs (ROAS, CTR, CPC, CPA, spend, revenue, conversions, impressions).

Write clear, concise, actionable marketing insights in plain English:
- Explain what the numbers mean: best performing platforms, campaigns, or ad types, efficiency issues, anomalies.
- Call out underperformers (high CPA, low ROAS) and what a marketer should consider next (scale, pause, test creatives).
- Mention derived metrics like conversion rate when the data supports them.

Never repeat raw numbers without interpretation, never include SQL or technical explanation, and never mention metrics absent from the result.`

func buildUserPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("The analyst asked:\n")
	b.WriteString(strings.TrimSpace(req.Question))
	b.WriteString("\n\nThe SQL query that answered it:\n")
	b.WriteString(strings.TrimSpace(req.SQL))
	b.WriteString("\n\nThe query result:\n")
	b.WriteString(RenderRows(req.Columns, req.Rows))
	b.WriteString("\nWrite the marketing insight for this result:")
	return b.String()
}

// RenderRows flattens a result set into plain text for prompt embedding.
func RenderRows(columns []string, rows [][]any) string {
	var b strings.Builder
	if len(columns) > 0 {
		b.WriteString(strings.Join(columns, " | "))
		b.WriteString("\n")
	}
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, value := range row {
			cells = append(cells, formatValue(value))
		}
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString("\n")
	}
	return b.String()
}

func formatValue(value any) string {
	if value == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", value)
}
