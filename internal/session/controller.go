// Package session orchestrates one question-to-insight turn: translate,
// guard, execute, summarize. Turns run strictly one at a time and the
// transcript lives only for the lifetime of the controller.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/adpulse/adpulse/internal/insight"
	"github.com/adpulse/adpulse/internal/nl2sql"
	"github.com/adpulse/adpulse/internal/observability"
	"github.com/adpulse/adpulse/internal/query"
)

// State is the terminal state of a turn. Every state maps to exactly
// one user-visible message class: error (invalid, failed), warning
// (no_results_predicted, empty_results), or success (insight_ready).
type State string

const (
	StateInvalid            State = "invalid"
	StateNoResultsPredicted State = "no_results_predicted"
	StateEmptyResults       State = "empty_results"
	StateInsightReady       State = "insight_ready"
	StateFailed             State = "failed"
)

const (
	msgInvalid            = "This question cannot be answered from the advertising dataset. Ask about platforms, campaigns, segments, spend, or performance metrics."
	msgNoResultsPredicted = "The question is answerable, but no matching data is expected."
	msgEmptyResults       = "No data matched this question."
	msgInsightReady       = "Insight generated."
	msgFailed             = "Something went wrong while answering this question. Please try again."
)

type Turn struct {
	Question string        `json:"question"`
	SQL      string        `json:"sql,omitempty"`
	Columns  []string      `json:"columns,omitempty"`
	Rows     [][]any       `json:"rows,omitempty"`
	Insight  string        `json:"insight,omitempty"`
	State    State         `json:"state"`
	Message  string        `json:"message"`
	AskedAt  time.Time     `json:"asked_at"`
	Duration time.Duration `json:"duration_ns"`
}

type Dependencies struct {
	Translator nl2sql.Translator
	Engine     query.Engine
	Insights   insight.Generator
	Logger     *slog.Logger
	Table      string
	RowLimit   int
}

type Controller struct {
	deps Dependencies
	now  func() time.Time

	mu      sync.Mutex
	history []Turn
}

func NewController(deps Dependencies) *Controller {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Controller{deps: deps, now: func() time.Time { return time.Now().UTC() }}
}

// RunTurn executes one full turn and appends it to the transcript. It
// never returns a raw dependency error: every fault lands in a terminal
// state with a human-readable message, and details go to the log only.
func (c *Controller) RunTurn(ctx context.Context, question string) Turn {
	c.mu.Lock()
	defer c.mu.Unlock()

	turn := Turn{Question: question, AskedAt: c.now()}
	start := time.Now()
	turn = c.execute(ctx, turn)
	turn.Duration = time.Since(start)
	c.history = append(c.history, turn)
	observability.ObserveTurn(string(turn.State))
	return turn
}

func (c *Controller) execute(ctx context.Context, turn Turn) Turn {
	translateStart := time.Now()
	outcome, err := c.deps.Translator.Translate(ctx, turn.Question)
	observability.ObserveTranslate(time.Since(translateStart))
	if err != nil {
		c.deps.Logger.ErrorContext(ctx, "query generation failed", slog.Any("error", err))
		return fail(turn)
	}

	switch outcome.Kind {
	case nl2sql.KindInvalid:
		turn.State = StateInvalid
		turn.Message = msgInvalid
		return turn
	case nl2sql.KindNoResults:
		turn.State = StateNoResultsPredicted
		turn.Message = msgNoResultsPredicted
		return turn
	}

	turn.SQL = outcome.SQL
	if err := query.EnsureReadOnly(outcome.SQL, c.deps.Table); err != nil {
		// A rejected statement is a locally detected invalid query; the
		// model's own validity claim does not override the guard.
		c.deps.Logger.WarnContext(ctx, "generated query rejected",
			slog.String("sql", outcome.SQL),
			slog.Any("error", err),
		)
		turn.State = StateInvalid
		turn.Message = msgInvalid
		return turn
	}

	result, err := c.deps.Engine.Execute(ctx, query.Request{SQL: outcome.SQL, RowLimit: c.deps.RowLimit})
	if err != nil {
		c.deps.Logger.ErrorContext(ctx, "query execution failed",
			slog.String("sql", outcome.SQL),
			slog.Any("error", err),
		)
		return fail(turn)
	}
	observability.ObserveQuery(result.Duration, len(result.Rows))

	turn.Columns = result.Columns
	turn.Rows = result.Rows
	if len(result.Rows) == 0 {
		// The generator predicted data; the actual result set wins.
		turn.State = StateEmptyResults
		turn.Message = msgEmptyResults
		return turn
	}

	insightStart := time.Now()
	text, err := c.deps.Insights.Generate(ctx, insight.Request{
		Question: turn.Question,
		SQL:      outcome.SQL,
		Columns:  result.Columns,
		Rows:     result.Rows,
	})
	observability.ObserveInsight(time.Since(insightStart))
	if err != nil {
		c.deps.Logger.ErrorContext(ctx, "insight generation failed",
			slog.String("sql", outcome.SQL),
			slog.Any("error", err),
		)
		return fail(turn)
	}

	turn.Insight = text
	turn.State = StateInsightReady
	turn.Message = msgInsightReady
	return turn
}

func fail(turn Turn) Turn {
	turn.State = StateFailed
	turn.Message = msgFailed
	return turn
}

// History returns a copy of the transcript in ask order.
func (c *Controller) History() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.history))
	copy(out, c.history)
	return out
}

// Reset clears the transcript, ending the session.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
}
