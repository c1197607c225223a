package insight

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/adpulse/adpulse/internal/llm"
)

type fakeClient struct {
	reply    string
	err      error
	requests []llm.Request
}

func (f *fakeClient) Complete(_ context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func sampleRequest() Request {
	return Request{
		Question: "What platform had the highest ROAS last month?",
		SQL:      "SELECT platform, ROAS FROM customer ORDER BY ROAS DESC LIMIT 1;",
		Columns:  []string{"platform", "ROAS"},
		Rows:     [][]any{{"Meta", 4.2}},
	}
}

func TestGenerateReturnsInsightText(t *testing.T) {
	client := &fakeClient{reply: "Meta is your strongest channel, returning over four dollars per ad dollar. Consider scaling its budget."}
	generator, err := NewPromptGenerator(client, "m1")
	if err != nil {
		t.Fatalf("NewPromptGenerator() error = %v", err)
	}

	got, err := generator.Generate(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(got, "Meta") {
		t.Fatalf("Generate() = %q", got)
	}
}

func TestGeneratePromptCarriesQuestionSQLAndRows(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	generator, err := NewPromptGenerator(client, "m1")
	if err != nil {
		t.Fatalf("NewPromptGenerator() error = %v", err)
	}

	if _, err := generator.Generate(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(client.requests) != 1 {
		t.Fatalf("request count = %d", len(client.requests))
	}
	prompt := client.requests[0].User
	if !strings.Contains(prompt, "highest ROAS last month") {
		t.Fatalf("prompt missing question: %q", prompt)
	}
	if !strings.Contains(prompt, "ORDER BY ROAS DESC") {
		t.Fatalf("prompt missing sql: %q", prompt)
	}
	if !strings.Contains(prompt, "Meta | 4.2") {
		t.Fatalf("prompt missing rows: %q", prompt)
	}
}

func TestGenerateFailsOnEmptyRows(t *testing.T) {
	generator, err := NewPromptGenerator(&fakeClient{reply: "ok"}, "m1")
	if err != nil {
		t.Fatalf("NewPromptGenerator() error = %v", err)
	}
	req := sampleRequest()
	req.Rows = nil
	if _, err := generator.Generate(context.Background(), req); err == nil {
		t.Fatal("Generate() expected error for empty rows")
	}
}

func TestGeneratePropagatesClientFailure(t *testing.T) {
	generator, err := NewPromptGenerator(&fakeClient{err: errors.New("model offline")}, "m1")
	if err != nil {
		t.Fatalf("NewPromptGenerator() error = %v", err)
	}
	if _, err := generator.Generate(context.Background(), sampleRequest()); err == nil {
		t.Fatal("Generate() expected error")
	}
}

func TestRenderRowsFormatsNulls(t *testing.T) {
	got := RenderRows([]string{"platform", "CPA"}, [][]any{{"Meta", nil}})
	if !strings.Contains(got, "Meta | NULL") {
		t.Fatalf("RenderRows() = %q", got)
	}
	if !strings.HasPrefix(got, "platform | CPA\n") {
		t.Fatalf("RenderRows() header = %q", got)
	}
}
