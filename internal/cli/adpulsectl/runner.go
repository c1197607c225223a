// Package adpulsectl implements the command-line client for the
// adpulse API, including an interactive chat loop.
package adpulsectl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
)

type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

type askResult struct {
	State   string   `json:"state"`
	Message string   `json:"message"`
	SQL     string   `json:"sql"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	Insight string   `json:"insight"`
}

func Run(ctx context.Context, args []string, defaults Options) int {
	stdout := defaults.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := defaults.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	fs := flag.NewFlagSet("adpulsectl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	baseURL := fs.String("base-url", firstNonEmpty(defaults.BaseURL, "http://localhost:8080"), "adpulse API base URL")
	apiKey := fs.String("api-key", defaults.APIKey, "API key for authenticated requests")
	timeout := fs.Duration("timeout", durationOr(defaults.Timeout, 60*time.Second), "HTTP timeout (e.g. 60s)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		writeUsage(stderr)
		return 2
	}

	client := defaults.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: *timeout}
	}
	session := &apiSession{
		client:  client,
		baseURL: strings.TrimRight(*baseURL, "/"),
		apiKey:  strings.TrimSpace(*apiKey),
	}

	command := strings.TrimSpace(fs.Arg(0))
	switch command {
	case "health":
		return runJSONCommand(ctx, session, http.MethodGet, "/v1/health", stdout, stderr)
	case "ready":
		return runJSONCommand(ctx, session, http.MethodGet, "/v1/ready", stdout, stderr)
	case "schema":
		return runJSONCommand(ctx, session, http.MethodGet, "/v1/schema", stdout, stderr)
	case "history":
		return runJSONCommand(ctx, session, http.MethodGet, "/v1/history", stdout, stderr)
	case "reset":
		return runJSONCommand(ctx, session, http.MethodDelete, "/v1/history", stdout, stderr)
	case "ask":
		question := strings.TrimSpace(strings.Join(fs.Args()[1:], " "))
		if question == "" {
			_, _ = fmt.Fprintln(stderr, "ask requires a question")
			return 2
		}
		return runAsk(ctx, session, question, stdout, stderr)
	case "chat":
		stdin := defaults.Stdin
		if stdin == nil {
			_, _ = fmt.Fprintln(stderr, "chat requires an input stream")
			return 2
		}
		return runChat(ctx, session, stdin, stdout, stderr)
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n", command)
		writeUsage(stderr)
		return 2
	}
}

func runJSONCommand(ctx context.Context, session *apiSession, method, path string, stdout, stderr io.Writer) int {
	code, body, err := session.do(ctx, method, path, nil)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "request failed: %v\n", err)
		return 1
	}
	if code >= 400 {
		_, _ = fmt.Fprintf(stderr, "http %d: %s\n", code, strings.TrimSpace(string(body)))
		return 1
	}
	if pretty, ok := prettyJSON(body); ok {
		_, _ = fmt.Fprintln(stdout, pretty)
		return 0
	}
	if len(body) > 0 {
		_, _ = fmt.Fprintln(stdout, string(body))
	}
	return 0
}

func runAsk(ctx context.Context, session *apiSession, question string, stdout, stderr io.Writer) int {
	result, err := session.ask(ctx, question)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "request failed: %v\n", err)
		return 1
	}
	renderTurn(stdout, result)
	return 0
}

func runChat(ctx context.Context, session *apiSession, stdin io.Reader, stdout, stderr io.Writer) int {
	_, _ = fmt.Fprintln(stdout, "Ask a marketing question, or type 'exit' to leave and 'reset' to start over.")
	scanner := bufio.NewScanner(stdin)
	for {
		_, _ = fmt.Fprint(stdout, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "exit" || line == "quit":
			return 0
		case line == "reset":
			if code, body, err := session.do(ctx, http.MethodDelete, "/v1/history", nil); err != nil {
				_, _ = fmt.Fprintf(stderr, "request failed: %v\n", err)
			} else if code >= 400 {
				_, _ = fmt.Fprintf(stderr, "http %d: %s\n", code, strings.TrimSpace(string(body)))
			} else {
				_, _ = fmt.Fprintln(stdout, "Session reset.")
			}
			continue
		}

		result, err := session.ask(ctx, line)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "request failed: %v\n", err)
			continue
		}
		renderTurn(stdout, result)
	}
	if err := scanner.Err(); err != nil {
		_, _ = fmt.Fprintf(stderr, "read input: %v\n", err)
		return 1
	}
	return 0
}

func renderTurn(stdout io.Writer, result askResult) {
	if result.SQL != "" {
		_, _ = fmt.Fprintf(stdout, "sql: %s\n", result.SQL)
	}
	if len(result.Rows) > 0 {
		table := tablewriter.NewWriter(stdout)
		table.SetHeader(result.Columns)
		for _, row := range result.Rows {
			cells := make([]string, len(row))
			for i, value := range row {
				cells[i] = formatCell(value)
			}
			table.Append(cells)
		}
		table.Render()
	}
	if result.Insight != "" {
		_, _ = fmt.Fprintln(stdout, result.Insight)
		return
	}
	_, _ = fmt.Fprintln(stdout, result.Message)
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case float64:
		// JSON numbers decode as float64; keep integers undotted.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%.2f", v)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

type apiSession struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func (s *apiSession) ask(ctx context.Context, question string) (askResult, error) {
	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return askResult{}, err
	}
	code, body, err := s.do(ctx, http.MethodPost, "/v1/ask", payload)
	if err != nil {
		return askResult{}, err
	}
	if code >= 400 {
		return askResult{}, fmt.Errorf("http %d: %s", code, strings.TrimSpace(string(body)))
	}
	var result askResult
	if err := json.Unmarshal(body, &result); err != nil {
		return askResult{}, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}

func (s *apiSession) do(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func prettyJSON(raw []byte) (string, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", false
	}
	var anyValue any
	if err := json.Unmarshal(raw, &anyValue); err != nil {
		return "", false
	}
	formatted, err := json.MarshalIndent(anyValue, "", "  ")
	if err != nil {
		return "", false
	}
	return string(formatted), true
}

func writeUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "usage: adpulsectl [flags] <command>")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "commands:")
	_, _ = fmt.Fprintln(w, "  health           GET /v1/health")
	_, _ = fmt.Fprintln(w, "  ready            GET /v1/ready")
	_, _ = fmt.Fprintln(w, "  schema           GET /v1/schema")
	_, _ = fmt.Fprintln(w, "  history          GET /v1/history")
	_, _ = fmt.Fprintln(w, "  reset            DELETE /v1/history")
	_, _ = fmt.Fprintln(w, "  ask <question>   POST /v1/ask")
	_, _ = fmt.Fprintln(w, "  chat             interactive ask loop")
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return b
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
