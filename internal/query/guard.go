package query

import (
	"fmt"
	"strings"
)

// forbiddenKeywords are statement-level keywords that mutate state or
// escape the dataset. Generated SQL carrying any of them is rejected
// before execution; the translator's own validity claims are hints, not
// guarantees.
var forbiddenKeywords = []string{
	"insert", "update", "delete", "merge", "truncate",
	"create", "alter", "drop", "grant", "revoke",
	"attach", "detach", "copy", "export", "import",
	"pragma", "vacuum", "set", "call", "install", "load",
}

// EnsureReadOnly rejects anything that is not a single SELECT or WITH
// statement over known tables.
func EnsureReadOnly(sqlText, table string) error {
	trimmed := strings.TrimSpace(stripTrailingSemicolons(sqlText))
	if trimmed == "" {
		return fmt.Errorf("sql is required")
	}
	if strings.Contains(trimmed, ";") {
		return fmt.Errorf("multiple statements are not allowed")
	}

	lowered := strings.ToLower(trimmed)
	if !strings.HasPrefix(lowered, "select") && !strings.HasPrefix(lowered, "with") {
		return fmt.Errorf("only SELECT/WITH statements are allowed")
	}
	for _, token := range tokenize(lowered) {
		for _, keyword := range forbiddenKeywords {
			if token == keyword {
				return fmt.Errorf("statement contains forbidden keyword %q", keyword)
			}
		}
	}
	if table != "" && !referencesOnlyTable(lowered, strings.ToLower(table)) {
		return fmt.Errorf("statement references a table other than %q", table)
	}
	return nil
}

// referencesOnlyTable checks every FROM/JOIN target against the known
// table name. Subqueries and CTE names introduced by WITH are allowed.
func referencesOnlyTable(lowered, table string) bool {
	cteNames := map[string]bool{}
	tokens := tokenize(lowered)
	for i, token := range tokens {
		// A CTE name sits between WITH (or the comma separating CTEs)
		// and "as (". Select-list aliases also use "as" but are never
		// followed by an opening paren, so they must not register here.
		if i > 0 && i+2 < len(tokens) &&
			tokens[i+1] == "as" && tokens[i+2] == "(" &&
			(tokens[i-1] == "with" || tokens[i-1] == ",") {
			cteNames[token] = true
		}
	}
	for i, token := range tokens {
		if token != "from" && token != "join" {
			continue
		}
		if i+1 >= len(tokens) {
			return false
		}
		target := tokens[i+1]
		if target == "(" {
			continue
		}
		if target == table || cteNames[target] {
			continue
		}
		return false
	}
	return true
}

func tokenize(sqlText string) []string {
	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	inString := false
	for _, r := range sqlText {
		switch {
		case r == '\'':
			inString = !inString
			flush()
		case inString:
			// literal contents never form keywords
		case r == '"':
			// identifier quoting is transparent to the scan
		case r == '(' || r == ')' || r == ',':
			flush()
			tokens = append(tokens, string(r))
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func stripTrailingSemicolons(sqlText string) string {
	trimmed := strings.TrimSpace(sqlText)
	for strings.HasSuffix(trimmed, ";") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, ";"))
	}
	return trimmed
}
