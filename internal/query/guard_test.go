package query

import (
	"strings"
	"testing"
)

func TestEnsureReadOnlyAcceptsSelects(t *testing.T) {
	statements := []string{
		"SELECT platform, ROAS FROM customer WHERE date >= '2024-05-01' ORDER BY ROAS DESC LIMIT 1;",
		"select spend / conversions AS CPA from customer",
		"WITH daily AS (SELECT date, SUM(spend) AS total FROM customer GROUP BY date) SELECT * FROM daily",
		"SELECT platform FROM customer JOIN customer ON 1=1",
		`SELECT "platform", "ROAS" FROM "customer"`,
	}
	for _, stmt := range statements {
		if err := EnsureReadOnly(stmt, "customer"); err != nil {
			t.Fatalf("EnsureReadOnly(%q) = %v", stmt, err)
		}
	}
}

func TestEnsureReadOnlyRejectsMutations(t *testing.T) {
	cases := []struct {
		sql  string
		want string
	}{
		{"DELETE FROM customer", "only SELECT/WITH"},
		{"DROP TABLE customer", "only SELECT/WITH"},
		{"SELECT 1; DROP TABLE customer", "multiple statements"},
		{"SELECT * FROM customer WHERE 1=1 union select * from secrets", "table other than"},
		{"SELECT * FROM orders", "table other than"},
		{"", "sql is required"},
	}
	for _, tc := range cases {
		err := EnsureReadOnly(tc.sql, "customer")
		if err == nil {
			t.Fatalf("EnsureReadOnly(%q) = nil, want error", tc.sql)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("EnsureReadOnly(%q) = %v, want %q", tc.sql, err, tc.want)
		}
	}
}

func TestEnsureReadOnlyRejectsAliasShadowingForeignTable(t *testing.T) {
	// A select-list alias must not be mistaken for a CTE name, or the
	// aliased foreign table would slip through the scope check.
	cases := []string{
		"SELECT 1, secrets AS s FROM secrets",
		"SELECT spend, secrets AS leak FROM customer JOIN secrets ON 1=1",
	}
	for _, stmt := range cases {
		err := EnsureReadOnly(stmt, "customer")
		if err == nil {
			t.Fatalf("EnsureReadOnly(%q) = nil, want error", stmt)
		}
		if !strings.Contains(err.Error(), "table other than") {
			t.Fatalf("EnsureReadOnly(%q) = %v", stmt, err)
		}
	}
}

func TestEnsureReadOnlyAllowsMultipleCTEs(t *testing.T) {
	stmt := "WITH daily AS (SELECT date, SUM(spend) AS total FROM customer GROUP BY date), " +
		"best AS (SELECT date FROM daily ORDER BY total DESC LIMIT 1) " +
		"SELECT * FROM best"
	if err := EnsureReadOnly(stmt, "customer"); err != nil {
		t.Fatalf("EnsureReadOnly(%q) = %v", stmt, err)
	}
}

func TestEnsureReadOnlyIgnoresKeywordsInsideLiterals(t *testing.T) {
	stmt := "SELECT * FROM customer WHERE ad_name = 'drop everything sale'"
	if err := EnsureReadOnly(stmt, "customer"); err != nil {
		t.Fatalf("EnsureReadOnly(%q) = %v", stmt, err)
	}
}

func TestEnsureReadOnlyRejectsForbiddenKeywords(t *testing.T) {
	stmt := "SELECT * FROM customer WHERE 1 = (attach 'x' as y)"
	if err := EnsureReadOnly(stmt, "customer"); err == nil {
		t.Fatal("EnsureReadOnly() expected error for attach")
	}
}

func TestStripTrailingSemicolons(t *testing.T) {
	if got := stripTrailingSemicolons("SELECT 1;; "); got != "SELECT 1" {
		t.Fatalf("stripTrailingSemicolons() = %q", got)
	}
}
