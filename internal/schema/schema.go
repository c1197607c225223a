// Package schema holds the static description of the single queryable
// table. The descriptor is the only source of truth for which columns a
// generated query may reference.
package schema

import (
	"fmt"
	"strings"
)

type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Metric is a KPI derivable from existing columns.
type Metric struct {
	Name    string `json:"name"`
	Formula string `json:"formula"`
}

type Descriptor struct {
	Table   string   `json:"table"`
	Columns []Column `json:"columns"`
	Metrics []Metric `json:"metrics"`
}

// Marketing returns the fixed advertising-performance table. Generated
// SQL must never reference anything outside this list.
func Marketing() Descriptor {
	return Descriptor{
		Table: "customer",
		Columns: []Column{
			{Name: "customer_id", Type: "VARCHAR(20)"},
			{Name: "platform", Type: "VARCHAR(20)"},
			{Name: "segment", Type: "VARCHAR(20)"},
			{Name: "SKU", Type: "VARCHAR(50)"},
			{Name: "hour", Type: "INT"},
			{Name: "date", Type: "DATE"},
			{Name: "ROAS", Type: "FLOAT"},
			{Name: "CTR", Type: "FLOAT"},
			{Name: "CPC", Type: "FLOAT"},
			{Name: "CPM", Type: "FLOAT"},
			{Name: "CPA", Type: "FLOAT"},
			{Name: "impressions", Type: "INT"},
			{Name: "clicks", Type: "FLOAT"},
			{Name: "conversions", Type: "FLOAT"},
			{Name: "spend", Type: "FLOAT"},
			{Name: "revenue", Type: "FLOAT"},
			{Name: "ad_name", Type: "VARCHAR(100)"},
			{Name: "ad_type", Type: "VARCHAR(20)"},
			{Name: "campaign_id", Type: "VARCHAR(50)"},
		},
		Metrics: []Metric{
			{Name: "ROAS", Formula: "revenue / spend"},
			{Name: "CTR", Formula: "(clicks / impressions) * 100"},
			{Name: "CPC", Formula: "spend / clicks"},
			{Name: "CPA", Formula: "spend / conversions"},
			{Name: "CPM", Formula: "(spend / impressions) * 1000"},
		},
	}
}

// DDL renders the descriptor as a CREATE TABLE statement for prompt
// embedding.
func (d Descriptor) DDL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", d.Table)
	for i, column := range d.Columns {
		fmt.Fprintf(&b, "    %s %s", column.Name, column.Type)
		if i < len(d.Columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(");")
	return b.String()
}

func (d Descriptor) ColumnNames() []string {
	names := make([]string, 0, len(d.Columns))
	for _, column := range d.Columns {
		names = append(names, column.Name)
	}
	return names
}

// HasColumn reports whether name matches a declared column,
// case-insensitively, matching how SQL resolves identifiers.
func (d Descriptor) HasColumn(name string) bool {
	for _, column := range d.Columns {
		if strings.EqualFold(column.Name, name) {
			return true
		}
	}
	return false
}

func (d Descriptor) MetricFormulas() string {
	lines := make([]string, 0, len(d.Metrics))
	for _, metric := range d.Metrics {
		lines = append(lines, fmt.Sprintf("- %s = %s", metric.Name, metric.Formula))
	}
	return strings.Join(lines, "\n")
}
