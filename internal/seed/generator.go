// Package seed produces a synthetic advertising-performance dataset so
// the assistant has something to query out of the box.
package seed

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Row mirrors the customer table column for column. Derived KPI columns
// are computed from the base counters so the stored metrics stay
// consistent with their formulas.
type Row struct {
	CustomerID  string  `parquet:"customer_id"`
	Platform    string  `parquet:"platform"`
	Segment     string  `parquet:"segment"`
	SKU         string  `parquet:"SKU"`
	Hour        int32   `parquet:"hour"`
	Date        string  `parquet:"date"`
	ROAS        float64 `parquet:"ROAS"`
	CTR         float64 `parquet:"CTR"`
	CPC         float64 `parquet:"CPC"`
	CPM         float64 `parquet:"CPM"`
	CPA         float64 `parquet:"CPA"`
	Impressions int64   `parquet:"impressions"`
	Clicks      float64 `parquet:"clicks"`
	Conversions float64 `parquet:"conversions"`
	Spend       float64 `parquet:"spend"`
	Revenue     float64 `parquet:"revenue"`
	AdName      string  `parquet:"ad_name"`
	AdType      string  `parquet:"ad_type"`
	CampaignID  string  `parquet:"campaign_id"`
}

var (
	platforms = []string{"Meta", "Google", "TikTok", "LinkedIn", "Snapchat"}
	segments  = []string{"prospecting", "retargeting", "loyalty", "winback"}
	adTypes   = []string{"video", "carousel", "static", "search", "story"}
)

type Generator struct {
	rnd      *rand.Rand
	sequence int64
	start    time.Time
	days     int
}

// NewGenerator is deterministic for a given seed, so repeated seeding
// runs produce identical datasets.
func NewGenerator(seed int64, start time.Time, days int) *Generator {
	if days <= 0 {
		days = 30
	}
	return &Generator{
		rnd:   rand.New(rand.NewSource(seed)),
		start: start.UTC().Truncate(24 * time.Hour),
		days:  days,
	}
}

func (g *Generator) NextRow() Row {
	g.sequence++
	day := g.rnd.Intn(g.days)
	hour := g.rnd.Intn(24)
	date := g.start.AddDate(0, 0, day)

	impressions := int64(1000 + g.rnd.Intn(99000))
	ctrPct := 0.2 + g.rnd.Float64()*4.8
	clicks := math.Round(float64(impressions) * ctrPct / 100)
	if clicks < 1 {
		clicks = 1
	}
	conversions := math.Round(clicks * (0.01 + g.rnd.Float64()*0.14))
	spend := round2(clicks * (0.2 + g.rnd.Float64()*2.8))
	revenue := round2(conversions * (10 + g.rnd.Float64()*190))

	row := Row{
		CustomerID:  fmt.Sprintf("cust-%04d", g.rnd.Intn(500)+1),
		Platform:    pickOne(g.rnd, platforms),
		Segment:     pickOne(g.rnd, segments),
		SKU:         fmt.Sprintf("SKU-%05d", g.rnd.Intn(2000)+1),
		Hour:        int32(hour),
		Date:        date.Format("2006-01-02"),
		Impressions: impressions,
		Clicks:      clicks,
		Conversions: conversions,
		Spend:       spend,
		Revenue:     revenue,
		AdName:      fmt.Sprintf("ad-%06d", g.sequence),
		AdType:      pickOne(g.rnd, adTypes),
		CampaignID:  fmt.Sprintf("camp-%03d", g.rnd.Intn(40)+1),
	}
	row.ROAS = round2(safeDiv(revenue, spend))
	row.CTR = round2(safeDiv(clicks, float64(impressions)) * 100)
	row.CPC = round2(safeDiv(spend, clicks))
	row.CPA = round2(safeDiv(spend, conversions))
	row.CPM = round2(safeDiv(spend, float64(impressions)) * 1000)
	return row
}

func (g *Generator) Rows(count int) []Row {
	rows := make([]Row, 0, count)
	for i := 0; i < count; i++ {
		rows = append(rows, g.NextRow())
	}
	return rows
}

func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func pickOne(r *rand.Rand, values []string) string {
	return values[r.Intn(len(values))]
}
