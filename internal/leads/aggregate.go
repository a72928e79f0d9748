package leads

import (
	"strings"
	"time"
)

// Stats holds the admin dashboard counters.
type Stats struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	ThisWeek  int `json:"this_week"`
	ThisMonth int `json:"this_month"`
}

// ComputeStats counts leads created on or after local midnight of now, the
// last 7 days, and the last 30 days. Week and month windows start at today's
// midnight, matching the dashboard the numbers feed.
func ComputeStats(all []*Lead, now time.Time) Stats {
	today := midnight(now)
	weekAgo := today.AddDate(0, 0, -7)
	monthAgo := today.AddDate(0, 0, -30)

	stats := Stats{Total: len(all)}
	for _, lead := range all {
		if !lead.CreatedAt.Before(today) {
			stats.Today++
		}
		if !lead.CreatedAt.Before(weekAgo) {
			stats.ThisWeek++
		}
		if !lead.CreatedAt.Before(monthAgo) {
			stats.ThisMonth++
		}
	}
	return stats
}

// Filter applies a case-insensitive substring search over nombre, email and
// telefono, ANDed with a date range of "all", "today", "week" or "month".
// Range boundaries are inclusive and match ComputeStats. Order is preserved.
func Filter(all []*Lead, searchTerm, dateRange string, now time.Time) []*Lead {
	term := strings.ToLower(strings.TrimSpace(searchTerm))

	var cutoff time.Time
	today := midnight(now)
	switch dateRange {
	case "today":
		cutoff = today
	case "week":
		cutoff = today.AddDate(0, 0, -7)
	case "month":
		cutoff = today.AddDate(0, 0, -30)
	}

	out := make([]*Lead, 0, len(all))
	for _, lead := range all {
		if term != "" && !matchesTerm(lead, term) {
			continue
		}
		if !cutoff.IsZero() && lead.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, lead)
	}
	return out
}

func matchesTerm(lead *Lead, term string) bool {
	if strings.Contains(strings.ToLower(lead.Nombre), term) {
		return true
	}
	if strings.Contains(strings.ToLower(lead.Email), term) {
		return true
	}
	return lead.Telefono != nil && strings.Contains(*lead.Telefono, term)
}

func midnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// csvHeader is the fixed export column set; changing it breaks downstream
// spreadsheets.
var csvHeader = []string{"Nombre", "Email", "Telefono", "Source", "UTM Source", "UTM Campaign", "UTM Medium", "Fecha"}

// BuildCSV renders leads as CSV in the order given. Every cell is wrapped in
// double quotes (the export contract, not just where escaping requires it),
// with embedded quotes doubled.
func BuildCSV(filtered []*Lead) string {
	var b strings.Builder
	writeCSVRow(&b, csvHeader)
	for _, lead := range filtered {
		writeCSVRow(&b, []string{
			lead.Nombre,
			lead.Email,
			deref(lead.Telefono),
			lead.Source,
			deref(lead.UTMSource),
			deref(lead.UTMCampaign),
			deref(lead.UTMMedium),
			lead.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return b.String()
}

func writeCSVRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
