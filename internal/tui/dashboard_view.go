package tui

import (
	"fmt"
	"strings"

	"github.com/Adithya151/DCF---racker/internal/greenops"
	"github.com/Adithya151/DCF---racker/internal/tracker"
)

const (
	progressBarWidth = 30
	maxPercent       = 100
	percentScale     = 100.0
	dateLayout       = "2006-01-02"
)

// RenderDashboard renders a boxed summary of one user's dashboard. cf sets the
// unit and decimal places of CO2 amounts and width the total box width.
func RenderDashboard(d *tracker.Dashboard, cf greenops.CarbonFormat, width int) string {
	if d == nil {
		return InfoStyle.Render("No dashboard to display.")
	}
	if width <= borderPadding {
		width = defaultWidth
	}

	var content strings.Builder

	content.WriteString(HeaderStyle.Render("CARBON FOOTPRINT"))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render("User:        "))
	content.WriteString(ValueStyle.Render(d.UserID))
	content.WriteString(LabelStyle.Render("    Period: "))
	content.WriteString(ValueStyle.Render(string(d.Period)))
	if d.Window.Start != nil {
		content.WriteString(LabelStyle.Render(" since "))
		content.WriteString(ValueStyle.Render(d.Window.Start.Format(dateLayout)))
	}
	content.WriteString("\n\n")

	agg := d.Aggregate
	content.WriteString(LabelStyle.Render("Total:       "))
	content.WriteString(ValueStyle.Render(cf.Format(agg.TotalCO2Kg)))
	content.WriteString(LabelStyle.Render(fmt.Sprintf("    Submissions: %d", agg.RecordCount)))
	content.WriteString("\n")

	if !agg.IsEmpty() {
		content.WriteString(renderBreakdown(agg.Contribution.EmailsKg, agg.Contribution.DriveKg,
			agg.Contribution.CommitsKg, agg.TotalCO2Kg, cf))
	}

	content.WriteString(LabelStyle.Render("Forecast:    "))
	if d.Prediction != nil {
		content.WriteString(ValueStyle.Render(cf.Format(d.Prediction.Value)))
		content.WriteString(LabelStyle.Render(fmt.Sprintf(" cumulative after %d more submissions", d.Prediction.Horizon)))
	} else {
		content.WriteString(SubtleStyle.Render("not enough data"))
	}
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Today:       "))
	content.WriteString(renderProgressBar(d.Today.Percent, d.Today.Exceeded()))
	content.WriteString(LabelStyle.Render(fmt.Sprintf(" %s of %s",
		cf.Format(d.Today.Kg), cf.Format(d.Today.GoalKg))))
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Rank:        "))
	if d.Rank != nil {
		content.WriteString(ValueStyle.Render(fmt.Sprintf("#%d of %d", d.Rank.Rank, d.Rank.Total)))
		content.WriteString(LabelStyle.Render(fmt.Sprintf(" (top %.0f%%)", d.Rank.TopPercent)))
	} else {
		content.WriteString(SubtleStyle.Render("unranked"))
	}
	content.WriteString("\n")

	if len(d.Suggestions) > 0 {
		content.WriteString("\n")
		content.WriteString(HeaderStyle.Render("SUGGESTIONS"))
		for _, s := range d.Suggestions {
			content.WriteString("\n")
			content.WriteString("  • " + s.Message)
		}
		content.WriteString("\n")
	}

	if !d.Equivalency.IsEmpty {
		content.WriteString("\n")
		content.WriteString(SubtleStyle.Render(d.Equivalency.DisplayText))
	}

	return BoxStyle.Width(width - borderPadding).Render(strings.TrimRight(content.String(), "\n"))
}

func renderBreakdown(emailsKg, driveKg, commitsKg, totalKg float64, cf greenops.CarbonFormat) string {
	parts := []struct {
		label string
		kg    float64
	}{
		{"emails", emailsKg},
		{"drive", driveKg},
		{"commits", commitsKg},
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		pct := 0.0
		if totalKg > 0 {
			pct = p.kg / totalKg * percentScale
		}
		out = append(out, fmt.Sprintf("%s: %s (%.1f%%)", p.label, cf.Format(p.kg), pct))
	}
	return LabelStyle.Render("             "+strings.Join(out, "  ")) + "\n"
}

// renderProgressBar draws a fixed-width bar filled to percent.
func renderProgressBar(percent int, exceeded bool) string {
	if percent < 0 {
		percent = 0
	}
	if percent > maxPercent {
		percent = maxPercent
	}
	filled := percent * progressBarWidth / maxPercent
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
	return ProgressStyle(percent, exceeded).Render(fmt.Sprintf("%s %3d%%", bar, percent))
}
