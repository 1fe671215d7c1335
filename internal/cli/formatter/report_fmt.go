package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/campstats/internal/domain"
	"github.com/MrSnakeDoc/campstats/internal/render"
)

const (
	shareBarWidth = 20
	filledBlock   = "█"
	emptyBlock    = "░"
)

// ReportOptions tunes FormatReport.
type ReportOptions struct {
	ShareTotal      float64 // divisor of the category shares
	TopTechnologies int     // 0 hides the technology section
}

// ShareBar renders a share in [0,1] as a fixed-width bar.
func ShareBar(share float64, width int) string {
	share = min(max(share, 0), 1)
	filled := int(share * float64(width))
	return StyleBlue.Render(strings.Repeat(filledBlock, filled)) + Dim(strings.Repeat(emptyBlock, width-filled))
}

// FormatReport renders a summary as a terminal report.
func FormatReport(s domain.Summary, opts ReportOptions) string {
	var b strings.Builder

	b.WriteString(Header("Categories") + "\n")
	if len(s.CategoryTotals) == 0 {
		b.WriteString(Dim("no categorized pages") + "\n")
	} else {
		labels, shares := render.Shares(s.CategoryTotals, opts.ShareTotal)
		rows := make([][]string, 0, len(labels))
		for i, label := range labels {
			rows = append(rows, []string{
				Bold(label),
				formatMinutes(s.CategoryTotals[label]),
				ShareBar(shares[i], shareBarWidth),
				fmt.Sprintf("%d%%", render.SharePercent(shares[i])),
			})
		}
		b.WriteString(RenderTable([]string{"CATEGORY", "MINUTES", "SHARE", "%"}, rows))
	}

	b.WriteString("\n" + Header("Chapters") + "\n")
	if len(s.Chapters) == 0 {
		b.WriteString(Dim("no chapter pages") + "\n")
	} else {
		rows := make([][]string, 0, len(s.Chapters))
		for _, ch := range s.Chapters {
			rows = append(rows, []string{
				Bold(ch.Name),
				formatMinutes(ch.Minutes),
				strconv.Itoa(ch.Hours),
				strconv.Itoa(ch.Weeks),
			})
		}
		b.WriteString(RenderTable([]string{"CHAPTER", "MINUTES", "HOURS", "WEEKS"}, rows))
	}

	if opts.TopTechnologies > 0 {
		b.WriteString("\n" + Header("Technologies") + "\n")
		ranked := domain.RankTechnologies(s.TechnologyCounts, opts.TopTechnologies)
		if len(ranked) == 0 {
			b.WriteString(Dim("no technologies tagged on exercises") + "\n")
		} else {
			rows := make([][]string, 0, len(ranked))
			for _, tech := range ranked {
				rows = append(rows, []string{tech.Name, strconv.Itoa(tech.Count)})
			}
			b.WriteString(RenderTable([]string{"TECHNOLOGY", "EXERCISES"}, rows))
		}
	}

	b.WriteString("\n" + Header("Bootcamp") + "\n")
	style := StatusStyle(s.Status)
	fmt.Fprintf(&b, "%s hours, %s weeks at %d h/week (target %d weeks)  %s\n",
		style.Render(strconv.Itoa(s.TotalHours)),
		style.Render(strconv.Itoa(s.TotalWeeks)),
		domain.StudyHoursPerWeek, domain.TargetWeeks,
		StatusIndicator(s.Status))
	fmt.Fprintf(&b, "%s\n", Dim(fmt.Sprintf("%d pages, %s of %s minutes categorized",
		s.Pages, formatMinutes(s.CategorizedMinutes), formatMinutes(s.GrandTotalMinutes))))

	return b.String()
}

func formatMinutes(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}
