package render

import (
	"strconv"

	"github.com/MrSnakeDoc/campstats/internal/domain"
	"github.com/MrSnakeDoc/campstats/internal/page"
)

// Placeholder ids of the bootcamp totals on the stats page.
const (
	TotalHoursID = "total-hours"
	TotalWeeksID = "total-weeks"
)

// StatusColor is the CSS color for a bootcamp status.
func StatusColor(status domain.Status) string {
	if status == domain.StatusOnTrack {
		return "green"
	}
	return "red"
}

// BootcampSummary writes the total hours and weeks and colors both by status.
func BootcampSummary(doc *page.Document, totalHours, totalWeeks int, status domain.Status) error {
	color := StatusColor(status)

	fields := []struct {
		id    string
		value int
	}{
		{TotalHoursID, totalHours},
		{TotalWeeksID, totalWeeks},
	}

	for _, f := range fields {
		if err := doc.SetStyle(f.id, "color", color); err != nil {
			return err
		}
		if err := doc.SetText(f.id, strconv.Itoa(f.value)); err != nil {
			return err
		}
	}
	return nil
}
