package render

import (
	"errors"
	"strconv"

	"github.com/MrSnakeDoc/campstats/internal/domain"
	"github.com/MrSnakeDoc/campstats/internal/page"
)

// WeeksID is the placeholder id holding the week count of a chapter.
func WeeksID(chapter string) string {
	return chapter + "-weeks"
}

// ChapterHours fills, for every chapter, the "<chapter>" placeholder with its
// hours and "<chapter>-weeks" with its weeks. Every chapter is attempted; the
// missing placeholders are reported together.
func ChapterHours(doc *page.Document, chapterTotals map[string]float64) error {
	var errs []error
	for _, chapter := range domain.SortedKeys(chapterTotals) {
		hours := domain.MinutesToHours(chapterTotals[chapter])

		if err := doc.SetText(chapter, strconv.Itoa(hours)); err != nil {
			errs = append(errs, err)
		}
		if err := doc.SetText(WeeksID(chapter), strconv.Itoa(domain.HoursToWeeks(hours))); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
