package domain

import (
	"math"
	"regexp"
	"sort"
)

const (
	// StudyHoursPerWeek is the weekly study load a bootcamp student is assumed to put in.
	StudyHoursPerWeek = 20

	// TargetWeeks is the length the bootcamp aims for: six months of four weeks.
	TargetWeeks = 6 * 4
)

// chapterPattern captures the first path segment after "docs/".
var chapterPattern = regexp.MustCompile(`(?:^|/)docs/([^/]+)/.+`)

// minutes turns an optional estimate into a contribution: absent, negative
// and non-finite values contribute nothing.
func minutes(v *float64) float64 {
	if v == nil || *v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}

// ReadingMinutes returns the page reading estimate, 0 when absent.
func (p PageRecord) ReadingMinutes() float64 {
	return minutes(p.EstReadingMinutes)
}

// ExerciseMinutes sums every exercise estimate of the page.
func (p PageRecord) ExerciseMinutes() float64 {
	var total float64
	for _, ex := range p.Exercises {
		total += minutes(ex.EstMinutes)
	}
	return total
}

// TotalMinutes is reading plus exercise time.
func (p PageRecord) TotalMinutes() float64 {
	return p.ReadingMinutes() + p.ExerciseMinutes()
}

// CategoryTotals buckets reading and exercise minutes by page category.
// Only pages carrying both a category and a reading estimate are counted; for
// any other page the exercise time is dropped as well.
func CategoryTotals(m Metadata) map[string]float64 {
	totals := make(map[string]float64)
	for _, page := range m {
		if page.Category == nil || page.EstReadingMinutes == nil {
			continue
		}
		totals[*page.Category] += page.TotalMinutes()
	}
	return totals
}

// CategorizedMinutes is the sum of the category buckets.
func CategorizedMinutes(totals map[string]float64) float64 {
	var sum float64
	for _, v := range totals {
		sum += v
	}
	return sum
}

// GrandTotalMinutes sums every estimate of every page, categorized or not.
func GrandTotalMinutes(m Metadata) float64 {
	var total float64
	for _, page := range m {
		total += page.TotalMinutes()
	}
	return total
}

// ChapterOf extracts the chapter name from a page path ("docs/<chapter>/<rest>").
func ChapterOf(path string) (string, bool) {
	match := chapterPattern.FindStringSubmatch(path)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// ChapterTotals sums reading and exercise minutes per chapter. Pages whose
// path does not look like docs/<chapter>/... are left out.
func ChapterTotals(m Metadata) map[string]float64 {
	totals := make(map[string]float64)
	for path, page := range m {
		chapter, ok := ChapterOf(path)
		if !ok {
			continue
		}
		totals[chapter] += page.TotalMinutes()
	}
	return totals
}

// TechnologyCounts counts how many times each technology is tagged on an exercise.
// Page-level Technologies are not counted.
func TechnologyCounts(m Metadata) map[string]int {
	counts := make(map[string]int)
	for _, page := range m {
		for _, ex := range page.Exercises {
			for _, tech := range ex.Technologies {
				counts[tech]++
			}
		}
	}
	return counts
}

// MinutesToHours rounds to the nearest hour.
func MinutesToHours(minutes float64) int {
	if minutes <= 0 {
		return 0
	}
	return int(math.Round(minutes / 60))
}

// HoursToWeeks returns how many study weeks the hours take, rounded up.
func HoursToWeeks(hours int) int {
	if hours <= 0 {
		return 0
	}
	return int(math.Ceil(float64(hours) / StudyHoursPerWeek))
}

// TechnologyCount is one entry of a ranked technology list.
type TechnologyCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RankTechnologies orders counts by count (desc) then name and keeps at most
// limit entries. A limit <= 0 keeps everything.
func RankTechnologies(counts map[string]int, limit int) []TechnologyCount {
	ranked := make([]TechnologyCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, TechnologyCount{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// SortedKeys returns the keys of a totals map in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
