package domain

import "fmt"

// Status tells whether the bootcamp fits in its target length.
type Status int

const (
	StatusOnTrack Status = iota
	StatusBehind
)

// StatusForWeeks is on-track up to TargetWeeks included.
func StatusForWeeks(weeks int) Status {
	if weeks <= TargetWeeks {
		return StatusOnTrack
	}
	return StatusBehind
}

func (s Status) String() string {
	switch s {
	case StatusOnTrack:
		return "on-track"
	case StatusBehind:
		return "behind"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText makes Status render as its name in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ChapterEstimate is the derived load of one chapter.
type ChapterEstimate struct {
	Name    string  `json:"name"`
	Minutes float64 `json:"minutes"`
	Hours   int     `json:"hours"`
	Weeks   int     `json:"weeks"`
}

// Summary bundles every figure derived from one metadata snapshot.
type Summary struct {
	Pages              int                `json:"pages"`
	CategoryTotals     map[string]float64 `json:"categoryTotals"`
	CategorizedMinutes float64            `json:"categorizedMinutes"`
	GrandTotalMinutes  float64            `json:"grandTotalMinutes"`
	Chapters           []ChapterEstimate  `json:"chapters"`
	TechnologyCounts   map[string]int     `json:"technologyCounts"`
	TotalHours         int                `json:"totalHours"`
	TotalWeeks         int                `json:"totalWeeks"`
	Status             Status             `json:"status"`
}

// Summarize computes everything from scratch; nothing is cached between calls.
func Summarize(m Metadata) Summary {
	categories := CategoryTotals(m)
	chapterTotals := ChapterTotals(m)

	chapters := make([]ChapterEstimate, 0, len(chapterTotals))
	for _, name := range SortedKeys(chapterTotals) {
		hours := MinutesToHours(chapterTotals[name])
		chapters = append(chapters, ChapterEstimate{
			Name:    name,
			Minutes: chapterTotals[name],
			Hours:   hours,
			Weeks:   HoursToWeeks(hours),
		})
	}

	grand := GrandTotalMinutes(m)
	hours := MinutesToHours(grand)
	weeks := HoursToWeeks(hours)

	return Summary{
		Pages:              len(m),
		CategoryTotals:     categories,
		CategorizedMinutes: CategorizedMinutes(categories),
		GrandTotalMinutes:  grand,
		Chapters:           chapters,
		TechnologyCounts:   TechnologyCounts(m),
		TotalHours:         hours,
		TotalWeeks:         weeks,
		Status:             StatusForWeeks(weeks),
	}
}
