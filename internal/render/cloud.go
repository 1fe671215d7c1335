package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/MrSnakeDoc/campstats/internal/domain"
	"github.com/MrSnakeDoc/campstats/internal/page"
)

// CloudOptions bounds the technology cloud. The layout never grows past
// MaxWords entries nor past the Width x Height box.
type CloudOptions struct {
	MaxWords  int
	MinFontPx int
	MaxFontPx int
	Width     int
	Height    int
}

// DefaultCloudOptions are used for every zero field of the options passed in.
var DefaultCloudOptions = CloudOptions{
	MaxWords:  50,
	MinFontPx: 12,
	MaxFontPx: 48,
	Width:     600,
	Height:    400,
}

func (o CloudOptions) withDefaults() CloudOptions {
	if o.MaxWords <= 0 {
		o.MaxWords = DefaultCloudOptions.MaxWords
	}
	if o.MinFontPx <= 0 {
		o.MinFontPx = DefaultCloudOptions.MinFontPx
	}
	if o.MaxFontPx <= 0 {
		o.MaxFontPx = DefaultCloudOptions.MaxFontPx
	}
	if o.MaxFontPx < o.MinFontPx {
		o.MaxFontPx = o.MinFontPx
	}
	if o.Width <= 0 {
		o.Width = DefaultCloudOptions.Width
	}
	if o.Height <= 0 {
		o.Height = DefaultCloudOptions.Height
	}
	return o
}

// FontSize scales count linearly between the smallest and largest count onto
// [MinFontPx, MaxFontPx].
func (o CloudOptions) FontSize(count, minCount, maxCount int) int {
	o = o.withDefaults()
	if maxCount <= minCount {
		return o.MaxFontPx
	}
	if count <= minCount {
		return o.MinFontPx
	}
	if count >= maxCount {
		return o.MaxFontPx
	}
	span := o.MaxFontPx - o.MinFontPx
	return o.MinFontPx + span*(count-minCount)/(maxCount-minCount)
}

// TechnologyCloud replaces the content of the target element with a size-weighted
// list of the most used technologies. Experimental: not part of any route by default.
func TechnologyCloud(doc *page.Document, targetID string, counts map[string]int, opts CloudOptions) error {
	opts = opts.withDefaults()
	ranked := domain.RankTechnologies(counts, opts.MaxWords)

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="tech-cloud" style="width: %dpx; max-height: %dpx; overflow: hidden;">`, opts.Width, opts.Height)
	if len(ranked) > 0 {
		maxCount := ranked[0].Count
		minCount := ranked[len(ranked)-1].Count
		for _, tech := range ranked {
			fmt.Fprintf(&b, `<span class="tech" title="%d" style="font-size: %dpx;">%s</span> `,
				tech.Count, opts.FontSize(tech.Count, minCount, maxCount), html.EscapeString(tech.Name))
		}
	}
	b.WriteString(`</div>`)

	return doc.SetHTML(targetID, b.String())
}
