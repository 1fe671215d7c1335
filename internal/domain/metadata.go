package domain

// Metadata is the bootcamp metadata as published by the docs build.
//
// Keys are page paths such as "docs/02-javascript/1-variables.md"; values are
// what the page author estimated for that page. Iteration order carries no meaning.
type Metadata map[string]PageRecord

// PageRecord describes a single documentation page. Every field is optional.
type PageRecord struct {
	// Category is the author-assigned topic label, independent of the chapter.
	Category *string `json:"category,omitempty" yaml:"category,omitempty"`

	// EstReadingMinutes is the estimated time to read the page.
	EstReadingMinutes *float64 `json:"estReadingMinutes,omitempty" yaml:"estReadingMinutes,omitempty"`

	// Exercises keeps the author's order.
	Exercises []Exercise `json:"exercises,omitempty" yaml:"exercises,omitempty"`

	// Technologies tags the page as a whole. It is decoded but currently unused:
	// technology counts only consider exercise-level tags.
	Technologies []string `json:"technologies,omitempty" yaml:"technologies,omitempty"`
}

// Exercise is one exercise of a page.
type Exercise struct {
	EstMinutes   *float64 `json:"estMinutes,omitempty" yaml:"estMinutes,omitempty"`
	Technologies []string `json:"technologies,omitempty" yaml:"technologies,omitempty"`
}

// Ptr returns a pointer to v. Optional record fields are pointers, this keeps literals short.
func Ptr[T any](v T) *T {
	return &v
}
