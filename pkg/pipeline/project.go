package pipeline

import (
	"spacedash/pkg/record"
)

// ImageRef pairs a display name with an image URL for bulk download
type ImageRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Field is one labelled display value of a card
type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Card is the display projection of one record
type Card struct {
	Name    string  `json:"name"`
	Heading string  `json:"heading"`
	Image   string  `json:"image,omitempty"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Fields  []Field `json:"fields"`
}

// Value returns the value of the field with key, or ""
func (c Card) Value(key string) string {
	for _, f := range c.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// Projection is the output of FilterAndProject. Cards is nil unless display
// fields were requested.
type Projection struct {
	Records []record.Record
	Cards   []Card
	Images  []ImageRef
}

// Select keeps records matching spec, in their original order, and truncates
// the survivors to limit. A negative limit is treated as zero.
func Select(c *Category, records []record.Record, spec FilterSpec, limit int) []record.Record {
	if limit < 0 {
		limit = 0
	}
	out := make([]record.Record, 0, min(limit, len(records)))
	for _, r := range records {
		if len(out) >= limit {
			break
		}
		if spec.Matches(c, r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterAndProject narrows records with spec, truncates to limit and
// projects the survivors. Records without a resolvable image never appear in
// Images but still get a card.
func FilterAndProject(c *Category, records []record.Record, spec FilterSpec, limit int, includeDisplay bool) Projection {
	selected := Select(c, records, spec, limit)

	p := Projection{
		Records: selected,
		Images:  ImageRefs(c, selected),
	}
	if includeDisplay {
		p.Cards = Cards(c, selected)
	}
	return p
}

// ImageRefs projects records to (name, image URL) pairs, skipping records
// with no image
func ImageRefs(c *Category, records []record.Record) []ImageRef {
	refs := make([]ImageRef, 0, len(records))
	for _, r := range records {
		url, ok := c.ImageURL(r)
		if !ok {
			continue
		}
		refs = append(refs, ImageRef{Name: c.DisplayName(r), URL: url})
	}
	return refs
}

// Cards projects records to display cards
func Cards(c *Category, records []record.Record) []Card {
	cards := make([]Card, 0, len(records))
	for _, r := range records {
		cards = append(cards, ProjectCard(c, r))
	}
	return cards
}

// ProjectCard extracts every display field of r, substituting defaults
func ProjectCard(c *Category, r record.Record) Card {
	name := c.DisplayName(r)
	card := Card{
		Name:    name,
		Heading: c.HeadingPrefix + name,
		Width:   c.CardWidth,
		Height:  c.CardHeight,
		Fields:  make([]Field, 0, len(c.Fields)),
	}
	if url, ok := c.ImageURL(r); ok {
		card.Image = url
	}

	for _, rule := range c.Fields {
		card.Fields = append(card.Fields, Field{
			Key:   rule.Key,
			Label: rule.Label,
			Value: rule.extract(r),
		})
	}
	return card
}

func (f FieldRule) extract(r record.Record) string {
	v, ok := firstValue(r, f.Paths)
	if !ok {
		return f.Default
	}
	if f.Transform != nil {
		v = f.Transform(v)
	}
	return v + f.Suffix
}
