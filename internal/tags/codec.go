// Package tags converts between a task's tag list and the single delimited
// string it is stored as.
package tags

import "strings"

const separator = ","

// Codec encodes a tag list into its stored scalar and back. Callers depend on
// this interface so the storage representation can change without touching
// them.
type Codec interface {
	Encode(tags []string) *string
	Decode(stored *string) []string
}

// Delimited stores tags as one comma-joined string. A tag that itself contains
// a comma is split into several tags on the way back.
type Delimited struct{}

// Default is the codec used by the repositories.
var Default Codec = Delimited{}

// Encode trims every tag, drops empty ones and joins the rest in the given
// order. It returns nil when nothing is left.
func (Delimited) Encode(tags []string) *string {
	cleaned := normalize(tags)
	if len(cleaned) == 0 {
		return nil
	}
	joined := strings.Join(cleaned, separator)
	return &joined
}

// Decode returns an empty, non-nil slice for a nil or blank scalar.
func (Delimited) Decode(stored *string) []string {
	if stored == nil {
		return []string{}
	}
	return normalize(strings.Split(*stored, separator))
}

// ParseFilter turns a raw "a, b,,c" query value into the list of tags a task
// must all contain.
func ParseFilter(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return normalize(strings.Split(raw, separator))
}

func normalize(in []string) []string {
	out := make([]string, 0, len(in))
	for _, tag := range in {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
