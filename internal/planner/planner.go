// Package planner defines the year-plan document model: per-day annotations
// keyed by ISO date.
package planner

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// DayFormat is the layout of a date key, e.g. "2025-01-31".
const DayFormat = "2006-01-02"

var (
	ErrInvalidDay      = errors.New("day must be an ISO date (YYYY-MM-DD)")
	ErrEmptyAnnotation = errors.New("annotation must carry a color or a note")
)

// Annotation is the per-day payload attached to a calendar date. The sync
// layer treats it as opaque; equality is decided document-wide, never
// field by field.
type Annotation struct {
	Color string `json:"color"`
	Note  string `json:"note,omitempty"`
}

// IsZero reports whether the annotation carries no content.
func (a Annotation) IsZero() bool {
	return a.Color == "" && a.Note == ""
}

// ParseDay validates that s is a calendar date in DayFormat.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return t, nil
}

// Document is the in-memory annotation map for one calendar year. It is safe
// for concurrent use: the hosting layer mutates individual days while the
// sync engine reads snapshots and applies wholesale replacements.
type Document struct {
	mu   sync.RWMutex
	days map[string]Annotation
}

func NewDocument() *Document {
	return &Document{days: make(map[string]Annotation)}
}

// Set stores the annotation under the given date key. The key must be a
// valid ISO date and the annotation must not be empty; use Clear to remove
// a day.
func (d *Document) Set(day string, a Annotation) error {
	if _, err := ParseDay(day); err != nil {
		return err
	}
	if a.IsZero() {
		return ErrEmptyAnnotation
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.days[day] = a
	return nil
}

// Clear removes the annotation for the given date key, if any.
func (d *Document) Clear(day string) error {
	if _, err := ParseDay(day); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.days, day)
	return nil
}

// Get returns the annotation for the given date key.
func (d *Document) Get(day string) (Annotation, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, ok := d.days[day]
	return a, ok
}

// Snapshot returns a copy of the full mapping. Callers own the result.
func (d *Document) Snapshot() map[string]Annotation {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]Annotation, len(d.days))
	for k, v := range d.days {
		out[k] = v
	}
	return out
}

// Replace overwrites the whole mapping with the given one. Days are copied,
// so the caller keeps ownership of its map. Invalid date keys and empty
// annotations are skipped rather than failing the whole replacement.
func (d *Document) Replace(days map[string]Annotation) {
	next := make(map[string]Annotation, len(days))
	for k, v := range days {
		if _, err := ParseDay(k); err != nil {
			continue
		}
		if v.IsZero() {
			continue
		}
		next[k] = v
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.days = next
}

// Len returns the number of annotated days.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.days)
}
