package journal

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the calendar date format used for journal dates.
const DateLayout = "2006-01-02"

// MaxNoteLength is the maximum note length in characters.
const MaxNoteLength = 100

var (
	// ErrNotFound is returned when no entry has the requested ID.
	ErrNotFound = errors.New("journal entry not found")

	// ErrInvalidEntry is wrapped by every validation failure.
	ErrInvalidEntry = errors.New("invalid journal entry")
)

// Entry is one day's journal record.
type Entry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Rating    *int      `json:"rating,omitempty"`
	Mood      *string   `json:"mood,omitempty"`
	Steps     *int      `json:"steps,omitempty"`
	Location  *string   `json:"location,omitempty"`
	Note      *string   `json:"note,omitempty"`
	Images    []string  `json:"images,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patch holds the fields to change in Update. Nil fields are left as they
// are.
type Patch struct {
	Date     *string   `json:"date,omitempty"`
	Title    *string   `json:"title,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Rating   *int      `json:"rating,omitempty"`
	Mood     *string   `json:"mood,omitempty"`
	Steps    *int      `json:"steps,omitempty"`
	Location *string   `json:"location,omitempty"`
	Note     *string   `json:"note,omitempty"`
	Images   *[]string `json:"images,omitempty"`
}

func (p Patch) apply(e *Entry) {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.Rating != nil {
		e.Rating = p.Rating
	}
	if p.Mood != nil {
		e.Mood = p.Mood
	}
	if p.Steps != nil {
		e.Steps = p.Steps
	}
	if p.Location != nil {
		e.Location = p.Location
	}
	if p.Note != nil {
		e.Note = p.Note
	}
	if p.Images != nil {
		e.Images = *p.Images
	}
}

// Validate checks the fields the store enforces.
func (e *Entry) Validate() error {
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidEntry, e.Date)
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEntry)
	}
	if e.Rating != nil && (*e.Rating < 1 || *e.Rating > 5) {
		return fmt.Errorf("%w: rating %d is outside 1..5", ErrInvalidEntry, *e.Rating)
	}
	if e.Steps != nil && *e.Steps < 0 {
		return fmt.Errorf("%w: steps cannot be negative", ErrInvalidEntry)
	}
	if e.Note != nil && utf8.RuneCountInString(*e.Note) > MaxNoteLength {
		return fmt.Errorf("%w: note exceeds %d characters", ErrInvalidEntry, MaxNoteLength)
	}
	return nil
}
