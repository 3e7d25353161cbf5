// Package reminders models the farmer's irrigation reminders.
package reminders

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Repeat is how often a reminder recurs.
type Repeat string

const (
	RepeatNone   Repeat = "none"
	RepeatDaily  Repeat = "daily"
	RepeatWeekly Repeat = "weekly"
)

// DefaultTime is used when a reminder is created without a time of day.
const DefaultTime = "07:00"

// Reminder is a stored irrigation reminder.
type Reminder struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Time      string    `json:"time"` // HH:mm
	Notes     string    `json:"notes,omitempty"`
	Repeat    Repeat    `json:"repeat"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
}

// Due is the local date and time the reminder is set for, used for ordering.
func (r Reminder) Due() string {
	return r.Date + "T" + r.Time
}

// Draft is the user input for a new reminder.
type Draft struct {
	Title  string `json:"title" validate:"required,max=200"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Time   string `json:"time" validate:"required,datetime=15:04"`
	Notes  string `json:"notes" validate:"max=2000"`
	Repeat Repeat `json:"repeat" validate:"required,oneof=none daily weekly"`
}

// Normalize trims the text fields and fills in the default time and repeat.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Notes = strings.TrimSpace(d.Notes)
	d.Date = strings.TrimSpace(d.Date)
	d.Time = strings.TrimSpace(d.Time)
	if d.Time == "" {
		d.Time = DefaultTime
	}
	if d.Repeat == "" {
		d.Repeat = RepeatNone
	}
	return d
}

// Validate checks a normalized draft.
func (d Draft) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid reminder: %w", err)
	}
	return nil
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title  *string `json:"title"`
	Date   *string `json:"date"`
	Time   *string `json:"time"`
	Notes  *string `json:"notes"`
	Repeat *Repeat `json:"repeat"`
	Done   *bool   `json:"done"`
}

// Apply returns r with the patch applied, validating the resulting fields.
func (p Patch) Apply(r Reminder) (Reminder, error) {
	d := Draft{Title: r.Title, Date: r.Date, Time: r.Time, Notes: r.Notes, Repeat: r.Repeat}
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Date != nil {
		d.Date = *p.Date
	}
	if p.Time != nil {
		d.Time = *p.Time
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
	if p.Repeat != nil {
		d.Repeat = *p.Repeat
	}
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return Reminder{}, err
	}

	r.Title, r.Date, r.Time, r.Notes, r.Repeat = d.Title, d.Date, d.Time, d.Notes, d.Repeat
	if p.Done != nil {
		r.Done = *p.Done
	}
	return r, nil
}
