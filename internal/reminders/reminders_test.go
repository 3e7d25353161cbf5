package reminders

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftNormalize(t *testing.T) {
	d := Draft{Title: "  Water the onions ", Date: "2024-03-05", Notes: " drip "}.Normalize()

	assert.Equal(t, Draft{
		Title: "Water the onions", Date: "2024-03-05", Time: DefaultTime, Notes: "drip", Repeat: RepeatNone,
	}, d)
	require.NoError(t, d.Validate())
}

func TestDraftValidate(t *testing.T) {
	valid := Draft{Title: "Canal", Date: "2024-03-05", Time: "18:30", Repeat: RepeatWeekly}

	tests := []struct {
		name   string
		mutate func(d *Draft)
	}{
		{"blank title", func(d *Draft) { d.Title = "   " }},
		{"missing date", func(d *Draft) { d.Date = "" }},
		{"bad date", func(d *Draft) { d.Date = "05/03/2024" }},
		{"bad time", func(d *Draft) { d.Time = "7pm" }},
		{"bad repeat", func(d *Draft) { d.Repeat = "monthly" }},
	}

	require.NoError(t, valid.Normalize().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)

			err := d.Normalize().Validate()

			var verr validator.ValidationErrors
			assert.True(t, errors.As(err, &verr), "got %v", err)
		})
	}
}

func TestPatchApply(t *testing.T) {
	r := Reminder{ID: "r1", Title: "Canal", Date: "2024-03-05", Time: "07:00", Repeat: RepeatNone}
	title, repeat, done := " Canal gate ", RepeatDaily, true

	got, err := Patch{Title: &title, Repeat: &repeat, Done: &done}.Apply(r)
	require.NoError(t, err)
	assert.Equal(t, Reminder{
		ID: "r1", Title: "Canal gate", Date: "2024-03-05", Time: "07:00", Repeat: RepeatDaily, Done: true,
	}, got)

	// An empty patch leaves the reminder as it was.
	got, err = Patch{}.Apply(r)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	bad := "25:00"
	_, err = Patch{Time: &bad}.Apply(r)
	assert.Error(t, err)
}

func TestReminderDue(t *testing.T) {
	assert.Equal(t, "2024-03-05T07:00", Reminder{Date: "2024-03-05", Time: "07:00"}.Due())
}
