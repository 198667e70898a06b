package domain

import (
	"slices"
	"strings"
	"time"
)

const (
	// DateLayout is the wire form of a selected date.
	DateLayout = "2006-01-02"
	// LocalDateLayout matches the en-US short date, e.g. 3/7/2026.
	LocalDateLayout = "1/2/2006"

	MsgSelectDateAndTime = "Please select both date and time"
)

// TimeSlots are the start times offered on the detail view.
var TimeSlots = []string{
	"06:00 AM", "08:00 AM", "10:00 AM", "12:00 PM",
	"02:00 PM", "04:00 PM", "06:00 PM", "08:00 PM", "10:00 PM",
}

func IsTimeSlot(label string) bool {
	return slices.Contains(TimeSlots, label)
}

// Selection is the date/time picked on the detail view. It lives only for
// the duration of one request. A zero Date means no date was picked.
type Selection struct {
	Date time.Time
	Time string
}

// ParseSelection never fails: an unparseable date or an unknown time label
// is the same as nothing picked.
func ParseSelection(date, label string, loc *time.Location) Selection {
	var sel Selection
	if d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc); err == nil {
		sel.Date = d
	}
	label = strings.TrimSpace(label)
	if IsTimeSlot(label) {
		sel.Time = label
	}
	return sel
}

// Today is the selection the detail view starts from: today's date in now's
// location and no time.
func Today(now time.Time) Selection {
	y, m, d := now.Date()
	return Selection{Date: time.Date(y, m, d, 0, 0, 0, 0, now.Location())}
}

func (s Selection) HasDate() bool { return !s.Date.IsZero() }

func (s Selection) HasTime() bool { return s.Time != "" }

// DateValue is the wire form of the selected date, or "" when none.
func (s Selection) DateValue() string {
	if !s.HasDate() {
		return ""
	}
	return s.Date.Format(DateLayout)
}

// Confirm validates the selection and returns the notification to show.
// Days before today (in now's location) cannot be picked and count as no date.
// Nothing is persisted.
func Confirm(sel Selection, now time.Time) Notification {
	if !sel.HasDate() || !sel.HasTime() || isPastDay(sel.Date, now) {
		return Failure(MsgSelectDateAndTime)
	}
	return Success("Booking confirmed for " + sel.Date.Format(LocalDateLayout) + " at " + sel.Time + "!")
}

func isPastDay(d, now time.Time) bool {
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	dy, dm, dd := d.Date()
	return time.Date(dy, dm, dd, 0, 0, 0, 0, now.Location()).Before(today)
}
