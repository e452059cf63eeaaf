package schedule

import (
	"errors"
	"time"

	"coachdesk/internal/domain"
)

// SlotState classifies a candidate slot.
type SlotState string

const (
	SlotAvailable SlotState = "available"
	SlotBooked    SlotState = "booked"
	SlotBlocked   SlotState = "blocked"
)

// Slot is one candidate lesson start time within a coach's working hours.
type Slot struct {
	Minute        int       `json:"minute"`
	Label         string    `json:"time"` // "9:00 AM"
	State         SlotState `json:"state"`
	BlockedReason string    `json:"blockedReason,omitempty"`
}

// BookedSlotPolicy controls what happens to slots that collide with an
// existing lesson. Single-coach pickers omit them entirely; the
// organization view keeps them, disabled, so staff can see who has what.
type BookedSlotPolicy int

const (
	OmitBooked BookedSlotPolicy = iota
	ShowBooked
)

// Generator enumerates the bookable slots for one calendar date. It is a
// pure function of its inputs: "now" is always passed in, never read from
// the environment.
type Generator struct {
	Clock  Clock
	Policy BookedSlotPolicy

	// Defaults replaces the canonical fallback window when non-nil, letting
	// deployments configure different hours for coaches with no saved
	// configuration.
	Defaults *DayHours
}

// Generate resolves the effective working hours for date and walks the
// window in interval steps, classifying each candidate minute.
//
// Past slots on "today" are skipped outright, booked or not. Booked slots
// are classified before blocked ones, so a slot that is both reads as
// booked. A malformed stored time string falls back to the default hourly
// grid instead of failing; a day whose hours are unavailable or inverted
// yields an empty list.
func (g Generator) Generate(
	date time.Time,
	hours *domain.WorkingHours,
	overrides map[string]domain.CustomDayOverride,
	blocked *BlockedTimeIndex,
	bookings *BookingIndex,
	now time.Time,
) []Slot {
	var window DayHours
	if hours == nil && len(overrides) == 0 {
		window = g.fallback()
	} else {
		var err error
		window, err = EffectiveHours(date, hours, overrides)
		switch {
		case err == nil:
		case errors.Is(err, ErrInvalidTimeFormat):
			window = g.fallback()
		default:
			// Unavailable day, or a defensively rejected inverted range.
			return nil
		}
	}

	isToday := g.Clock.SameDate(date, now)
	_, nowMinute := g.Clock.WallClock(now)

	var slots []Slot
	for minute := window.StartMinute; minute < window.EndMinute; minute += window.IntervalMinutes {
		if isToday && minute <= nowMinute {
			continue
		}

		if bookings != nil && bookings.IsTaken(date, minute, window.IntervalMinutes) {
			if g.Policy == OmitBooked {
				continue
			}
			slots = append(slots, Slot{Minute: minute, Label: FormatClock(minute), State: SlotBooked})
			continue
		}

		if blocked != nil {
			if b := blocked.BlocksAt(date, minute); b != nil {
				slots = append(slots, Slot{
					Minute:        minute,
					Label:         FormatClock(minute),
					State:         SlotBlocked,
					BlockedReason: b.Title,
				})
				continue
			}
		}

		slots = append(slots, Slot{Minute: minute, Label: FormatClock(minute), State: SlotAvailable})
	}
	return slots
}

func (g Generator) fallback() DayHours {
	if g.Defaults != nil {
		return *g.Defaults
	}
	return DefaultHours()
}
