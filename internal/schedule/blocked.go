package schedule

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"coachdesk/internal/domain"
)

// BlockedTimeIndex answers whether a given instant falls inside a coach's
// blocked time. Full-day blocks compare calendar dates only, so they cover
// whole days regardless of what local time a slot represents; partial blocks
// compare instants against the half-open [StartTime, EndTime) range.
type BlockedTimeIndex struct {
	clock  Clock
	blocks []domain.BlockedTime
}

// NewBlockedTimeIndex builds an index over blocked-time records, evaluated
// in the viewer's zone.
func NewBlockedTimeIndex(blocks []domain.BlockedTime, clock Clock) *BlockedTimeIndex {
	return &BlockedTimeIndex{clock: clock, blocks: blocks}
}

// ForCoach narrows the index to a single coach's blocks. Used in
// organization views where records for several coaches are fetched at once.
func (idx *BlockedTimeIndex) ForCoach(coachID primitive.ObjectID) *BlockedTimeIndex {
	filtered := make([]domain.BlockedTime, 0, len(idx.blocks))
	for _, b := range idx.blocks {
		if b.CoachID == coachID {
			filtered = append(filtered, b)
		}
	}
	return &BlockedTimeIndex{clock: idx.clock, blocks: filtered}
}

// BlocksAt returns the block covering the given local date and minute of
// day, or nil when the instant is unblocked. The block's title is surfaced
// as the disabled slot's reason.
func (idx *BlockedTimeIndex) BlocksAt(date time.Time, minuteOfDay int) *domain.BlockedTime {
	for i := range idx.blocks {
		b := &idx.blocks[i]
		if b.IsAllDay {
			startDate := idx.clock.DateOf(b.StartTime)
			endDate := idx.clock.DateOf(b.EndTime)
			day := idx.clock.DateOf(date)
			if !day.Before(startDate) && !day.After(endDate) {
				return b
			}
			continue
		}
		instant := idx.clock.Instant(date, minuteOfDay)
		if !instant.Before(b.StartTime) && instant.Before(b.EndTime) {
			return b
		}
	}
	return nil
}
