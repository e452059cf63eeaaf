package service

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/repository"
	"coachdesk/internal/schedule"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	// ErrBookingConflict means a racing submission filled the slot after the
	// client's slot list was generated. The list is stale; refresh it rather
	// than retrying the same instant.
	ErrBookingConflict = errors.New("time slot is no longer available")
	ErrLessonNotFound  = errors.New("lesson not found")
)

// previewDisplayLimit caps how many dates the recurrence preview renders;
// the remainder is summarized as a count.
const previewDisplayLimit = 10

// BookingRequest describes a single lesson booking. Date is the absolute
// start instant.
type BookingRequest struct {
	CoachID  primitive.ObjectID
	ClientID primitive.ObjectID
	Date     time.Time
	Title    string
}

// RecurringBookingRequest expands into one booking per occurrence.
type RecurringBookingRequest struct {
	BookingRequest
	Pattern     schedule.Pattern
	Interval    int
	EndDate     time.Time
	WorkingDays []string
}

// BookingFailure records one failed occurrence of a recurring batch.
type BookingFailure struct {
	Date   time.Time `json:"date"`
	Reason string    `json:"reason"`
}

// BatchResult reports a recurring booking's outcome. Occurrences are
// submitted independently; some may succeed while others conflict, and the
// caller reports both counts instead of an all-or-nothing result.
type BatchResult struct {
	RecurrenceID string           `json:"recurrenceId"`
	Created      int              `json:"created"`
	Failed       int              `json:"failed"`
	Lessons      []domain.Lesson  `json:"lessons"`
	Failures     []BookingFailure `json:"failures,omitempty"`
}

// RecurrencePreview is the "N lessons will be created" summary. Dates holds
// the full expansion; Display holds at most previewDisplayLimit formatted
// entries with More counting the rest.
type RecurrencePreview struct {
	Dates   []time.Time `json:"dates"`
	Total   int         `json:"total"`
	Display []string    `json:"display"`
	More    int         `json:"more"`
}

// CoachSlots pairs one coach's identity with their slot grid for the
// organization view.
type CoachSlots struct {
	CoachID   primitive.ObjectID `json:"coachId"`
	CoachName string             `json:"coachName"`
	Slots     []schedule.Slot    `json:"slots"`
}

// --- Service Interface ---
type SchedulingService interface {
	ListSlots(ctx context.Context, coachID primitive.ObjectID, date time.Time, zone *time.Location, now time.Time) ([]schedule.Slot, error)
	ListOrganizationSlots(ctx context.Context, organizationID primitive.ObjectID, date time.Time, zone *time.Location, now time.Time) ([]CoachSlots, error)
	PreviewRecurrence(req RecurringBookingRequest, zone *time.Location) (*RecurrencePreview, error)
	BookLesson(ctx context.Context, req BookingRequest) (*domain.Lesson, error)
	BookRecurring(ctx context.Context, req RecurringBookingRequest) (*BatchResult, error)
	ListLessonsForCoach(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error)
	ListLessonsForClient(ctx context.Context, clientID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error)
	CancelLesson(ctx context.Context, coachID, lessonID primitive.ObjectID) error
}

// --- Service Implementation ---

// schedulingService implements the SchedulingService interface. The slot
// math lives in the schedule package; this service fetches the snapshot of
// lessons and blocks feeding it and submits the bookings it produces.
type schedulingService struct {
	coachService CoachService
	lessonRepo   repository.LessonRepository
	blockedRepo  repository.BlockedTimeRepository
	defaults     *schedule.DayHours
	logger       *zap.Logger
}

// NewSchedulingService creates a new instance of schedulingService.
// defaults, when non-nil, replaces the canonical fallback window for
// coaches with no saved configuration.
func NewSchedulingService(
	coachService CoachService,
	lessonRepo repository.LessonRepository,
	blockedRepo repository.BlockedTimeRepository,
	defaults *schedule.DayHours,
	logger *zap.Logger,
) SchedulingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &schedulingService{
		coachService: coachService,
		lessonRepo:   lessonRepo,
		blockedRepo:  blockedRepo,
		defaults:     defaults,
		logger:       logger,
	}
}

// ListSlots generates the bookable grid for one coach and date. Booked
// slots are omitted entirely; blocked slots are kept, disabled, with the
// block's title as the reason.
func (s *schedulingService) ListSlots(ctx context.Context, coachID primitive.ObjectID, date time.Time, zone *time.Location, now time.Time) ([]schedule.Slot, error) {
	clock := schedule.NewClock(zone)
	day := clock.DateOf(date)
	dayEnd := day.AddDate(0, 0, 1)

	hours, overrides, err := s.coachService.GetSchedulingProfile(ctx, coachID)
	if err != nil {
		return nil, err
	}
	s.warnOnMalformedHours(day, coachID, hours, overrides)

	lessons, err := s.lessonRepo.GetByCoachAndRange(ctx, coachID, day, dayEnd)
	if err != nil {
		return nil, err
	}
	blocks, err := s.blockedRepo.GetByCoachAndRange(ctx, coachID, day, dayEnd)
	if err != nil {
		return nil, err
	}

	gen := schedule.Generator{Clock: clock, Policy: schedule.OmitBooked, Defaults: s.defaults}
	slots := gen.Generate(day, hours, overrides,
		schedule.NewBlockedTimeIndex(blocks, clock),
		schedule.NewBookingIndex(lessons, clock),
		now)
	return slots, nil
}

// ListOrganizationSlots generates one grid per coach in the organization.
// Unlike the single-coach picker, booked slots stay visible (disabled) so
// staff can see who has what.
func (s *schedulingService) ListOrganizationSlots(ctx context.Context, organizationID primitive.ObjectID, date time.Time, zone *time.Location, now time.Time) ([]CoachSlots, error) {
	clock := schedule.NewClock(zone)
	day := clock.DateOf(date)
	dayEnd := day.AddDate(0, 0, 1)

	coaches, err := s.coachService.GetOrganizationCoaches(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if len(coaches) == 0 {
		return []CoachSlots{}, nil
	}

	coachIDs := make([]primitive.ObjectID, len(coaches))
	for i, c := range coaches {
		coachIDs[i] = c.ID
	}

	lessons, err := s.lessonRepo.GetByCoachesAndRange(ctx, coachIDs, day, dayEnd)
	if err != nil {
		return nil, err
	}
	blocks, err := s.blockedRepo.GetByCoachesAndRange(ctx, coachIDs, day, dayEnd)
	if err != nil {
		return nil, err
	}

	blockedIdx := schedule.NewBlockedTimeIndex(blocks, clock)
	bookingIdx := schedule.NewBookingIndex(lessons, clock)
	gen := schedule.Generator{Clock: clock, Policy: schedule.ShowBooked, Defaults: s.defaults}

	out := make([]CoachSlots, 0, len(coaches))
	for _, coach := range coaches {
		s.warnOnMalformedHours(day, coach.ID, coach.WorkingHours, coach.CustomWorkingHours)
		slots := gen.Generate(day, coach.WorkingHours, coach.CustomWorkingHours,
			blockedIdx.ForCoach(coach.ID),
			bookingIdx.ForCoach(coach.ID),
			now)
		out = append(out, CoachSlots{CoachID: coach.ID, CoachName: coach.Name, Slots: slots})
	}
	return out, nil
}

// warnOnMalformedHours logs when a profile's stored time strings fail to
// parse. Generation falls back to the default grid; the warning is the only
// trace of the bad data.
func (s *schedulingService) warnOnMalformedHours(day time.Time, coachID primitive.ObjectID, hours *domain.WorkingHours, overrides map[string]domain.CustomDayOverride) {
	if _, err := schedule.EffectiveHours(day, hours, overrides); errors.Is(err, schedule.ErrInvalidTimeFormat) {
		s.logger.Warn("malformed working hours, using default grid",
			zap.String("coachId", coachID.Hex()),
			zap.Error(err))
	}
}

// PreviewRecurrence expands a request without booking anything, for the
// confirmation dialog.
func (s *schedulingService) PreviewRecurrence(req RecurringBookingRequest, zone *time.Location) (*RecurrencePreview, error) {
	dates, err := s.expand(req)
	if err != nil {
		return nil, err
	}

	clock := schedule.NewClock(zone)
	preview := &RecurrencePreview{Dates: dates, Total: len(dates)}
	for i, d := range dates {
		if i == previewDisplayLimit {
			preview.More = len(dates) - previewDisplayLimit
			break
		}
		preview.Display = append(preview.Display, d.In(clock.Zone()).Format("Mon, Jan 2, 2006 3:04 PM"))
	}
	return preview, nil
}

// BookLesson submits one booking. The storage layer's unique index decides
// races; a conflict here means the slot list went stale.
func (s *schedulingService) BookLesson(ctx context.Context, req BookingRequest) (*domain.Lesson, error) {
	lesson := &domain.Lesson{
		CoachID:  req.CoachID,
		ClientID: req.ClientID,
		Date:     req.Date,
		Title:    req.Title,
		Status:   domain.LessonScheduled,
	}

	id, err := s.lessonRepo.Create(ctx, lesson)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrBookingConflict
		}
		return nil, err
	}
	lesson.ID = id

	s.logger.Info("lesson booked",
		zap.String("coachId", req.CoachID.Hex()),
		zap.String("clientId", req.ClientID.Hex()),
		zap.Time("date", req.Date))
	return lesson, nil
}

// BookRecurring expands the request and submits each occurrence as an
// independent booking. Failures are collected per occurrence, never rolled
// back: a conflicting Tuesday does not cancel the other eleven weeks.
func (s *schedulingService) BookRecurring(ctx context.Context, req RecurringBookingRequest) (*BatchResult, error) {
	dates, err := s.expand(req)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{RecurrenceID: uuid.NewString()}
	for _, date := range dates {
		lesson := &domain.Lesson{
			CoachID:      req.CoachID,
			ClientID:     req.ClientID,
			Date:         date,
			Title:        req.Title,
			Status:       domain.LessonScheduled,
			RecurrenceID: result.RecurrenceID,
		}

		id, err := s.lessonRepo.Create(ctx, lesson)
		if err != nil {
			result.Failed++
			reason := err.Error()
			if errors.Is(err, repository.ErrConflict) {
				reason = ErrBookingConflict.Error()
			}
			result.Failures = append(result.Failures, BookingFailure{Date: date, Reason: reason})
			continue
		}
		lesson.ID = id
		result.Created++
		result.Lessons = append(result.Lessons, *lesson)
	}

	s.logger.Info("recurring booking submitted",
		zap.String("coachId", req.CoachID.Hex()),
		zap.String("recurrenceId", result.RecurrenceID),
		zap.Int("created", result.Created),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *schedulingService) expand(req RecurringBookingRequest) ([]time.Time, error) {
	return schedule.Expand(schedule.RecurrenceRequest{
		Start:       req.Date,
		End:         req.EndDate,
		Pattern:     req.Pattern,
		Interval:    req.Interval,
		WorkingDays: req.WorkingDays,
	})
}

// ListLessonsForCoach returns a coach's lessons in [from, to).
func (s *schedulingService) ListLessonsForCoach(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error) {
	return s.lessonRepo.GetByCoachAndRange(ctx, coachID, from, to)
}

// ListLessonsForClient returns a client's lessons in [from, to).
func (s *schedulingService) ListLessonsForClient(ctx context.Context, clientID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error) {
	return s.lessonRepo.GetByClientAndRange(ctx, clientID, from, to)
}

// CancelLesson removes a lesson, scoped to the owning coach.
func (s *schedulingService) CancelLesson(ctx context.Context, coachID, lessonID primitive.ObjectID) error {
	err := s.lessonRepo.Delete(ctx, lessonID, coachID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLessonNotFound
	}
	return err
}
