package service

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/repository"
	"coachdesk/internal/schedule"
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- In-memory fakes ---

type fakeLessonRepo struct {
	lessons []domain.Lesson
}

func (f *fakeLessonRepo) Create(_ context.Context, lesson *domain.Lesson) (primitive.ObjectID, error) {
	for _, l := range f.lessons {
		if l.CoachID == lesson.CoachID && l.Date.Equal(lesson.Date) {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	stored := *lesson
	stored.ID = primitive.NewObjectID()
	f.lessons = append(f.lessons, stored)
	return stored.ID, nil
}

func (f *fakeLessonRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Lesson, error) {
	for i := range f.lessons {
		if f.lessons[i].ID == id {
			l := f.lessons[i]
			return &l, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeLessonRepo) GetByCoachAndRange(_ context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error) {
	var out []domain.Lesson
	for _, l := range f.lessons {
		if l.CoachID == coachID && !l.Date.Before(from) && l.Date.Before(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLessonRepo) GetByCoachesAndRange(_ context.Context, coachIDs []primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error) {
	var out []domain.Lesson
	for _, id := range coachIDs {
		part, _ := f.GetByCoachAndRange(context.Background(), id, from, to)
		out = append(out, part...)
	}
	return out, nil
}

func (f *fakeLessonRepo) GetByClientAndRange(_ context.Context, clientID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error) {
	var out []domain.Lesson
	for _, l := range f.lessons {
		if l.ClientID == clientID && !l.Date.Before(from) && l.Date.Before(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLessonRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.LessonStatus) error {
	for i := range f.lessons {
		if f.lessons[i].ID == id {
			f.lessons[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeLessonRepo) Delete(_ context.Context, id, coachID primitive.ObjectID) error {
	for i := range f.lessons {
		if f.lessons[i].ID == id && f.lessons[i].CoachID == coachID {
			f.lessons = append(f.lessons[:i], f.lessons[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeBlockedRepo struct {
	blocks []domain.BlockedTime
}

func (f *fakeBlockedRepo) Create(_ context.Context, block *domain.BlockedTime) (primitive.ObjectID, error) {
	stored := *block
	stored.ID = primitive.NewObjectID()
	f.blocks = append(f.blocks, stored)
	return stored.ID, nil
}

func (f *fakeBlockedRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.BlockedTime, error) {
	for i := range f.blocks {
		if f.blocks[i].ID == id {
			b := f.blocks[i]
			return &b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBlockedRepo) GetByCoachAndRange(_ context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.BlockedTime, error) {
	var out []domain.BlockedTime
	for _, b := range f.blocks {
		if b.CoachID == coachID && b.StartTime.Before(to) && b.EndTime.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBlockedRepo) GetByCoachesAndRange(_ context.Context, coachIDs []primitive.ObjectID, from, to time.Time) ([]domain.BlockedTime, error) {
	var out []domain.BlockedTime
	for _, id := range coachIDs {
		part, _ := f.GetByCoachAndRange(context.Background(), id, from, to)
		out = append(out, part...)
	}
	return out, nil
}

func (f *fakeBlockedRepo) Update(_ context.Context, block *domain.BlockedTime) error {
	for i := range f.blocks {
		if f.blocks[i].ID == block.ID {
			f.blocks[i] = *block
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeBlockedRepo) Delete(_ context.Context, id, coachID primitive.ObjectID) error {
	for i := range f.blocks {
		if f.blocks[i].ID == id && f.blocks[i].CoachID == coachID {
			f.blocks = append(f.blocks[:i], f.blocks[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakeCoachService serves canned scheduling profiles.
type fakeCoachService struct {
	profiles map[primitive.ObjectID]*domain.User
	org      []domain.User
}

func (f *fakeCoachService) AddClientByEmail(context.Context, primitive.ObjectID, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCoachService) GetManagedClients(context.Context, primitive.ObjectID) ([]domain.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCoachService) GetSchedulingProfile(_ context.Context, coachID primitive.ObjectID) (*domain.WorkingHours, map[string]domain.CustomDayOverride, error) {
	coach, ok := f.profiles[coachID]
	if !ok {
		return nil, nil, ErrCoachNotFound
	}
	return coach.WorkingHours, coach.CustomWorkingHours, nil
}

func (f *fakeCoachService) UpdateWorkingHours(context.Context, primitive.ObjectID, domain.WorkingHours) error {
	return errors.New("not implemented")
}

func (f *fakeCoachService) UpdateCustomWorkingHours(context.Context, primitive.ObjectID, map[string]domain.CustomDayOverride) error {
	return errors.New("not implemented")
}

func (f *fakeCoachService) GetOrganizationCoaches(context.Context, primitive.ObjectID) ([]domain.User, error) {
	return f.org, nil
}

// --- Test fixtures ---

// tuesday is a fixed working day; "now" stays the evening before so no
// slots are trimmed as past.
var (
	tuesday    = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	dayBefore  = time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC)
	tuesdayAt  = func(hour int) time.Time { return tuesday.Add(time.Duration(hour) * time.Hour) }
	nineToFive = &domain.WorkingHours{
		StartTime:           "9:00 AM",
		EndTime:             "5:00 PM",
		WorkingDays:         []string{"Tuesday"},
		SlotIntervalMinutes: 60,
	}
)

func newTestScheduler(coach *domain.User, lessons *fakeLessonRepo, blocks *fakeBlockedRepo) SchedulingService {
	coaches := &fakeCoachService{
		profiles: map[primitive.ObjectID]*domain.User{coach.ID: coach},
		org:      []domain.User{*coach},
	}
	return NewSchedulingService(coaches, lessons, blocks, nil, nil)
}

func testCoach() *domain.User {
	return &domain.User{
		ID:           primitive.NewObjectID(),
		Name:         "Dana",
		Role:         domain.RoleCoach,
		WorkingHours: nineToFive,
	}
}

// --- Tests ---

func TestListSlotsOmitsBookedSlots(t *testing.T) {
	coach := testCoach()
	lessons := &fakeLessonRepo{lessons: []domain.Lesson{{
		ID:      primitive.NewObjectID(),
		CoachID: coach.ID,
		Date:    tuesdayAt(11),
		Status:  domain.LessonScheduled,
	}}}
	svc := newTestScheduler(coach, lessons, &fakeBlockedRepo{})

	slots, err := svc.ListSlots(context.Background(), coach.ID, tuesday, time.UTC, dayBefore)
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}
	if len(slots) != 7 {
		t.Fatalf("got %d slots, want 7", len(slots))
	}
	for _, s := range slots {
		if s.Label == "11:00 AM" {
			t.Fatalf("booked 11:00 AM slot should be omitted, got state %q", s.State)
		}
	}
}

func TestListSlotsMarksBlockedSlots(t *testing.T) {
	coach := testCoach()
	blocks := &fakeBlockedRepo{blocks: []domain.BlockedTime{{
		ID:        primitive.NewObjectID(),
		CoachID:   coach.ID,
		Title:     "Dentist",
		StartTime: tuesdayAt(14),
		EndTime:   tuesdayAt(15),
	}}}
	svc := newTestScheduler(coach, &fakeLessonRepo{}, blocks)

	slots, err := svc.ListSlots(context.Background(), coach.ID, tuesday, time.UTC, dayBefore)
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}
	if len(slots) != 8 {
		t.Fatalf("got %d slots, want 8", len(slots))
	}
	var found bool
	for _, s := range slots {
		if s.Label == "2:00 PM" {
			found = true
			if s.State != schedule.SlotBlocked {
				t.Errorf("2:00 PM state = %q, want blocked", s.State)
			}
			if s.BlockedReason != "Dentist" {
				t.Errorf("blocked reason = %q, want Dentist", s.BlockedReason)
			}
		}
	}
	if !found {
		t.Fatal("blocked 2:00 PM slot missing from list")
	}
}

func TestListOrganizationSlotsShowsBooked(t *testing.T) {
	coach := testCoach()
	lessons := &fakeLessonRepo{lessons: []domain.Lesson{{
		ID:      primitive.NewObjectID(),
		CoachID: coach.ID,
		Date:    tuesdayAt(11),
		Status:  domain.LessonScheduled,
	}}}
	svc := newTestScheduler(coach, lessons, &fakeBlockedRepo{})

	grids, err := svc.ListOrganizationSlots(context.Background(), primitive.NewObjectID(), tuesday, time.UTC, dayBefore)
	if err != nil {
		t.Fatalf("ListOrganizationSlots: %v", err)
	}
	if len(grids) != 1 {
		t.Fatalf("got %d coach grids, want 1", len(grids))
	}
	if grids[0].CoachName != "Dana" {
		t.Errorf("coach name = %q, want Dana", grids[0].CoachName)
	}
	if len(grids[0].Slots) != 8 {
		t.Fatalf("got %d slots, want 8 (booked slots stay visible)", len(grids[0].Slots))
	}
	var found bool
	for _, s := range grids[0].Slots {
		if s.Label == "11:00 AM" {
			found = true
			if s.State != schedule.SlotBooked {
				t.Errorf("11:00 AM state = %q, want booked", s.State)
			}
		}
	}
	if !found {
		t.Fatal("booked 11:00 AM slot missing from organization view")
	}
}

func TestBookLessonConflict(t *testing.T) {
	coach := testCoach()
	lessons := &fakeLessonRepo{}
	svc := newTestScheduler(coach, lessons, &fakeBlockedRepo{})

	req := BookingRequest{
		CoachID:  coach.ID,
		ClientID: primitive.NewObjectID(),
		Date:     tuesdayAt(10),
	}
	if _, err := svc.BookLesson(context.Background(), req); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	_, err := svc.BookLesson(context.Background(), req)
	if !errors.Is(err, ErrBookingConflict) {
		t.Fatalf("second booking error = %v, want ErrBookingConflict", err)
	}
}

func TestBookRecurringPartialFailure(t *testing.T) {
	coach := testCoach()
	// A conflicting lesson already sits on the middle occurrence.
	lessons := &fakeLessonRepo{lessons: []domain.Lesson{{
		ID:      primitive.NewObjectID(),
		CoachID: coach.ID,
		Date:    tuesdayAt(10).AddDate(0, 0, 7),
		Status:  domain.LessonScheduled,
	}}}
	svc := newTestScheduler(coach, lessons, &fakeBlockedRepo{})

	result, err := svc.BookRecurring(context.Background(), RecurringBookingRequest{
		BookingRequest: BookingRequest{
			CoachID:  coach.ID,
			ClientID: primitive.NewObjectID(),
			Date:     tuesdayAt(10),
		},
		Pattern: schedule.Weekly,
		EndDate: tuesdayAt(10).AddDate(0, 0, 14),
	})
	if err != nil {
		t.Fatalf("BookRecurring: %v", err)
	}

	if result.Created != 2 || result.Failed != 1 {
		t.Fatalf("created=%d failed=%d, want 2/1", result.Created, result.Failed)
	}
	if result.RecurrenceID == "" {
		t.Fatal("batch should carry a recurrence ID")
	}
	if len(result.Failures) != 1 {
		t.Fatalf("got %d failure records, want 1", len(result.Failures))
	}
	if want := tuesdayAt(10).AddDate(0, 0, 7); !result.Failures[0].Date.Equal(want) {
		t.Errorf("failed occurrence = %v, want %v", result.Failures[0].Date, want)
	}
	for _, l := range result.Lessons {
		if l.RecurrenceID != result.RecurrenceID {
			t.Errorf("lesson recurrence ID = %q, want %q", l.RecurrenceID, result.RecurrenceID)
		}
	}
}

func TestBookRecurringRequiresEndDate(t *testing.T) {
	coach := testCoach()
	svc := newTestScheduler(coach, &fakeLessonRepo{}, &fakeBlockedRepo{})

	_, err := svc.BookRecurring(context.Background(), RecurringBookingRequest{
		BookingRequest: BookingRequest{CoachID: coach.ID, ClientID: primitive.NewObjectID(), Date: tuesdayAt(10)},
		Pattern:        schedule.Weekly,
	})
	if !errors.Is(err, schedule.ErrMissingEndDate) {
		t.Fatalf("error = %v, want ErrMissingEndDate", err)
	}
}

func TestPreviewRecurrenceCapsDisplay(t *testing.T) {
	coach := testCoach()
	svc := newTestScheduler(coach, &fakeLessonRepo{}, &fakeBlockedRepo{})

	// 13 weekly occurrences: 10 displayed, 3 summarized.
	preview, err := svc.PreviewRecurrence(RecurringBookingRequest{
		BookingRequest: BookingRequest{CoachID: coach.ID, Date: tuesdayAt(10)},
		Pattern:        schedule.Weekly,
		EndDate:        tuesdayAt(10).AddDate(0, 0, 7*12),
	}, time.UTC)
	if err != nil {
		t.Fatalf("PreviewRecurrence: %v", err)
	}
	if preview.Total != 13 {
		t.Fatalf("total = %d, want 13", preview.Total)
	}
	if len(preview.Display) != 10 {
		t.Fatalf("display = %d entries, want 10", len(preview.Display))
	}
	if preview.More != 3 {
		t.Fatalf("more = %d, want 3", preview.More)
	}
	if preview.Display[0] != "Tue, Mar 10, 2026 10:00 AM" {
		t.Errorf("first display entry = %q", preview.Display[0])
	}
}

func TestCancelLessonScopedToCoach(t *testing.T) {
	coach := testCoach()
	lessons := &fakeLessonRepo{}
	svc := newTestScheduler(coach, lessons, &fakeBlockedRepo{})

	booked, err := svc.BookLesson(context.Background(), BookingRequest{
		CoachID:  coach.ID,
		ClientID: primitive.NewObjectID(),
		Date:     tuesdayAt(9),
	})
	if err != nil {
		t.Fatalf("BookLesson: %v", err)
	}

	if err := svc.CancelLesson(context.Background(), primitive.NewObjectID(), booked.ID); !errors.Is(err, ErrLessonNotFound) {
		t.Fatalf("cancel by another coach = %v, want ErrLessonNotFound", err)
	}
	if err := svc.CancelLesson(context.Background(), coach.ID, booked.ID); err != nil {
		t.Fatalf("cancel by owner: %v", err)
	}
}
