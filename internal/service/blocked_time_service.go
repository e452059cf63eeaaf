package service

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrBlockedTimeNotFound = errors.New("blocked time not found")
	ErrInvalidBlockedTime  = errors.New("invalid blocked time range")
)

// --- Service Interface ---
type BlockedTimeService interface {
	CreateBlockedTime(ctx context.Context, coachID primitive.ObjectID, title string, start, end time.Time, isAllDay bool) (*domain.BlockedTime, error)
	ListBlockedTimes(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.BlockedTime, error)
	UpdateBlockedTime(ctx context.Context, coachID, blockID primitive.ObjectID, title string, start, end time.Time, isAllDay bool) (*domain.BlockedTime, error)
	DeleteBlockedTime(ctx context.Context, coachID, blockID primitive.ObjectID) error
}

// --- Service Implementation ---

// blockedTimeService implements the BlockedTimeService interface. Blocks are
// advisory; creating one never touches lessons that already exist inside it.
type blockedTimeService struct {
	blockedRepo repository.BlockedTimeRepository
	logger      *zap.Logger
}

// NewBlockedTimeService creates a new instance of blockedTimeService.
func NewBlockedTimeService(blockedRepo repository.BlockedTimeRepository, logger *zap.Logger) BlockedTimeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &blockedTimeService{blockedRepo: blockedRepo, logger: logger}
}

// CreateBlockedTime validates and stores a new block for the coach.
func (s *blockedTimeService) CreateBlockedTime(ctx context.Context, coachID primitive.ObjectID, title string, start, end time.Time, isAllDay bool) (*domain.BlockedTime, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	if err := validateBlockRange(start, end, isAllDay); err != nil {
		return nil, err
	}

	block := &domain.BlockedTime{
		CoachID:   coachID,
		Title:     title,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
		IsAllDay:  isAllDay,
	}

	id, err := s.blockedRepo.Create(ctx, block)
	if err != nil {
		return nil, err
	}
	block.ID = id

	s.logger.Info("blocked time created",
		zap.String("coachId", coachID.Hex()),
		zap.Time("start", block.StartTime),
		zap.Bool("allDay", isAllDay))
	return block, nil
}

// ListBlockedTimes returns the coach's blocks overlapping [from, to).
func (s *blockedTimeService) ListBlockedTimes(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.BlockedTime, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	return s.blockedRepo.GetByCoachAndRange(ctx, coachID, from, to)
}

// UpdateBlockedTime replaces a block's fields after verifying the coach owns it.
func (s *blockedTimeService) UpdateBlockedTime(ctx context.Context, coachID, blockID primitive.ObjectID, title string, start, end time.Time, isAllDay bool) (*domain.BlockedTime, error) {
	if err := validateBlockRange(start, end, isAllDay); err != nil {
		return nil, err
	}

	existing, err := s.blockedRepo.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBlockedTimeNotFound
		}
		return nil, err
	}
	if existing.CoachID != coachID {
		// Ownership mismatch reads the same as absence.
		return nil, ErrBlockedTimeNotFound
	}

	existing.Title = title
	existing.StartTime = start.UTC()
	existing.EndTime = end.UTC()
	existing.IsAllDay = isAllDay

	if err := s.blockedRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBlockedTimeNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteBlockedTime removes a block, scoped to the owning coach.
func (s *blockedTimeService) DeleteBlockedTime(ctx context.Context, coachID, blockID primitive.ObjectID) error {
	err := s.blockedRepo.Delete(ctx, blockID, coachID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrBlockedTimeNotFound
	}
	return err
}

// validateBlockRange rejects inverted or zero ranges. All-day blocks only
// need their dates ordered; the times within those days are ignored.
func validateBlockRange(start, end time.Time, isAllDay bool) error {
	if start.IsZero() || end.IsZero() {
		return ErrInvalidBlockedTime
	}
	if isAllDay {
		if end.Before(start) {
			return ErrInvalidBlockedTime
		}
		return nil
	}
	if !end.After(start) {
		return ErrInvalidBlockedTime
	}
	return nil
}
