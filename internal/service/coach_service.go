package service

import (
	"coachdesk/internal/cache"
	"coachdesk/internal/domain"
	"coachdesk/internal/repository"
	"coachdesk/internal/schedule"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrClientNotFound        = errors.New("client user not found")
	ErrClientNotRole         = errors.New("user found but is not a client")
	ErrClientAlreadyAssigned = errors.New("client is already assigned to a coach")
	ErrCoachNotFound         = errors.New("coach user not found")
	ErrNotCoach              = errors.New("user found but is not a coach")
	ErrInvalidWorkingHours   = errors.New("invalid working hours configuration")
)

// --- Service Interface ---
type CoachService interface {
	// Client Management
	AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, clientEmail string) (*domain.User, error)
	GetManagedClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)

	// Working Hours Management
	GetSchedulingProfile(ctx context.Context, coachID primitive.ObjectID) (*domain.WorkingHours, map[string]domain.CustomDayOverride, error)
	UpdateWorkingHours(ctx context.Context, coachID primitive.ObjectID, hours domain.WorkingHours) error
	UpdateCustomWorkingHours(ctx context.Context, coachID primitive.ObjectID, overrides map[string]domain.CustomDayOverride) error

	// Organization
	GetOrganizationCoaches(ctx context.Context, organizationID primitive.ObjectID) ([]domain.User, error)
}

// --- Service Implementation ---

// coachService implements the CoachService interface.
type coachService struct {
	userRepo repository.UserRepository
	profiles *cache.ProfileCache
	logger   *zap.Logger
}

// NewCoachService creates a new instance of coachService. The profile cache
// is optional; a nil cache means every profile read hits the database.
func NewCoachService(userRepo repository.UserRepository, profiles *cache.ProfileCache, logger *zap.Logger) CoachService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &coachService{
		userRepo: userRepo,
		profiles: profiles,
		logger:   logger,
	}
}

// === Client Management ===

// AddClientByEmail finds a client by email and assigns them to the coach.
func (s *coachService) AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	if coachID == primitive.NilObjectID || clientEmail == "" {
		return nil, errors.New("coach ID and client email are required")
	}

	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if client.Role != domain.RoleClient {
		return nil, ErrClientNotRole
	}

	if client.CoachID != nil && *client.CoachID != primitive.NilObjectID {
		if *client.CoachID == coachID {
			// Already managed by this coach.
			return client, nil
		}
		return nil, ErrClientAlreadyAssigned
	}

	if err := s.userRepo.AddClientIDToCoach(ctx, coachID, client.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetCoachForClient(ctx, client.ID, coachID); err != nil {
		return nil, err
	}

	client.CoachID = &coachID
	return client, nil
}

// GetManagedClients retrieves the list of clients managed by the coach.
func (s *coachService) GetManagedClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	return s.userRepo.GetClientsByCoachID(ctx, coachID)
}

// === Working Hours Management ===

// GetSchedulingProfile returns a coach's working hours and overrides,
// served from the cache when possible.
func (s *coachService) GetSchedulingProfile(ctx context.Context, coachID primitive.ObjectID) (*domain.WorkingHours, map[string]domain.CustomDayOverride, error) {
	if s.profiles != nil {
		hours, overrides, err := s.profiles.Get(ctx, coachID)
		if err == nil {
			return hours, overrides, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			// Cache trouble is never a reason to fail the request.
			s.logger.Warn("profile cache read failed", zap.String("coachId", coachID.Hex()), zap.Error(err))
		}
	}

	coach, err := s.userRepo.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrCoachNotFound
		}
		return nil, nil, err
	}
	if !coach.IsCoach() {
		return nil, nil, ErrNotCoach
	}

	if s.profiles != nil {
		if err := s.profiles.Set(ctx, coachID, coach.WorkingHours, coach.CustomWorkingHours); err != nil {
			s.logger.Warn("profile cache write failed", zap.String("coachId", coachID.Hex()), zap.Error(err))
		}
	}
	return coach.WorkingHours, coach.CustomWorkingHours, nil
}

// UpdateWorkingHours validates and saves a coach's global configuration.
// The end-after-start constraint is enforced here, at save time, as well as
// defensively at slot-generation time.
func (s *coachService) UpdateWorkingHours(ctx context.Context, coachID primitive.ObjectID, hours domain.WorkingHours) error {
	if err := schedule.ValidateWorkingHours(hours); err != nil {
		return errors.Join(ErrInvalidWorkingHours, err)
	}

	if err := s.userRepo.UpdateWorkingHours(ctx, coachID, &hours); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCoachNotFound
		}
		return err
	}

	s.invalidateProfile(ctx, coachID)
	s.logger.Info("working hours updated", zap.String("coachId", coachID.Hex()))
	return nil
}

// UpdateCustomWorkingHours validates and saves per-weekday overrides. The
// ordering constraint is checked per enabled day; an empty map clears all
// overrides.
func (s *coachService) UpdateCustomWorkingHours(ctx context.Context, coachID primitive.ObjectID, overrides map[string]domain.CustomDayOverride) error {
	if err := schedule.ValidateOverrides(overrides); err != nil {
		return errors.Join(ErrInvalidWorkingHours, err)
	}

	if err := s.userRepo.UpdateCustomWorkingHours(ctx, coachID, overrides); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCoachNotFound
		}
		return err
	}

	s.invalidateProfile(ctx, coachID)
	s.logger.Info("custom working hours updated",
		zap.String("coachId", coachID.Hex()),
		zap.Strings("enabledDays", schedule.EnabledDays(overrides)))
	return nil
}

func (s *coachService) invalidateProfile(ctx context.Context, coachID primitive.ObjectID) {
	if s.profiles == nil {
		return
	}
	if err := s.profiles.Invalidate(ctx, coachID); err != nil {
		s.logger.Warn("profile cache invalidation failed", zap.String("coachId", coachID.Hex()), zap.Error(err))
	}
}

// === Organization ===

// GetOrganizationCoaches lists the coaches whose schedules appear in an
// organization-wide view.
func (s *coachService) GetOrganizationCoaches(ctx context.Context, organizationID primitive.ObjectID) ([]domain.User, error) {
	if organizationID == primitive.NilObjectID {
		return nil, errors.New("organization ID is required")
	}
	return s.userRepo.GetCoachesByOrganizationID(ctx, organizationID)
}
