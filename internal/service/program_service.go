package service

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProgramNotFound = errors.New("program not found")
	ErrRoutineNotFound = errors.New("routine not found")
)

// --- Service Interface ---
type ProgramService interface {
	CreateProgram(ctx context.Context, coachID primitive.ObjectID, name, description string, durationWeeks int) (*domain.Program, error)
	GetCoachPrograms(ctx context.Context, coachID primitive.ObjectID) ([]domain.Program, error)
	UpdateProgram(ctx context.Context, coachID, programID primitive.ObjectID, name, description string, durationWeeks int) (*domain.Program, error)
	DeleteProgram(ctx context.Context, coachID, programID primitive.ObjectID) error

	AssignProgram(ctx context.Context, coachID, programID, clientID primitive.ObjectID, notes string) (*domain.Routine, error)
	GetClientRoutines(ctx context.Context, coachID, clientID primitive.ObjectID) ([]domain.Routine, error)
	DeactivateRoutine(ctx context.Context, coachID, routineID primitive.ObjectID) error
}

// --- Service Implementation ---

// programService implements the ProgramService interface.
type programService struct {
	programRepo repository.ProgramRepository
	routineRepo repository.RoutineRepository
	userRepo    repository.UserRepository
}

// NewProgramService creates a new instance of programService.
func NewProgramService(programRepo repository.ProgramRepository, routineRepo repository.RoutineRepository, userRepo repository.UserRepository) ProgramService {
	return &programService{
		programRepo: programRepo,
		routineRepo: routineRepo,
		userRepo:    userRepo,
	}
}

// === Programs ===

// CreateProgram adds a new catalog entry for the coach.
func (s *programService) CreateProgram(ctx context.Context, coachID primitive.ObjectID, name, description string, durationWeeks int) (*domain.Program, error) {
	if coachID == primitive.NilObjectID || name == "" {
		return nil, errors.New("coach ID and program name are required")
	}

	program := &domain.Program{
		CoachID:       coachID,
		Name:          name,
		Description:   description,
		DurationWeeks: durationWeeks,
	}

	id, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}
	program.ID = id
	return program, nil
}

// GetCoachPrograms lists the coach's catalog.
func (s *programService) GetCoachPrograms(ctx context.Context, coachID primitive.ObjectID) ([]domain.Program, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	return s.programRepo.GetByCoachID(ctx, coachID)
}

// UpdateProgram replaces a program's fields after verifying ownership.
func (s *programService) UpdateProgram(ctx context.Context, coachID, programID primitive.ObjectID, name, description string, durationWeeks int) (*domain.Program, error) {
	if name == "" {
		return nil, errors.New("program name is required")
	}

	program, err := s.getOwnedProgram(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}

	program.Name = name
	program.Description = description
	program.DurationWeeks = durationWeeks

	if err := s.programRepo.Update(ctx, program); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}

// DeleteProgram removes a program, scoped to the owning coach. Existing
// routines keep their copied name and stay assigned.
func (s *programService) DeleteProgram(ctx context.Context, coachID, programID primitive.ObjectID) error {
	err := s.programRepo.Delete(ctx, programID, coachID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProgramNotFound
	}
	return err
}

// === Routines ===

// AssignProgram enrolls a managed client into one of the coach's programs.
func (s *programService) AssignProgram(ctx context.Context, coachID, programID, clientID primitive.ObjectID, notes string) (*domain.Routine, error) {
	program, err := s.getOwnedProgram(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}

	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.CoachID == nil || *client.CoachID != coachID {
		// Only clients on the coach's roster can be enrolled.
		return nil, ErrClientNotFound
	}

	routine := &domain.Routine{
		ProgramID: program.ID,
		CoachID:   coachID,
		ClientID:  clientID,
		Name:      program.Name,
		Notes:     notes,
		IsActive:  true,
	}

	id, err := s.routineRepo.Create(ctx, routine)
	if err != nil {
		return nil, err
	}
	routine.ID = id
	return routine, nil
}

// GetClientRoutines lists a client's routines, scoped to the coach.
func (s *programService) GetClientRoutines(ctx context.Context, coachID, clientID primitive.ObjectID) ([]domain.Routine, error) {
	return s.routineRepo.GetByClientAndCoachID(ctx, clientID, coachID)
}

// DeactivateRoutine marks a routine inactive without deleting its history.
func (s *programService) DeactivateRoutine(ctx context.Context, coachID, routineID primitive.ObjectID) error {
	routine, err := s.routineRepo.GetByID(ctx, routineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoutineNotFound
		}
		return err
	}
	if routine.CoachID != coachID {
		return ErrRoutineNotFound
	}

	routine.IsActive = false
	if err := s.routineRepo.Update(ctx, routine); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoutineNotFound
		}
		return err
	}
	return nil
}

func (s *programService) getOwnedProgram(ctx context.Context, coachID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.CoachID != coachID {
		return nil, ErrProgramNotFound
	}
	return program, nil
}
