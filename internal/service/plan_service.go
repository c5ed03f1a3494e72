package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound     = errors.New("workout plan not found")
	ErrPlanAccessDenied = errors.New("access denied to modify or delete this workout plan")
	ErrPresetNotFound   = errors.New("workout preset not found")
)

// defaultEntryDurationMinutes is used when a materialized entry has no set
// with a duration.
const defaultEntryDurationMinutes = 30

// ClientClock carries the invoking client's notion of "today". The server
// and the browser can disagree about which calendar day it is, so day
// boundaries are computed from the client's local calendar, not the
// server's.
type ClientClock struct {
	// Today is the date the client considers the current day.
	Today time.Time
	// TZOffsetMinutes is the client's UTC offset in minutes (east
	// positive), captured at save time. A DST transition inside the
	// materialization window shifts the computed day boundary by an
	// hour; that is accepted, known behavior.
	TZOffsetMinutes int
}

// PlanService manages workout plan templates and expands them into dated
// exercise entries.
//
// Every save runs reversal-then-rematerialization inside one database
// transaction: future entries produced by the plan's assignments are
// deleted, the assignment list is replaced wholesale, and the plan is
// expanded again from the client's current day forward. Either all of it
// commits or none of it does; a partially materialized plan is never left
// visible. The forward pass alone is not idempotent, which is why it is
// always paired with reversal here.
type PlanService interface {
	CreatePlan(ctx context.Context, userID int64, plan *domain.WorkoutPlan, clock ClientClock) (*domain.WorkoutPlan, error)
	GetPlan(ctx context.Context, userID, planID int64) (*domain.WorkoutPlan, error)
	ListPlans(ctx context.Context, userID int64) ([]domain.WorkoutPlan, error)
	UpdatePlan(ctx context.Context, userID int64, plan *domain.WorkoutPlan, clock ClientClock) (*domain.WorkoutPlan, error)
	DeletePlan(ctx context.Context, userID, planID int64, clock ClientClock) error
}

type planService struct {
	planRepo  repository.WorkoutPlanRepository
	txManager repository.TxManager
	estimator *CalorieEstimator
	log       *logrus.Logger

	// UTC offset of the server's local zone, captured at construction.
	serverOffsetMin int
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	planRepo repository.WorkoutPlanRepository,
	txManager repository.TxManager,
	estimator *CalorieEstimator,
	log *logrus.Logger,
) PlanService {
	return &planService{
		planRepo:        planRepo,
		txManager:       txManager,
		estimator:       estimator,
		log:             log,
		serverOffsetMin: serverTZOffsetMinutes(),
	}
}

func (s *planService) CreatePlan(ctx context.Context, userID int64, plan *domain.WorkoutPlan, clock ClientClock) (*domain.WorkoutPlan, error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	plan.UserID = userID

	var planID int64
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		id, err := tx.Plans().Create(ctx, plan)
		if err != nil {
			return err
		}
		planID = id
		plan.ID = id

		if !plan.IsActive {
			return nil
		}
		return s.materialize(ctx, tx, plan, clock)
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"plan_id": planID,
			"user_id": userID,
		}).Error("plan create failed")
		return nil, err
	}

	return s.planRepo.GetByID(ctx, planID)
}

func (s *planService) GetPlan(ctx context.Context, userID, planID int64) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

func (s *planService) ListPlans(ctx context.Context, userID int64) ([]domain.WorkoutPlan, error) {
	return s.planRepo.ListByUser(ctx, userID)
}

func (s *planService) UpdatePlan(ctx context.Context, userID int64, plan *domain.WorkoutPlan, clock ClientClock) (*domain.WorkoutPlan, error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		existing, err := tx.Plans().GetByID(ctx, plan.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrPlanNotFound
			}
			return err
		}
		if existing.UserID != userID {
			return ErrPlanAccessDenied
		}

		// Reversal runs against the old assignment rows before they are
		// replaced: every future entry they produced is removed. Past
		// entries stay; history is immutable once its date has passed.
		if _, err := tx.Entries().DeleteFutureByPlan(ctx, plan.ID, dateOnly(clock.Today)); err != nil {
			return fmt.Errorf("reverse materialized entries: %w", err)
		}

		plan.UserID = userID
		if err := tx.Plans().Update(ctx, plan); err != nil {
			return err
		}

		if !plan.IsActive {
			return nil
		}
		return s.materialize(ctx, tx, plan, clock)
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"plan_id": plan.ID,
			"user_id": userID,
		}).Error("plan update failed")
		return nil, err
	}

	return s.planRepo.GetByID(ctx, plan.ID)
}

func (s *planService) DeletePlan(ctx context.Context, userID, planID int64, clock ClientClock) error {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		existing, err := tx.Plans().GetByID(ctx, planID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrPlanNotFound
			}
			return err
		}
		if existing.UserID != userID {
			return ErrPlanAccessDenied
		}

		if _, err := tx.Entries().DeleteFutureByPlan(ctx, planID, dateOnly(clock.Today)); err != nil {
			return fmt.Errorf("reverse materialized entries: %w", err)
		}
		return tx.Plans().Delete(ctx, planID)
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"plan_id": planID,
			"user_id": userID,
		}).Error("plan delete failed")
	}
	return err
}

// materialize expands the plan's assignments into dated exercise entries.
// It runs inside the caller's transaction; any failure (a vanished preset
// or exercise included) aborts the whole pass rather than skipping.
func (s *planService) materialize(ctx context.Context, tx repository.Tx, plan *domain.WorkoutPlan, clock ClientClock) error {
	if len(plan.Assignments) == 0 {
		return nil
	}

	start, end := materializationWindow(plan, clock, s.serverOffsetMin)

	byWeekday := make(map[int][]domain.PlanAssignment)
	for _, a := range plan.Assignments {
		byWeekday[a.DayOfWeek] = append(byWeekday[a.DayOfWeek], a)
	}

	created := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		assignments := byWeekday[int(day.Weekday())]
		for _, a := range assignments {
			targets, err := s.resolveTargets(ctx, tx, plan.UserID, a)
			if err != nil {
				return err
			}
			for _, t := range targets {
				if err := s.createEntry(ctx, tx, plan.UserID, a.ID, dateOnly(day), t); err != nil {
					return err
				}
				created++
			}
		}
	}

	s.log.WithFields(logrus.Fields{
		"plan_id": plan.ID,
		"user_id": plan.UserID,
		"entries": created,
	}).Info("plan materialized")
	return nil
}

// entryTarget is one resolved exercise occurrence to be written for a
// matching calendar day.
type entryTarget struct {
	exercise *domain.Exercise
	sets     []domain.EntrySet
	notes    string
}

// resolveTargets expands an assignment into the concrete exercises it
// fires. A direct-exercise assignment yields one target built from the
// assignment's own denormalized values; a preset assignment yields one
// target per preset exercise. Presets obey the same visibility rule as
// direct reads: owned or public, nothing else.
func (s *planService) resolveTargets(ctx context.Context, tx repository.Tx, userID int64, a domain.PlanAssignment) ([]entryTarget, error) {
	if a.TargetsPreset() {
		preset, err := tx.Presets().GetByID(ctx, *a.PresetID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrPresetNotFound
			}
			return nil, err
		}
		if preset.UserID != userID && !preset.IsPublic {
			return nil, ErrPresetAccessDenied
		}

		targets := make([]entryTarget, 0, len(preset.Exercises))
		for _, pe := range preset.Exercises {
			exercise, err := tx.Exercises().GetByID(ctx, pe.ExerciseID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrExerciseNotFound
				}
				return nil, err
			}
			targets = append(targets, entryTarget{
				exercise: exercise,
				sets:     buildSets(pe.Sets, pe.Reps, pe.Weight, pe.Duration),
				notes:    pe.Notes,
			})
		}
		return targets, nil
	}

	if a.ExerciseID == nil {
		return nil, ErrValidationFailed
	}
	exercise, err := tx.Exercises().GetByID(ctx, *a.ExerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return []entryTarget{{
		exercise: exercise,
		sets:     buildSets(a.Sets, a.Reps, a.Weight, a.Duration),
		notes:    a.Notes,
	}}, nil
}

func (s *planService) createEntry(ctx context.Context, tx repository.Tx, userID, assignmentID int64, day time.Time, t entryTarget) error {
	duration := 0
	for _, set := range t.sets {
		duration += set.Duration
	}
	if duration == 0 {
		duration = defaultEntryDurationMinutes
	}

	perHour := s.estimator.CaloriesPerHour(ctx, userID, t.exercise)

	entry := &domain.ExerciseEntry{
		UserID:           userID,
		ExerciseID:       t.exercise.ID,
		EntryDate:        day,
		DurationMinutes:  duration,
		CaloriesBurned:   CaloriesForDuration(perHour, duration),
		Notes:            t.notes,
		PlanAssignmentID: &assignmentID,
		Sets:             t.sets,
	}
	if _, err := tx.Entries().Create(ctx, entry); err != nil {
		return fmt.Errorf("create materialized entry: %w", err)
	}
	return nil
}

// buildSets expands scalar assignment targets into a concrete set list:
// `count` working sets of the given reps/weight/duration.
func buildSets(count, reps int, weight float64, duration int) []domain.EntrySet {
	sets := make([]domain.EntrySet, 0, count)
	for i := 0; i < count; i++ {
		sets = append(sets, domain.EntrySet{
			SetNumber: i + 1,
			SetType:   domain.SetTypeWorking,
			Reps:      reps,
			Weight:    weight,
			Duration:  duration,
		})
	}
	return sets
}

// materializationWindow computes the inclusive [start, end] day range to
// expand. The start is the plan's start date aligned with the client's
// local calendar day, never earlier than the client's "today" (entries in
// the past are neither reversed nor recreated). An open-ended plan is
// capped at exactly one year after its start.
func materializationWindow(plan *domain.WorkoutPlan, clock ClientClock, serverOffsetMinutes int) (time.Time, time.Time) {
	start := shiftForClient(plan.StartDate, clock.TZOffsetMinutes, serverOffsetMinutes)

	today := dateOnly(clock.Today)
	if start.Before(today) {
		start = today
	}

	var end time.Time
	if plan.EndDate != nil {
		end = dateOnly(*plan.EndDate)
	} else {
		end = shiftForClient(plan.StartDate, clock.TZOffsetMinutes, serverOffsetMinutes).AddDate(1, 0, 0)
	}
	return start, end
}

// shiftForClient moves a stored date by the difference between the
// client's and the server's UTC offsets, so the weekday and day boundary
// are computed from the user's local calendar day rather than the
// server's. The shift does not account for DST transitions inside the
// window (open question inherited from the materialization design).
func shiftForClient(date time.Time, clientOffsetMinutes, serverOffsetMinutes int) time.Time {
	diff := time.Duration(clientOffsetMinutes-serverOffsetMinutes) * time.Minute
	return dateOnly(date.Add(-diff))
}

func serverTZOffsetMinutes() int {
	_, offsetSeconds := time.Now().Zone()
	return offsetSeconds / 60
}

// dateOnly truncates a timestamp to midnight UTC of its calendar day.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validatePlan(plan *domain.WorkoutPlan) error {
	if plan.Name == "" {
		return ErrValidationFailed
	}
	if plan.StartDate.IsZero() {
		return ErrValidationFailed
	}
	if plan.EndDate != nil && plan.EndDate.Before(plan.StartDate) {
		return ErrValidationFailed
	}
	for _, a := range plan.Assignments {
		if a.DayOfWeek < 0 || a.DayOfWeek > 6 {
			return ErrValidationFailed
		}
		// Exactly one target per assignment.
		if (a.PresetID == nil) == (a.ExerciseID == nil) {
			return ErrValidationFailed
		}
	}
	return nil
}
