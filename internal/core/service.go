package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	db "github.com/JonMunkholm/escolar/internal/database"
)

// DefaultQueryTimeout bounds one logical operation when none is configured.
var DefaultQueryTimeout = 30 * time.Second

// Service provides the study plan operations. Every operation, read or
// write, runs in its own transaction.
type Service struct {
	store        *db.Store
	queryTimeout time.Duration
}

// NewService creates a new Service. A non-positive queryTimeout falls back
// to DefaultQueryTimeout.
func NewService(store *db.Store, queryTimeout time.Duration) *Service {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	return &Service{store: store, queryTimeout: queryTimeout}
}

// AddPlan inserts one plan entry per valid subject code for a career and
// semester. Nothing is committed unless every insert succeeds.
//
// The career must exist, the semester and both dates must be valid, and at
// least one requested subject must exist in materias. Unknown subject codes
// are reported in the result and skipped.
func (s *Service) AddPlan(ctx context.Context, req AddPlanRequest) (AddPlanResult, error) {
	ctx, cancel, logger := s.beginOp(ctx, "add_plan")
	defer cancel()

	career := strings.TrimSpace(req.CareerCode)
	var result AddPlanResult

	err := s.store.InTx(ctx, func(q *db.Queries) error {
		ok, err := q.CareerExists(ctx, career)
		if err != nil {
			return fmt.Errorf("check career: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: %q", ErrCareerNotFound, career)
		}

		semester, err := NormalizeSemester(req.Semester)
		if err != nil {
			return err
		}

		subjects, err := q.ListSubjects(ctx)
		if err != nil {
			return fmt.Errorf("list subjects: %w", err)
		}
		result.Accepted, result.Rejected = FilterSubjectCodes(
			SplitSubjectCodes(req.SubjectCodes), db.SubjectCodeSet(subjects))
		if len(result.Accepted) == 0 {
			return ErrNoValidSubjects
		}

		enrollment, err := NormalizeDate(req.EnrollmentDate)
		if err != nil {
			return fmt.Errorf("enrollment date: %w", err)
		}
		withdrawal, err := NormalizeDate(req.WithdrawalDate)
		if err != nil {
			return fmt.Errorf("withdrawal date: %w", err)
		}

		for _, code := range result.Accepted {
			if err := q.InsertPlan(ctx, db.InsertPlanParams{
				CareerCode:     career,
				SubjectCode:    code,
				Semester:       semester,
				EnrollmentDate: enrollment,
				WithdrawalDate: withdrawal,
			}); err != nil {
				return fmt.Errorf("insert plan %s/%s: %w", career, code, err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("add plan failed", "career", career, "error", err)
		return result, err
	}

	result.Inserted = len(result.Accepted)
	logger.Info("plan added",
		"career", career,
		"inserted", result.Inserted,
		"rejected", len(result.Rejected),
	)
	return result, nil
}

// EditPlan updates the semester and dates of one plan entry.
// Input is validated before the store is touched.
func (s *Service) EditPlan(ctx context.Context, req EditPlanRequest) error {
	ctx, cancel, logger := s.beginOp(ctx, "edit_plan")
	defer cancel()

	params := db.UpdatePlanParams{ID: req.ID}

	if strings.TrimSpace(req.Semester) != "" {
		semester, err := NormalizeSemester(req.Semester)
		if err != nil {
			return err
		}
		params.Semester = sql.NullString{String: semester, Valid: true}
	}

	var err error
	if params.EnrollmentDate, err = NormalizeDate(req.EnrollmentDate); err != nil {
		return fmt.Errorf("enrollment date: %w", err)
	}
	if params.WithdrawalDate, err = NormalizeDate(req.WithdrawalDate); err != nil {
		return fmt.Errorf("withdrawal date: %w", err)
	}

	err = s.store.InTx(ctx, func(q *db.Queries) error {
		n, err := q.UpdatePlan(ctx, params)
		if err != nil {
			return fmt.Errorf("update plan %d: %w", req.ID, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: id %d", ErrPlanNotFound, req.ID)
		}
		return nil
	})
	if err != nil {
		logger.Warn("edit plan failed", "id", req.ID, "error", err)
		return err
	}

	logger.Info("plan updated", "id", req.ID)
	return nil
}

// DeletePlan removes one plan entry by id.
func (s *Service) DeletePlan(ctx context.Context, id int64) error {
	ctx, cancel, logger := s.beginOp(ctx, "delete_plan")
	defer cancel()

	err := s.store.InTx(ctx, func(q *db.Queries) error {
		n, err := q.DeletePlan(ctx, id)
		if err != nil {
			return fmt.Errorf("delete plan %d: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: id %d", ErrPlanNotFound, id)
		}
		return nil
	})
	if err != nil {
		logger.Warn("delete plan failed", "id", id, "error", err)
		return err
	}

	logger.Info("plan deleted", "id", id)
	return nil
}

// GetPlan returns one plan entry, or ErrPlanNotFound.
func (s *Service) GetPlan(ctx context.Context, id int64) (db.Plan, error) {
	ctx, cancel, _ := s.beginOp(ctx, "get_plan")
	defer cancel()

	var plan db.Plan
	err := s.store.InTx(ctx, func(q *db.Queries) error {
		var err error
		plan, err = q.GetPlan(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: id %d", ErrPlanNotFound, id)
		}
		return err
	})
	return plan, err
}

// ListPlans returns every plan entry ordered by id.
func (s *Service) ListPlans(ctx context.Context) ([]db.Plan, error) {
	return list(ctx, s, "list_plans", (*db.Queries).ListPlans)
}

// ListCareers returns every career ordered by code.
func (s *Service) ListCareers(ctx context.Context) ([]db.Career, error) {
	return list(ctx, s, "list_careers", (*db.Queries).ListCareers)
}

// ListSubjects returns every subject ordered by code.
func (s *Service) ListSubjects(ctx context.Context) ([]db.Subject, error) {
	return list(ctx, s, "list_subjects", (*db.Queries).ListSubjects)
}

// CareerExists reports whether a career code is present in carreras.
func (s *Service) CareerExists(ctx context.Context, code string) (bool, error) {
	ctx, cancel, _ := s.beginOp(ctx, "career_exists")
	defer cancel()

	var ok bool
	err := s.store.InTx(ctx, func(q *db.Queries) error {
		var err error
		ok, err = q.CareerExists(ctx, strings.TrimSpace(code))
		return err
	})
	return ok, err
}

func list[T any](ctx context.Context, s *Service, op string, fn func(*db.Queries, context.Context) ([]T, error)) ([]T, error) {
	ctx, cancel, logger := s.beginOp(ctx, op)
	defer cancel()

	var rows []T
	err := s.store.InTx(ctx, func(q *db.Queries) error {
		var err error
		rows, err = fn(q, ctx)
		return err
	})
	if err != nil {
		logger.Warn("list failed", "error", err)
		return nil, err
	}

	logger.Debug("listed rows", "count", len(rows))
	return rows, nil
}
