package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	db "github.com/JonMunkholm/escolar/internal/database"
	"github.com/JonMunkholm/escolar/internal/database/dbtest"
)

func newTestService(t *testing.T) (*Service, *db.Store) {
	t.Helper()

	store := dbtest.NewStore(t)
	dbtest.SeedCareers(t, store, map[string]string{"05": "Law", "06": "History"})
	dbtest.SeedSubjects(t, store, map[string]string{"101": "Intro", "102": "Ethics", "201": "Logic"})
	return NewService(store, time.Second), store
}

func TestAddPlan_EndToEnd(t *testing.T) {
	svc, store := newTestService(t)

	res, err := svc.AddPlan(context.Background(), AddPlanRequest{
		CareerCode:   "05",
		Semester:     "3",
		SubjectCodes: "101",
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Inserted)

	want := []db.Plan{
		{ID: 1, CareerCode: "05", SubjectCode: "101", Semester: "03"},
	}
	if diff := cmp.Diff(want, dbtest.Plans(t, store)); diff != "" {
		t.Errorf("plans mismatch (-want +got):\n%s", diff)
	}
}

func TestAddPlan_SkipsUnknownSubjects(t *testing.T) {
	svc, store := newTestService(t)

	res, err := svc.AddPlan(context.Background(), AddPlanRequest{
		CareerCode:     "05",
		Semester:       "10",
		SubjectCodes:   "101, 999",
		EnrollmentDate: "15/03/2024",
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Inserted)
	require.Equal(t, []string{"101"}, res.Accepted)
	require.Equal(t, []string{"999"}, res.Rejected)

	plans := dbtest.Plans(t, store)
	require.Len(t, plans, 1)
	require.Equal(t, "101", plans[0].SubjectCode)
	require.Equal(t, "10", plans[0].Semester)
	require.Equal(t, db.NewNullDate("2024-03-15"), plans[0].EnrollmentDate)
	require.False(t, plans[0].WithdrawalDate.Valid)
}

func TestAddPlan_BatchInsertsInInputOrder(t *testing.T) {
	svc, store := newTestService(t)

	res, err := svc.AddPlan(context.Background(), AddPlanRequest{
		CareerCode:   "06",
		Semester:     "02",
		SubjectCodes: "201, 101, 201",
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.Inserted)

	var got []string
	for _, p := range dbtest.Plans(t, store) {
		got = append(got, p.SubjectCode)
	}
	require.Equal(t, []string{"201", "101"}, got)
}

func TestAddPlan_NothingCommittedOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		req     AddPlanRequest
		wantErr error
	}{
		{
			name:    "missing career",
			req:     AddPlanRequest{CareerCode: "99", Semester: "1", SubjectCodes: "101"},
			wantErr: ErrCareerNotFound,
		},
		{
			name:    "invalid semester",
			req:     AddPlanRequest{CareerCode: "05", Semester: "11", SubjectCodes: "101"},
			wantErr: ErrInvalidSemester,
		},
		{
			name:    "no valid subjects",
			req:     AddPlanRequest{CareerCode: "05", Semester: "1", SubjectCodes: "998, 999"},
			wantErr: ErrNoValidSubjects,
		},
		{
			name:    "empty subject list",
			req:     AddPlanRequest{CareerCode: "05", Semester: "1", SubjectCodes: " , "},
			wantErr: ErrNoValidSubjects,
		},
		{
			name:    "invalid withdrawal date",
			req:     AddPlanRequest{CareerCode: "05", Semester: "1", SubjectCodes: "101, 102", WithdrawalDate: "2024-02-30"},
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)

			res, err := svc.AddPlan(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddPlan() error = %v, want %v", err, tt.wantErr)
			}
			if res.Inserted != 0 {
				t.Errorf("AddPlan() inserted = %d, want 0", res.Inserted)
			}
			if plans := dbtest.Plans(t, store); len(plans) != 0 {
				t.Errorf("plans = %v, want none", plans)
			}
		})
	}
}

func TestAddPlan_NoValidSubjectsReportsRejected(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.AddPlan(context.Background(), AddPlanRequest{
		CareerCode: "05", Semester: "1", SubjectCodes: "998, 999",
	})
	require.ErrorIs(t, err, ErrNoValidSubjects)
	require.Equal(t, []string{"998", "999"}, res.Rejected)
}

func TestEditPlan(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddPlan(ctx, AddPlanRequest{
		CareerCode: "05", Semester: "3", SubjectCodes: "101",
		EnrollmentDate: "2024-03-15", WithdrawalDate: "2024-06-30",
	})
	require.NoError(t, err)

	t.Run("empty semester keeps value and NULL clears date", func(t *testing.T) {
		err := svc.EditPlan(ctx, EditPlanRequest{
			ID:             1,
			EnrollmentDate: "20/03/2024",
			WithdrawalDate: "NULL",
		})
		require.NoError(t, err)

		got, err := svc.GetPlan(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, "03", got.Semester)
		require.Equal(t, db.NewNullDate("2024-03-20"), got.EnrollmentDate)
		require.False(t, got.WithdrawalDate.Valid)
	})

	t.Run("semester replaced", func(t *testing.T) {
		require.NoError(t, svc.EditPlan(ctx, EditPlanRequest{ID: 1, Semester: "8"}))

		got, err := svc.GetPlan(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, "08", got.Semester)
		require.False(t, got.EnrollmentDate.Valid, "empty date input clears the date")
	})

	t.Run("same values still succeed", func(t *testing.T) {
		require.NoError(t, svc.EditPlan(ctx, EditPlanRequest{ID: 1, Semester: "8"}))
	})

	t.Run("invalid date aborts without changes", func(t *testing.T) {
		before := dbtest.Plans(t, store)

		err := svc.EditPlan(ctx, EditPlanRequest{ID: 1, Semester: "2", EnrollmentDate: "garbage"})
		require.ErrorIs(t, err, ErrInvalidDate)

		if diff := cmp.Diff(before, dbtest.Plans(t, store)); diff != "" {
			t.Errorf("plans changed (-before +after):\n%s", diff)
		}
	})

	t.Run("invalid semester", func(t *testing.T) {
		require.ErrorIs(t, svc.EditPlan(ctx, EditPlanRequest{ID: 1, Semester: "0"}), ErrInvalidSemester)
	})

	t.Run("missing id", func(t *testing.T) {
		require.ErrorIs(t, svc.EditPlan(ctx, EditPlanRequest{ID: 42}), ErrPlanNotFound)
	})
}

func TestDeletePlan(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddPlan(ctx, AddPlanRequest{CareerCode: "05", Semester: "1", SubjectCodes: "101, 102"})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePlan(ctx, 1))
	plans := dbtest.Plans(t, store)
	require.Len(t, plans, 1)
	require.EqualValues(t, 2, plans[0].ID)

	require.ErrorIs(t, svc.DeletePlan(ctx, 1), ErrPlanNotFound)
	require.ErrorIs(t, svc.DeletePlan(ctx, 42), ErrPlanNotFound)
	require.Len(t, dbtest.Plans(t, store), 1)
}

func TestGetPlan_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetPlan(context.Background(), 7)
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestListsAndCareerExists(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	careers, err := svc.ListCareers(ctx)
	require.NoError(t, err)
	require.Equal(t, []db.Career{{Code: "05", Name: "Law"}, {Code: "06", Name: "History"}}, careers)

	subjects, err := svc.ListSubjects(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 3)
	require.Equal(t, "101", subjects[0].Code)

	plans, err := svc.ListPlans(ctx)
	require.NoError(t, err)
	require.Empty(t, plans)

	ok, err := svc.CareerExists(ctx, " 05 ")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.CareerExists(ctx, "99")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestService_CancelledContext(t *testing.T) {
	svc, store := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.AddPlan(ctx, AddPlanRequest{CareerCode: "05", Semester: "1", SubjectCodes: "101"})
	require.Error(t, err)
	require.Empty(t, dbtest.Plans(t, store))
}
