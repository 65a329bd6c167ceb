package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/escolar/internal/core"
	db "github.com/JonMunkholm/escolar/internal/database"
	"github.com/JonMunkholm/escolar/internal/database/dbtest"
)

func newTestShell(t *testing.T, input string) (*Shell, *bytes.Buffer, *db.Store) {
	t.Helper()

	store := dbtest.NewStore(t)
	dbtest.SeedCareers(t, store, map[string]string{"05": "Law"})
	dbtest.SeedSubjects(t, store, map[string]string{"101": "Intro", "102": "Ethics"})

	var out bytes.Buffer
	svc := core.NewService(store, time.Second)
	return NewShell(svc, strings.NewReader(input), &out), &out, store
}

func lines(in ...string) string {
	return strings.Join(in, "\n") + "\n"
}

// lockedBuffer lets a test read output while Run writes it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestShell_ExitOption(t *testing.T) {
	sh, out, _ := newTestShell(t, lines("5"))

	require.NoError(t, sh.Run(context.Background()))
	require.Equal(t, StateExited, sh.State())
	require.Contains(t, out.String(), "Goodbye.")
}

func TestShell_InvalidOptionKeepsRunning(t *testing.T) {
	sh, out, _ := newTestShell(t, lines("9", "abc", "5"))

	require.NoError(t, sh.Run(context.Background()))
	require.Equal(t, 2, strings.Count(out.String(), "Invalid option"))
	require.Equal(t, 3, strings.Count(out.String(), "--- Study Plans ---"))
}

func TestShell_EOFExits(t *testing.T) {
	sh, out, _ := newTestShell(t, "")

	require.NoError(t, sh.Run(context.Background()))
	require.Equal(t, StateExited, sh.State())
	require.Contains(t, out.String(), "Goodbye.")
}

func TestShell_EOFInsideActionExits(t *testing.T) {
	sh, _, store := newTestShell(t, lines("2", "05"))

	require.NoError(t, sh.Run(context.Background()))
	require.Equal(t, StateExited, sh.State())
	require.Empty(t, dbtest.Plans(t, store))
}

func TestShell_ListEmpty(t *testing.T) {
	sh, out, _ := newTestShell(t, lines("1", "5"))

	require.NoError(t, sh.Run(context.Background()))
	require.Contains(t, out.String(), "carrer")
	require.Contains(t, out.String(), emptyResult)
}

func TestShell_AddPlan(t *testing.T) {
	sh, out, store := newTestShell(t, lines("2", "05", "3", "101, 999", "15/03/2024", "", "5"))

	require.NoError(t, sh.Run(context.Background()))
	require.Contains(t, out.String(), "Skipped unknown subjects: 999")
	require.Contains(t, out.String(), "Added 1 plan entries.")

	plans := dbtest.Plans(t, store)
	require.Len(t, plans, 1)
	require.Equal(t, db.Plan{
		ID:             1,
		CareerCode:     "05",
		SubjectCode:    "101",
		Semester:       "03",
		EnrollmentDate: db.NewNullDate("2024-03-15"),
	}, plans[0])
}

func TestShell_AddPlan_UnknownCareerAborts(t *testing.T) {
	sh, out, store := newTestShell(t, lines("2", "99", "5"))

	require.NoError(t, sh.Run(context.Background()))
	require.Contains(t, out.String(), "Code: REF001")
	require.NotContains(t, out.String(), "Semester (1-10)")
	require.NotContains(t, out.String(), "See the log")
	require.Empty(t, dbtest.Plans(t, store))
}

func TestShell_AddPlan_InvalidSemesterAborts(t *testing.T) {
	sh, out, store := newTestShell(t, lines("2", "05", "11", "5"))

	require.NoError(t, sh.Run(context.Background()))
	require.Contains(t, out.String(), "Code: VAL001")
	require.NotContains(t, out.String(), "Subject codes")
	require.Empty(t, dbtest.Plans(t, store))
}

func TestShell_AddPlan_NoValidSubjectsSkipsDates(t *testing.T) {
	sh, out, store := newTestShell(t, lines("2", "05", "3", "999", "5"))

	require.NoError(t, sh.Run(context.Background()))
	require.Contains(t, out.String(), "Skipped unknown subjects: 999")
	require.Contains(t, out.String(), "Code: VAL004")
	require.NotContains(t, out.String(), "Enrollment date")
	require.Equal(t, StateExited, sh.State())
	require.Empty(t, dbtest.Plans(t, store))
}

func TestShell_EditAndDelete(t *testing.T) {
	sh, out, store := newTestShell(t, lines(
		"2", "05", "1", "101, 102", "2024-03-15", "2024-06-30",
		"3", "1", "", "NULL", "01/07/2024",
		"4", "2",
		"4", "42",
		"3", "x",
		"5",
	))

	require.NoError(t, sh.Run(context.Background()))
	require.Contains(t, out.String(), "Plan 1 updated.")
	require.Contains(t, out.String(), "Plan 2 deleted.")
	require.Contains(t, out.String(), "Code: REF002")
	require.Contains(t, out.String(), "Code: VAL003")

	plans := dbtest.Plans(t, store)
	require.Len(t, plans, 1)
	require.Equal(t, "01", plans[0].Semester)
	require.False(t, plans[0].EnrollmentDate.Valid)
	require.Equal(t, db.NewNullDate("2024-07-01"), plans[0].WithdrawalDate)
}

func TestShell_CancelledContext(t *testing.T) {
	sh, _, _ := newTestShell(t, lines("1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, sh.Run(ctx), context.Canceled)
	require.Equal(t, StateExited, sh.State())
}

func TestShell_CancelInterruptsPendingPrompt(t *testing.T) {
	store := dbtest.NewStore(t)
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	var out lockedBuffer
	sh := NewShell(core.NewService(store, time.Second), pr, &out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Choose an option: ")
	}, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	require.Equal(t, StateExited, sh.State())
	require.NotContains(t, out.String(), "Goodbye.")
}

func TestShell_UnmappedErrorPointsToLog(t *testing.T) {
	sh, out, _ := newTestShell(t, lines("1", "5"))
	sh.menu.Items[0].Action = func(context.Context) error { return errors.New("disk on fire") }

	require.NoError(t, sh.Run(context.Background()))
	require.Contains(t, out.String(), "Code: ERR000")
	require.Contains(t, out.String(), "See the log for operation ")
	require.Equal(t, StateExited, sh.State())
}

func TestShell_PanicBecomesError(t *testing.T) {
	sh, _, _ := newTestShell(t, lines("1"))
	sh.menu.Items[0].Action = func(context.Context) error { panic("boom") }

	err := sh.Run(context.Background())
	require.ErrorContains(t, err, "boom")
	require.Equal(t, StateExited, sh.State())
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, []string{"clave", "nombre"}, [][]string{{"05", "Law"}}))

	got := buf.String()
	require.Contains(t, got, "clave")
	require.Contains(t, got, "Law")
	require.Contains(t, got, "|")
	require.NotContains(t, got, emptyResult)
}

func TestPlanRows_NullDatesAreEmpty(t *testing.T) {
	rows := planRows([]db.Plan{{ID: 7, CareerCode: "05", SubjectCode: "101", Semester: "03"}})
	require.Equal(t, [][]string{{"7", "05", "101", "03", "", ""}}, rows)
}
