// Package application is the interactive console for study plan maintenance.
package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/JonMunkholm/escolar/internal/core"
	db "github.com/JonMunkholm/escolar/internal/database"
	"github.com/JonMunkholm/escolar/internal/logging"
)

// State of the menu loop.
type State int

const (
	StateRunning State = iota
	StateExited
)

// Shell reads menu choices and prompts from in and writes to out.
type Shell struct {
	svc   *core.Service
	in    *bufio.Reader
	out   io.Writer
	menu  *Menu
	state State

	readOnce sync.Once
	lines    chan inputLine
	inErr    error
}

// inputLine is one ReadString result handed from the reader goroutine.
type inputLine struct {
	text string
	err  error
}

// NewShell creates a Shell bound to svc.
func NewShell(svc *core.Service, in io.Reader, out io.Writer) *Shell {
	s := &Shell{
		svc:   svc,
		in:    bufio.NewReader(in),
		out:   out,
		lines: make(chan inputLine, 1),
	}
	s.menu = buildMenuTree(s)
	return s
}

// State reports whether the loop is still running.
func (s *Shell) State() State {
	return s.state
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
// Cancellation interrupts a pending prompt and Run returns ctx.Err().
// Errors from a single action are printed and the loop continues; a panic
// ends the loop and is returned as an error.
func (s *Shell) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Error("panic in menu loop", "panic", r, "stack", string(debug.Stack()))
			s.state = StateExited
			err = fmt.Errorf("menu loop panic: %v", r)
		}
	}()

	s.state = StateRunning
	for s.state == StateRunning {
		if err := ctx.Err(); err != nil {
			s.state = StateExited
			return err
		}

		s.menu.Render(s.out)
		choice, err := s.prompt(ctx, "Choose an option: ")
		if errors.Is(err, io.EOF) {
			s.exit()
			return nil
		}
		if err != nil {
			s.state = StateExited
			return err
		}

		item, ok := s.menu.Lookup(choice)
		if !ok {
			s.println("Invalid option")
			continue
		}
		if item.Exit {
			s.exit()
			return nil
		}

		opCtx := logging.WithOperation(ctx)
		if err := item.Action(opCtx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				s.state = StateExited
				return ctxErr
			}
			if errors.Is(err, io.EOF) {
				s.exit()
				return nil
			}
			s.report(opCtx, item.Label, err)
		}
	}
	return nil
}

func (s *Shell) exit() {
	s.state = StateExited
	s.println("Goodbye.")
}

// report prints err as a user message and logs the technical error.
// Errors without a known message point the user at the log entry.
func (s *Shell) report(ctx context.Context, action string, err error) {
	logger := logging.WithFields(ctx, "action", action)
	if core.IsValidation(err) {
		logger.Info("action rejected", "error", err)
	} else {
		logger.Error("action failed", "error", err)
	}
	s.println("Error: " + core.FormatUserError(err))
	if !core.IsUserFacing(err) {
		s.println("See the log for operation " + logging.OperationID(ctx) + ".")
	}
}

/* ----------------------------------------
	ACTIONS
---------------------------------------- */

func (s *Shell) listPlans(ctx context.Context) error {
	plans, err := s.svc.ListPlans(ctx)
	if err != nil {
		return err
	}
	return RenderTable(s.out, db.PlanColumns, planRows(plans))
}

func (s *Shell) addPlan(ctx context.Context) error {
	careers, err := s.svc.ListCareers(ctx)
	if err != nil {
		return err
	}
	if err := RenderTable(s.out, db.CareerColumns, careerRows(careers)); err != nil {
		return err
	}

	var req core.AddPlanRequest
	if req.CareerCode, err = s.prompt(ctx, "Career code: "); err != nil {
		return err
	}
	ok, err := s.svc.CareerExists(ctx, req.CareerCode)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", core.ErrCareerNotFound, req.CareerCode)
	}

	if req.Semester, err = s.prompt(ctx, "Semester (1-10): "); err != nil {
		return err
	}
	if _, err := core.NormalizeSemester(req.Semester); err != nil {
		return err
	}

	subjects, err := s.svc.ListSubjects(ctx)
	if err != nil {
		return err
	}
	if err := RenderTable(s.out, db.SubjectColumns, subjectRows(subjects)); err != nil {
		return err
	}

	if req.SubjectCodes, err = s.prompt(ctx, "Subject codes (comma-separated): "); err != nil {
		return err
	}
	accepted, rejected := core.FilterSubjectCodes(core.SplitSubjectCodes(req.SubjectCodes), db.SubjectCodeSet(subjects))
	if len(accepted) == 0 {
		if len(rejected) > 0 {
			s.println("Skipped unknown subjects: " + strings.Join(rejected, ", "))
		}
		return fmt.Errorf("%w: %q", core.ErrNoValidSubjects, req.SubjectCodes)
	}
	if req.EnrollmentDate, err = s.prompt(ctx, "Enrollment date (YYYY-MM-DD or DD/MM/YYYY, empty for none): "); err != nil {
		return err
	}
	if req.WithdrawalDate, err = s.prompt(ctx, "Withdrawal date (YYYY-MM-DD or DD/MM/YYYY, empty for none): "); err != nil {
		return err
	}

	res, err := s.svc.AddPlan(ctx, req)
	if len(res.Rejected) > 0 {
		s.println("Skipped unknown subjects: " + strings.Join(res.Rejected, ", "))
	}
	if err != nil {
		return err
	}
	s.println(fmt.Sprintf("Added %d plan entries.", res.Inserted))
	return nil
}

func (s *Shell) editPlan(ctx context.Context) error {
	id, err := s.promptPlanID(ctx, "Plan id to edit: ")
	if err != nil {
		return err
	}

	current, err := s.svc.GetPlan(ctx, id)
	if err != nil {
		return err
	}
	if err := RenderTable(s.out, db.PlanColumns, planRows([]db.Plan{current})); err != nil {
		return err
	}

	req := core.EditPlanRequest{ID: id}
	if req.Semester, err = s.prompt(ctx, "New semester (empty to keep): "); err != nil {
		return err
	}
	if req.EnrollmentDate, err = s.prompt(ctx, "New enrollment date (empty or NULL to clear): "); err != nil {
		return err
	}
	if req.WithdrawalDate, err = s.prompt(ctx, "New withdrawal date (empty or NULL to clear): "); err != nil {
		return err
	}

	if err := s.svc.EditPlan(ctx, req); err != nil {
		return err
	}
	s.println(fmt.Sprintf("Plan %d updated.", id))
	return nil
}

func (s *Shell) deletePlan(ctx context.Context) error {
	id, err := s.promptPlanID(ctx, "Plan id to delete: ")
	if err != nil {
		return err
	}

	if err := s.svc.DeletePlan(ctx, id); err != nil {
		return err
	}
	s.println(fmt.Sprintf("Plan %d deleted.", id))
	return nil
}

// promptPlanID shows the plan list and reads an id.
func (s *Shell) promptPlanID(ctx context.Context, label string) (int64, error) {
	if err := s.listPlans(ctx); err != nil {
		return 0, err
	}
	input, err := s.prompt(ctx, label)
	if err != nil {
		return 0, err
	}
	return core.ParsePlanID(input)
}

/* ----------------------------------------
	IO
---------------------------------------- */

// prompt writes label and returns the next trimmed input line, or ctx.Err()
// if ctx is done first. A final line without a newline is still returned;
// io.EOF is returned only when nothing was read.
func (s *Shell) prompt(ctx context.Context, label string) (string, error) {
	if s.inErr != nil {
		return "", s.inErr
	}
	fmt.Fprint(s.out, label)
	s.readOnce.Do(func() { go s.readLines() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case in := <-s.lines:
		if in.err != nil {
			s.inErr = in.err
			if !(errors.Is(in.err, io.EOF) && in.text != "") {
				return "", in.err
			}
		}
		return strings.TrimSpace(in.text), nil
	}
}

// readLines feeds s.lines until the first read error. A blocked read
// outlives a cancelled prompt; the process exits around it.
func (s *Shell) readLines() {
	for {
		line, err := s.in.ReadString('\n')
		s.lines <- inputLine{text: line, err: err}
		if err != nil {
			return
		}
	}
}

func (s *Shell) println(msg string) {
	fmt.Fprintln(s.out, msg)
}
