package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/roster/pkg/logger"
)

// expect checks the status of resp and decodes its body into out when set.
func expect(resp response, want int, out any) error {
	if resp.Status != want {
		return fmt.Errorf("status %d, want %d: %s", resp.Status, want, resp.Body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s: %w", resp.Body, err)
	}
	return nil
}

// step sends one request and checks the reply.
func (r *runner) step(ctx context.Context, name, method, path string, body any, want int, out any) error {
	resp, err := r.client.do(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := expect(resp, want, out); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	r.stats.Checks++
	if r.cfg.Verbose {
		logger.Get().Info(ctx, "check passed",
			logger.String("step", name),
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", resp.Status),
			logger.String("request_id", resp.RequestID),
		)
	}
	return nil
}

// scenario walks one cohort and one student through their full lifecycle.
func (r *runner) scenario(ctx context.Context, tag string) error {
	var cohort Cohort
	if err := r.step(ctx, "create cohort", http.MethodPost, "/cohorts",
		map[string]any{"name": "SMOKE-" + tag}, http.StatusCreated, &cohort); err != nil {
		return err
	}
	cohortPath := fmt.Sprintf("/cohorts/%d", cohort.ID)

	var got *Cohort
	if err := r.step(ctx, "get cohort", http.MethodGet, cohortPath, nil, http.StatusOK, &got); err != nil {
		return err
	}
	if got == nil || *got != cohort {
		return fmt.Errorf("get cohort: got %+v, want %+v", got, cohort)
	}

	var msg Message
	if err := r.step(ctx, "empty cohort students", http.MethodGet, cohortPath+"/students", nil, http.StatusNotFound, &msg); err != nil {
		return err
	}

	var student Student
	if err := r.step(ctx, "create student", http.MethodPost, "/students",
		map[string]any{"name": "Student-" + tag, "cohort_id": cohort.ID}, http.StatusCreated, &student); err != nil {
		return err
	}
	studentPath := fmt.Sprintf("/students/%d", student.ID)

	var members []Student
	if err := r.step(ctx, "cohort students", http.MethodGet, cohortPath+"/students", nil, http.StatusOK, &members); err != nil {
		return err
	}
	if len(members) != 1 || members[0].ID != student.ID {
		return fmt.Errorf("cohort students: got %+v", members)
	}

	var renamed Student
	if err := r.step(ctx, "rename student", http.MethodPut, studentPath,
		map[string]any{"name": "Renamed-" + tag}, http.StatusOK, &renamed); err != nil {
		return err
	}
	if renamed.CohortID == nil || *renamed.CohortID != cohort.ID {
		return fmt.Errorf("rename student: cohort_id changed to %v", renamed.CohortID)
	}

	if err := r.step(ctx, "reject unknown field", http.MethodPost, "/cohorts",
		map[string]any{"name": "x", "mascot": "owl"}, http.StatusBadRequest, nil); err != nil {
		return err
	}
	if err := r.step(ctx, "delete cohort", http.MethodDelete, cohortPath, nil, http.StatusAccepted, &msg); err != nil {
		return err
	}
	if err := r.step(ctx, "delete cohort again", http.MethodDelete, cohortPath, nil, http.StatusNotFound, &msg); err != nil {
		return err
	}
	if err := r.step(ctx, "delete student", http.MethodDelete, studentPath, nil, http.StatusNoContent, nil); err != nil {
		return err
	}
	return r.step(ctx, "delete student again", http.MethodDelete, studentPath, nil, http.StatusNotFound, nil)
}
