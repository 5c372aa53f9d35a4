package smoke

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/okian/roster/pkg/logger"
)

// load creates cfg.Students students in one cohort using a worker pool,
// then checks the cohort listing sees every successful insert.
func (r *runner) load(ctx context.Context, tag string) error {
	if r.cfg.Students <= 0 {
		return nil
	}

	var cohort Cohort
	if err := r.step(ctx, "create load cohort", http.MethodPost, "/cohorts",
		map[string]any{"name": "LOAD-" + tag}, http.StatusCreated, &cohort); err != nil {
		return err
	}

	var (
		ok, failed int64
		idsMu      sync.Mutex
		ids        = make([]int64, 0, r.cfg.Students)
		jobs       = make(chan int, r.cfg.Workers*2)
		wg         sync.WaitGroup
	)

	for w := 0; w < r.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				body := map[string]any{"name": fmt.Sprintf("Load-%s-%d", tag, i), "cohort_id": cohort.ID}
				resp, err := r.client.do(ctx, http.MethodPost, "/students", body)
				var s Student
				if err != nil || expect(resp, http.StatusCreated, &s) != nil {
					atomic.AddInt64(&failed, 1)
					continue
				}
				atomic.AddInt64(&ok, 1)
				idsMu.Lock()
				ids = append(ids, s.ID)
				idsMu.Unlock()
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < r.cfg.Students; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()
	wg.Wait()

	r.stats.StudentsSent = int(ok + failed)
	r.stats.StudentsOK = int(ok)
	r.stats.StudentsFailed = int(failed)
	logger.Get().Info(ctx, "load phase completed",
		logger.Int("sent", r.stats.StudentsSent),
		logger.Int("ok", r.stats.StudentsOK),
		logger.Int("failed", r.stats.StudentsFailed),
	)

	var members []Student
	if err := r.step(ctx, "load cohort students", http.MethodGet,
		fmt.Sprintf("/cohorts/%d/students", cohort.ID), nil, http.StatusOK, &members); err != nil {
		return err
	}
	if len(members) != int(ok) {
		return fmt.Errorf("load: cohort lists %d students, %d were created", len(members), ok)
	}
	if failed > 0 {
		return fmt.Errorf("load: %d of %d inserts failed", failed, r.cfg.Students)
	}

	for _, id := range ids {
		if err := r.step(ctx, "cleanup student", http.MethodDelete, fmt.Sprintf("/students/%d", id), nil, http.StatusNoContent, nil); err != nil {
			return err
		}
	}
	var msg Message
	return r.step(ctx, "cleanup cohort", http.MethodDelete, fmt.Sprintf("/cohorts/%d", cohort.ID), nil, http.StatusAccepted, &msg)
}
