package api

import (
	"net/http"
)

// CohortsHandler serves the /cohorts routes.
type CohortsHandler struct {
	handlerBase
	cohorts  CohortStore
	students StudentStore
}

// HandleCreate handles POST /cohorts.
func (h *CohortsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "cohorts.create"
	fields, err := decodeWrite[cohortRequest](h.validate, w, r, false)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	created, err := h.cohorts.Create(r.Context(), fields)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleList handles GET /cohorts.
func (h *CohortsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.cohorts.List(r.Context())
	if err != nil {
		h.fail(w, r, "cohorts.list", err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// HandleGet handles GET /cohorts/{id}. A missing cohort is answered with
// 200 and a null body unless 404 was requested via configuration.
func (h *CohortsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "cohorts.get"
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	cohort, err := h.cohorts.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	if cohort == nil && h.notFoundOnGet {
		h.fail(w, r, op, NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, cohort)
}

// HandleListStudents handles GET /cohorts/{id}/students.
func (h *CohortsHandler) HandleListStudents(w http.ResponseWriter, r *http.Request) {
	const op = "cohorts.students"
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	students, err := h.students.ListByCohort(r.Context(), id)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	if len(students) == 0 {
		writeMessage(w, http.StatusNotFound, msgNoStudents)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

// HandleUpdate handles PUT /cohorts/{id}.
func (h *CohortsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "cohorts.update"
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	fields, err := decodeWrite[cohortRequest](h.validate, w, r, true)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	updated, err := h.cohorts.Update(r.Context(), id, fields)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /cohorts/{id}. Students keep their
// cohort_id.
func (h *CohortsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "cohorts.delete"
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	n, err := h.cohorts.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	if n == 0 {
		h.fail(w, r, op, NewKind(op, ErrNotFound))
		return
	}
	writeMessage(w, http.StatusAccepted, msgCohortDeleted)
}
