package api

import (
	"net/http"
)

// StudentsHandler serves the /students routes.
type StudentsHandler struct {
	handlerBase
	students StudentStore
}

// HandleCreate handles POST /students.
func (h *StudentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "students.create"
	fields, err := decodeWrite[studentRequest](h.validate, w, r, false)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	created, err := h.students.Create(r.Context(), fields)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleList handles GET /students.
func (h *StudentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.students.List(r.Context())
	if err != nil {
		h.fail(w, r, "students.list", err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// HandleGet handles GET /students/{id}.
func (h *StudentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "students.get"
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	student, err := h.students.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	if student == nil && h.notFoundOnGet {
		h.fail(w, r, op, NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, student)
}

// HandleUpdate handles PUT /students/{id}.
func (h *StudentsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "students.update"
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	fields, err := decodeWrite[studentRequest](h.validate, w, r, true)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	updated, err := h.students.Update(r.Context(), id, fields)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /students/{id} and answers 204 without a body.
func (h *StudentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "students.delete"
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	n, err := h.students.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	if n == 0 {
		h.fail(w, r, op, NewKind(op, ErrNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
