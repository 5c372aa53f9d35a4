package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/roster/internal/adapters/repository"
	"github.com/okian/roster/internal/domain/model"
)

const maxBodyBytes = 1 << 20

// fieldSet maps permitted JSON keys (equal to column names) to struct field names.
type fieldSet map[string]string

// writeRequest is a POST/PUT body for one resource.
type writeRequest interface {
	permitted() fieldSet
	values() repository.Fields
}

type cohortRequest struct {
	Name *string `json:"name" validate:"required,min=1,max=128"`
}

func (cohortRequest) permitted() fieldSet {
	return fieldSet{model.ColumnName: "Name"}
}

func (c cohortRequest) values() repository.Fields {
	return repository.Fields{model.ColumnName: deref(c.Name)}
}

type studentRequest struct {
	Name     *string `json:"name" validate:"required,min=1,max=128"`
	CohortID *int64  `json:"cohort_id" validate:"omitempty,gt=0"`
}

func (studentRequest) permitted() fieldSet {
	return fieldSet{model.ColumnName: "Name", model.ColumnCohortID: "CohortID"}
}

func (s studentRequest) values() repository.Fields {
	return repository.Fields{
		model.ColumnName:     deref(s.Name),
		model.ColumnCohortID: deref(s.CohortID),
	}
}

// deref returns *p, or an untyped nil so the column is written as NULL.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// requestError is a client error answered with 400.
type requestError struct {
	Message string
	Fields  map[string]string
}

func (e *requestError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e.Fields[k]
	}
	return e.Message + ": " + strings.Join(parts, ", ")
}

func badRequest(format string, args ...any) *requestError {
	return &requestError{Message: fmt.Sprintf(format, args...)}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeWrite reads a JSON object body into T, rejects keys T does not
// permit and validates it. With partial set only the supplied keys are
// validated and at least one is required. The returned Fields hold only
// the supplied keys.
func decodeWrite[T writeRequest](v *validator.Validate, w http.ResponseWriter, r *http.Request, partial bool) (repository.Fields, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, badRequest("request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, badRequest("unable to read request body")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, badRequest("request body must be a JSON object")
	}

	var req T
	permitted := req.permitted()
	present := make([]string, 0, len(raw))
	for key := range raw {
		field, ok := permitted[key]
		if !ok {
			return nil, badRequest("unknown field %q", key)
		}
		present = append(present, field)
	}

	if err := json.Unmarshal(body, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &requestError{
				Message: "invalid request body",
				Fields:  map[string]string{typeErr.Field: "must be a " + typeErr.Type.String()},
			}
		}
		return nil, badRequest("invalid request body")
	}

	if partial {
		if len(present) == 0 {
			return nil, badRequest("no fields to update")
		}
		err = v.StructPartial(req, present...)
	} else {
		err = v.Struct(req)
	}
	if err != nil {
		return nil, validationError(err)
	}

	all := req.values()
	fields := make(repository.Fields, len(raw))
	for key := range raw {
		fields[key] = all[key]
	}
	return fields, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return badRequest("invalid request body")
	}
	out := &requestError{Message: "validation failed", Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = describeTag(fe)
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
