package form

import (
	"fmt"
	"strings"
)

const (
	MaxKRAs  = 3
	MaxIdeas = 3
)

// Record is a single staff performance review.
type Record struct {
	FullName          string `toml:"full-name" json:"full-name"`
	JobTitle          string `toml:"job-title" json:"job-title"`
	Department        string `toml:"department" json:"department"`
	Supervisor        string `toml:"supervisor" json:"supervisor"`
	PerformancePeriod string `toml:"performance-period" json:"performance-period"`
	GroupPastor       string `toml:"group-pastor" json:"group-pastor"`
	ChurchPastor      string `toml:"church-pastor" json:"church-pastor"`
	KRAs              []KRA  `toml:"kra" json:"kras"`
	Ideas             []Idea `toml:"idea" json:"ideas"`
}

// KRA is a key result area and what was achieved against it.
type KRA struct {
	Area         string `toml:"area" json:"area"`
	Achievements string `toml:"achievements" json:"achievements"`
	Comment      string `toml:"comment" json:"comment"`
}

type Idea struct {
	Idea   string `toml:"idea" json:"idea"`
	Impact string `toml:"impact" json:"impact"`
}

// NewRecord returns an empty record with one (blank) KRA and idea, the initial state
// of the form.
func NewRecord() Record {
	return Record{
		KRAs:  []KRA{{}},
		Ideas: []Idea{{}},
	}
}

// FieldError identifies a missing or invalid field, e.g. 'kra[1].area'.
type FieldError struct {
	Step    int    `json:"step"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%v: %v", e.Field, e.Message)
}

// ValidationError lists every invalid field in a record (or wizard step).
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	fields := []string{}
	for _, f := range e.Fields {
		fields = append(fields, f.Error())
	}

	return fmt.Sprintf("invalid record (%v)", strings.Join(fields, ", "))
}

// Validate checks the fields for a single wizard step against the options.
func (r Record) Validate(step int, options Options) []FieldError {
	errors := []FieldError{}

	required := func(field, value string) {
		if clean(value) == "" {
			errors = append(errors, FieldError{Step: step, Field: field, Message: "required"})
		}
	}

	oneOf := func(field, value string, list []string) {
		if v := clean(value); v != "" && !contains(list, v) {
			errors = append(errors, FieldError{Step: step, Field: field, Message: fmt.Sprintf("invalid value '%v'", v)})
		}
	}

	switch step {
	case 1:
		required("full-name", r.FullName)
		required("job-title", r.JobTitle)
		required("department", r.Department)
		required("supervisor", r.Supervisor)
		required("performance-period", r.PerformancePeriod)
		required("group-pastor", r.GroupPastor)
		required("church-pastor", r.ChurchPastor)

		oneOf("department", r.Department, options.Departments)
		oneOf("performance-period", r.PerformancePeriod, options.Periods)
		oneOf("group-pastor", r.GroupPastor, options.GroupPastors())
		oneOf("church-pastor", r.ChurchPastor, options.ChurchPastors(r.GroupPastor))

	case 2:
		if len(r.KRAs) == 0 {
			errors = append(errors, FieldError{Step: step, Field: "kra", Message: "at least one key result area is required"})
		} else if len(r.KRAs) > MaxKRAs {
			errors = append(errors, FieldError{Step: step, Field: "kra", Message: fmt.Sprintf("at most %v key result areas", MaxKRAs)})
		}

		for i, kra := range r.KRAs {
			required(fmt.Sprintf("kra[%v].area", i+1), kra.Area)
			required(fmt.Sprintf("kra[%v].achievements", i+1), kra.Achievements)
		}

	case 3:
		if len(r.Ideas) == 0 {
			errors = append(errors, FieldError{Step: step, Field: "idea", Message: "at least one idea is required"})
		} else if len(r.Ideas) > MaxIdeas {
			errors = append(errors, FieldError{Step: step, Field: "idea", Message: fmt.Sprintf("at most %v ideas", MaxIdeas)})
		}

		for i, idea := range r.Ideas {
			required(fmt.Sprintf("idea[%v].idea", i+1), idea.Idea)
			required(fmt.Sprintf("idea[%v].impact", i+1), idea.Impact)
		}

	default:
		errors = append(errors, FieldError{Step: step, Field: "step", Message: fmt.Sprintf("invalid step %v", step)})
	}

	return errors
}

// Check validates all steps and returns a ValidationError listing every invalid field.
func (r Record) Check(options Options) error {
	fields := []FieldError{}
	for step := 1; step <= Steps; step++ {
		fields = append(fields, r.Validate(step, options)...)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}

func clean(v string) string {
	return strings.TrimSpace(v)
}

func normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(v, " ", ""))
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}

	return false
}
