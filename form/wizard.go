package form

import (
	"sync"
)

// Steps is the number of wizard steps: profile, key result areas, ideas and innovations.
const Steps = 3

// Wizard tracks a record being filled in one step at a time. Safe for concurrent use.
type Wizard struct {
	options Options

	sync.Mutex
	step   int
	record Record
}

func NewWizard(options Options) *Wizard {
	return &Wizard{
		options: options,
		step:    1,
		record:  NewRecord(),
	}
}

func (w *Wizard) Step() int {
	w.Lock()
	defer w.Unlock()

	return w.step
}

func (w *Wizard) Record() Record {
	w.Lock()
	defer w.Unlock()

	return copyRecord(w.record)
}

// Update replaces the record being edited. A church pastor that is not in the selected
// group pastor's list is cleared.
func (w *Wizard) Update(r Record) {
	w.Lock()
	defer w.Unlock()

	w.record = copyRecord(r)
	w.record.ChurchPastor = w.churchPastor(w.record.GroupPastor, w.record.ChurchPastor)
}

// SelectGroupPastor sets the group pastor and returns the church pastors that may be
// chosen for it.
func (w *Wizard) SelectGroupPastor(pastor string) []string {
	w.Lock()
	defer w.Unlock()

	w.record.GroupPastor = pastor
	w.record.ChurchPastor = w.churchPastor(pastor, w.record.ChurchPastor)

	return w.options.ChurchPastors(pastor)
}

// Next validates the current step and advances to the next one. The step is unchanged
// if the current step is invalid.
func (w *Wizard) Next() []FieldError {
	w.Lock()
	defer w.Unlock()

	if errors := w.record.Validate(w.step, w.options); len(errors) > 0 {
		return errors
	}

	if w.step < Steps {
		w.step++
	}

	return nil
}

func (w *Wizard) Prev() {
	w.Lock()
	defer w.Unlock()

	if w.step > 1 {
		w.step--
	}
}

// Complete returns the record if the wizard is on the last step and the whole record
// is valid. Otherwise it moves to the first step with an invalid field and returns the
// invalid fields.
func (w *Wizard) Complete() (*Record, error) {
	w.Lock()
	defer w.Unlock()

	err := w.record.Check(w.options)
	if err == nil && w.step == Steps {
		r := copyRecord(w.record)
		return &r, nil
	}

	if verr, ok := err.(*ValidationError); ok {
		w.step = verr.Fields[0].Step
		return nil, err
	}

	return nil, &ValidationError{
		Fields: []FieldError{{Step: w.step, Field: "step", Message: "not on the final step"}},
	}
}

// Reset clears the record and returns to the first step, e.g. after a successful submit.
func (w *Wizard) Reset() {
	w.Lock()
	defer w.Unlock()

	w.step = 1
	w.record = NewRecord()
}

func (w *Wizard) AddKRA() bool {
	w.Lock()
	defer w.Unlock()

	if len(w.record.KRAs) >= MaxKRAs {
		return false
	}

	w.record.KRAs = append(w.record.KRAs, KRA{})

	return true
}

// RemoveKRA removes the KRA at index. The last remaining KRA cannot be removed.
func (w *Wizard) RemoveKRA(index int) bool {
	w.Lock()
	defer w.Unlock()

	if len(w.record.KRAs) <= 1 || index < 0 || index >= len(w.record.KRAs) {
		return false
	}

	w.record.KRAs = append(w.record.KRAs[:index], w.record.KRAs[index+1:]...)

	return true
}

func (w *Wizard) AddIdea() bool {
	w.Lock()
	defer w.Unlock()

	if len(w.record.Ideas) >= MaxIdeas {
		return false
	}

	w.record.Ideas = append(w.record.Ideas, Idea{})

	return true
}

// RemoveIdea removes the idea at index. The last remaining idea cannot be removed.
func (w *Wizard) RemoveIdea(index int) bool {
	w.Lock()
	defer w.Unlock()

	if len(w.record.Ideas) <= 1 || index < 0 || index >= len(w.record.Ideas) {
		return false
	}

	w.record.Ideas = append(w.record.Ideas[:index], w.record.Ideas[index+1:]...)

	return true
}

func (w *Wizard) churchPastor(group, pastor string) string {
	if contains(w.options.ChurchPastors(group), clean(pastor)) {
		return pastor
	}

	return ""
}

func copyRecord(r Record) Record {
	c := r
	c.KRAs = append([]KRA{}, r.KRAs...)
	c.Ideas = append([]Idea{}, r.Ideas...)

	return c
}
