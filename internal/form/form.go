// Package form implements the enrollment form state: field values, field
// errors and the validation pass that keeps them consistent.
package form

import (
	"regexp"
	"strings"

	"github.com/cursos-tv/enrollment-api/internal/models"
	"github.com/cursos-tv/enrollment-api/pkg/cpf"
)

// Field names, matching the canonical EnrollmentForm shape.
const (
	FieldFullName   = "full_name"
	FieldNationalID = "national_id"
	FieldEmail      = "email"
	FieldCourse     = "course_name"
	FieldGender     = "gender"
	FieldBirthDate  = "birth_date"
	FieldPhone      = "phone"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// State holds the current field values and the errors of the last
// validation pass.
type State struct {
	values        map[string]string
	errs          map[string]string
	courseTouched bool
}

// New returns an empty form state.
func New() *State {
	return &State{
		values: make(map[string]string),
		errs:   make(map[string]string),
	}
}

// FromForm seeds a state from a complete submission payload.
func FromForm(f models.EnrollmentForm) *State {
	s := New()
	s.Set(FieldFullName, f.FullName)
	s.Set(FieldNationalID, f.NationalID)
	s.Set(FieldEmail, f.Email)
	s.Set(FieldCourse, f.CourseName)
	s.Set(FieldGender, string(f.Gender))
	s.Set(FieldBirthDate, f.BirthDate)
	s.Set(FieldPhone, f.Phone)
	return s
}

// Set overwrites a single field value. No cross-field recompute happens
// here; errors are refreshed only by Validate.
func (s *State) Set(field, value string) {
	s.values[field] = value
	if field == FieldCourse && strings.TrimSpace(value) != "" {
		s.courseTouched = true
	}
}

// ApplyPreselectedCourse patches the course field with a late-arriving
// preselection, unless the user has already chosen one.
func (s *State) ApplyPreselectedCourse(name string) {
	if s.courseTouched || name == "" {
		return
	}
	s.values[FieldCourse] = name
}

// Value returns the current value of a field.
func (s *State) Value(field string) string {
	return s.values[field]
}

// Errors returns the error map produced by the last Validate call.
func (s *State) Errors() map[string]string {
	return s.errs
}

// Validate recomputes the full error set from the current values and
// returns true iff the form is valid. Recomputing everything guarantees the
// errors shown always match the latest values.
func (s *State) Validate() bool {
	errs := make(map[string]string)

	if strings.TrimSpace(s.values[FieldFullName]) == "" {
		errs[FieldFullName] = "Nome é obrigatório"
	}

	id := strings.TrimSpace(s.values[FieldNationalID])
	switch {
	case id == "":
		errs[FieldNationalID] = "CPF é obrigatório"
	case !cpf.Valid(id):
		errs[FieldNationalID] = "CPF inválido"
	}

	email := strings.TrimSpace(s.values[FieldEmail])
	switch {
	case email == "":
		errs[FieldEmail] = "Email é obrigatório"
	case !emailPattern.MatchString(email):
		errs[FieldEmail] = "Email inválido"
	}

	if s.values[FieldCourse] == "" {
		errs[FieldCourse] = "Selecione um curso"
	}

	if gender := models.Gender(s.values[FieldGender]); gender == "" || !models.KnownGender(gender) {
		errs[FieldGender] = "Selecione o gênero"
	}

	if s.values[FieldBirthDate] == "" {
		errs[FieldBirthDate] = "Data de nascimento é obrigatória"
	}

	if strings.TrimSpace(s.values[FieldPhone]) == "" {
		errs[FieldPhone] = "Telefone celular é obrigatório"
	}

	s.errs = errs
	return len(errs) == 0
}

// Form materialises the current values as the canonical payload.
func (s *State) Form() models.EnrollmentForm {
	return models.EnrollmentForm{
		FullName:   strings.TrimSpace(s.values[FieldFullName]),
		NationalID: strings.TrimSpace(s.values[FieldNationalID]),
		Email:      strings.TrimSpace(s.values[FieldEmail]),
		CourseName: s.values[FieldCourse],
		Gender:     models.Gender(s.values[FieldGender]),
		BirthDate:  s.values[FieldBirthDate],
		Phone:      strings.TrimSpace(s.values[FieldPhone]),
	}
}
