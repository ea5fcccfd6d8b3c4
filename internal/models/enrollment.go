package models

import "time"

// Gender enumerates the options offered on the enrollment form.
type Gender string

const (
	GenderFemale      Gender = "Feminino"
	GenderMale        Gender = "Masculino"
	GenderOther       Gender = "Outro"
	GenderUndisclosed Gender = "Prefiro não dizer"
)

// KnownGender reports whether g is one of the accepted options.
func KnownGender(g Gender) bool {
	switch g {
	case GenderFemale, GenderMale, GenderOther, GenderUndisclosed:
		return true
	}
	return false
}

// EnrollmentForm is the canonical submission payload. It exists only for the
// duration of one submission attempt; nothing is kept after success.
type EnrollmentForm struct {
	FullName   string `json:"full_name"`
	NationalID string `json:"national_id"`
	Email      string `json:"email"`
	CourseName string `json:"course_name"`
	Gender     Gender `json:"gender"`
	BirthDate  string `json:"birth_date"` // YYYY-MM-DD
	Phone      string `json:"phone"`
}

// EnrollmentRecord is the read-only projection of an upstream enrollment,
// consumed by the admin views. Field spellings are canonical here; the
// upstream wire variants never leak past the adapter.
type EnrollmentRecord struct {
	Name           string    `json:"name"`
	NationalID     string    `json:"national_id"`
	CourseName     string    `json:"course_name"`
	Email          string    `json:"email"`
	BirthDate      time.Time `json:"birth_date"`
	Gender         Gender    `json:"gender"`
	SubmissionDate string    `json:"submission_date"` // YYYY-MM-DD
	SubmissionTime string    `json:"submission_time"` // HH:MM
}

// SubmissionReceipt is the only state persisted after a successful
// submission, rendered on the confirmation view.
type SubmissionReceipt struct {
	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM
}

// AgeBracket names an inclusive age interval used by the admin filters.
type AgeBracket string

const (
	BracketNone   AgeBracket = ""
	Bracket18To25 AgeBracket = "18-25"
	Bracket26To35 AgeBracket = "26-35"
	Bracket36Plus AgeBracket = "36+"
)

// Contains reports whether age falls in the bracket. The empty bracket
// matches everything.
func (b AgeBracket) Contains(age int) bool {
	switch b {
	case Bracket18To25:
		return age >= 18 && age <= 25
	case Bracket26To35:
		return age >= 26 && age <= 35
	case Bracket36Plus:
		return age >= 36
	}
	return true
}

// RecordFilter holds the independent predicates applied to the enrollment
// listing. Empty values deactivate the corresponding predicate.
type RecordFilter struct {
	CourseName string
	Gender     Gender
	Bracket    AgeBracket
}
