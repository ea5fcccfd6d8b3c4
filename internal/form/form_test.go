package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cursos-tv/enrollment-api/internal/models"
)

func validForm() models.EnrollmentForm {
	return models.EnrollmentForm{
		FullName:   "Maria da Silva",
		NationalID: "52998224725",
		Email:      "maria@example.com",
		CourseName: "Fotografia",
		Gender:     models.GenderFemale,
		BirthDate:  "2000-06-15",
		Phone:      "11 99999-0000",
	}
}

func TestValidateEmptyFormFlagsEveryField(t *testing.T) {
	s := New()

	ok := s.Validate()

	require.False(t, ok)
	errs := s.Errors()
	for _, field := range []string{
		FieldFullName, FieldNationalID, FieldEmail,
		FieldCourse, FieldGender, FieldBirthDate, FieldPhone,
	} {
		assert.Contains(t, errs, field, field)
	}
}

func TestValidateAcceptsCompleteForm(t *testing.T) {
	s := FromForm(validForm())

	assert.True(t, s.Validate())
	assert.Empty(t, s.Errors())
}

func TestValidateRecomputesFromScratch(t *testing.T) {
	s := FromForm(validForm())
	s.Set(FieldEmail, "not-an-email")

	require.False(t, s.Validate())
	assert.Equal(t, "Email inválido", s.Errors()[FieldEmail])

	s.Set(FieldEmail, "maria@example.com")
	require.True(t, s.Validate())
	assert.Empty(t, s.Errors())
}

func TestValidateRejectsBadCPFAndUnknownGender(t *testing.T) {
	s := FromForm(validForm())
	s.Set(FieldNationalID, "11111111111")
	s.Set(FieldGender, "algo")

	require.False(t, s.Validate())
	assert.Equal(t, "CPF inválido", s.Errors()[FieldNationalID])
	assert.Equal(t, "Selecione o gênero", s.Errors()[FieldGender])
}

func TestApplyPreselectedCourse(t *testing.T) {
	s := New()
	s.ApplyPreselectedCourse("Design")
	assert.Equal(t, "Design", s.Value(FieldCourse))

	// A user choice wins over a late-arriving preselection.
	s2 := New()
	s2.Set(FieldCourse, "Vídeo")
	s2.ApplyPreselectedCourse("Design")
	assert.Equal(t, "Vídeo", s2.Value(FieldCourse))
}
