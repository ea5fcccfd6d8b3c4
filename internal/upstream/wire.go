package upstream

import (
	"strings"

	"github.com/cursos-tv/enrollment-api/internal/models"
	"github.com/cursos-tv/enrollment-api/pkg/dates"
)

// Wire shapes for the remote backend. The contract has shipped two field
// spellings over time (sexo/genero, dataNascto/nascimento); both are decoded
// here and canonicalised before anything else sees them.

type wireCourse struct {
	ID               int    `json:"id"`
	Nome             string `json:"nome"`
	Professor        string `json:"professor"`
	Data             string `json:"data,omitempty"`
	DataInicio       string `json:"dataInicio,omitempty"`
	DataFim          string `json:"dataFim,omitempty"`
	CargaHoraria     int    `json:"cargaHoraria"`
	Certificado      string `json:"certificado"`
	VagasTotais      int    `json:"vagasTotais"`
	VagasPreenchidas int    `json:"vagasPreenchidas"`
}

type wireStudent struct {
	Nome       string `json:"nome"`
	CPF        string `json:"cpf"`
	Email      string `json:"email"`
	Sexo       string `json:"sexo,omitempty"`
	Genero     string `json:"genero,omitempty"`
	Telefone   string `json:"telefone"`
	DataNascto string `json:"dataNascto,omitempty"`
	Nascimento string `json:"nascimento,omitempty"`
	Curso      string `json:"curso,omitempty"`
	Data       string `json:"data,omitempty"`
	Hora       string `json:"hora,omitempty"`
}

type wireEnrollment struct {
	Aluno   wireStudent `json:"aluno"`
	CursoID int         `json:"cursoId"`
}

type wireCreateCourse struct {
	Nome         string `json:"nome"`
	Professor    string `json:"professor"`
	Data         string `json:"data"`
	CargaHoraria int    `json:"cargaHoraria"`
	Certificado  string `json:"certificado"`
	VagasTotais  int    `json:"vagasTotais"`
}

func toCourse(w wireCourse) models.Course {
	start := w.DataInicio
	if start == "" {
		start = w.Data
	}
	startDate, _ := dates.ParseFlexible(start)
	endDate, _ := dates.ParseFlexible(w.DataFim)

	return models.Course{
		ID:               w.ID,
		Name:             w.Nome,
		Instructor:       w.Professor,
		StartDate:        startDate,
		EndDate:          endDate,
		HoursTotal:       w.CargaHoraria,
		CertificateLabel: w.Certificado,
		SeatsTotal:       w.VagasTotais,
		SeatsFilled:      w.VagasPreenchidas,
	}
}

func toRecord(w wireStudent) models.EnrollmentRecord {
	gender := w.Sexo
	if gender == "" {
		gender = w.Genero
	}
	birthRaw := w.DataNascto
	if birthRaw == "" {
		birthRaw = w.Nascimento
	}
	birth, _ := dates.ParseFlexible(birthRaw)

	return models.EnrollmentRecord{
		Name:           w.Nome,
		NationalID:     w.CPF,
		CourseName:     w.Curso,
		Email:          w.Email,
		BirthDate:      birth,
		Gender:         models.Gender(gender),
		SubmissionDate: w.Data,
		SubmissionTime: w.Hora,
	}
}

func fromRecord(r models.EnrollmentRecord) wireStudent {
	return wireStudent{
		Nome:       r.Name,
		CPF:        r.NationalID,
		Email:      r.Email,
		Sexo:       string(r.Gender),
		Curso:      r.CourseName,
		DataNascto: dates.FormatBR(r.BirthDate),
		Data:       r.SubmissionDate,
		Hora:       r.SubmissionTime,
	}
}

func fromForm(f models.EnrollmentForm, courseID int) (wireEnrollment, error) {
	birth, err := dates.ParseISO(strings.TrimSpace(f.BirthDate))
	if err != nil {
		return wireEnrollment{}, err
	}
	return wireEnrollment{
		Aluno: wireStudent{
			Nome:       f.FullName,
			CPF:        f.NationalID,
			Email:      f.Email,
			Sexo:       string(f.Gender),
			Telefone:   f.Phone,
			DataNascto: dates.FormatBR(birth),
		},
		CursoID: courseID,
	}, nil
}

func fromCourse(c models.Course) wireCreateCourse {
	return wireCreateCourse{
		Nome:         c.Name,
		Professor:    c.Instructor,
		Data:         c.StartDate.Format(dates.ISODate),
		CargaHoraria: c.HoursTotal,
		Certificado:  c.CertificateLabel,
		VagasTotais:  c.SeatsTotal,
	}
}
