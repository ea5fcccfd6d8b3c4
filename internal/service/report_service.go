package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/cursos-tv/enrollment-api/internal/models"
	"github.com/cursos-tv/enrollment-api/pkg/dates"
	appErrors "github.com/cursos-tv/enrollment-api/pkg/errors"
	"github.com/cursos-tv/enrollment-api/pkg/export"
)

// RecordsPageSize is the fixed page size of the admin listing.
const RecordsPageSize = 10

type recordClient interface {
	ListRecords(ctx context.Context) ([]models.EnrollmentRecord, error)
	SendReport(ctx context.Context, records []models.EnrollmentRecord) error
	SendMinorsTerm(ctx context.Context, records []models.EnrollmentRecord) error
}

// ReportService serves the admin enrollment listing: filtering, pagination,
// CSV export, the bulk report send and certificate generation.
type ReportService struct {
	client       recordClient
	courses      courseCollection
	csv          *export.CSVExporter
	certificates *export.CertificateExporter
	logger       *zap.Logger
	now          func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(client recordClient, courses courseCollection, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		client:       client,
		courses:      courses,
		csv:          export.NewCSVExporter(),
		certificates: export.NewCertificateExporter(),
		logger:       logger,
		now:          time.Now,
	}
}

// FilteredView applies all active predicates in a single pass. Predicates
// are independent and combined with logical AND; rerunning with unchanged
// inputs yields a structurally identical result.
func (s *ReportService) FilteredView(records []models.EnrollmentRecord, filter models.RecordFilter) []models.EnrollmentRecord {
	asOf := s.now()
	view := make([]models.EnrollmentRecord, 0, len(records))
	for _, r := range records {
		if filter.CourseName != "" && r.CourseName != filter.CourseName {
			continue
		}
		if filter.Gender != "" && r.Gender != filter.Gender {
			continue
		}
		if !filter.Bracket.Contains(dates.Age(r.BirthDate, asOf)) {
			continue
		}
		view = append(view, r)
	}
	return view
}

// Paginate slices the filtered view. Pages are 1-indexed and the requested
// page is clamped to [1, total pages].
func Paginate(view []models.EnrollmentRecord, page int) ([]models.EnrollmentRecord, *models.Pagination) {
	totalPages := (len(view) + RecordsPageSize - 1) / RecordsPageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * RecordsPageSize
	end := start + RecordsPageSize
	if start > len(view) {
		start = len(view)
	}
	if end > len(view) {
		end = len(view)
	}

	pagination := &models.Pagination{
		Page:       page,
		PageSize:   RecordsPageSize,
		TotalCount: len(view),
		TotalPages: totalPages,
	}
	return view[start:end], pagination
}

// List fetches the records and returns one page of the filtered view.
func (s *ReportService) List(ctx context.Context, filter models.RecordFilter, page int) ([]models.EnrollmentRecord, *models.Pagination, error) {
	records, err := s.client.ListRecords(ctx)
	if err != nil {
		return nil, nil, err
	}
	slice, pagination := Paginate(s.FilteredView(records, filter), page)
	return slice, pagination, nil
}

// ExportCSV renders the whole filtered view (not just one page) as CSV.
func (s *ReportService) ExportCSV(ctx context.Context, filter models.RecordFilter) ([]byte, error) {
	records, err := s.client.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	view := s.FilteredView(records, filter)

	asOf := s.now()
	headers := []string{"Nome", "CPF", "Curso", "Email", "Nascimento", "Gênero", "Data", "Hora", "Idade"}
	rows := make([]map[string]string, 0, len(view))
	for _, r := range view {
		rows = append(rows, map[string]string{
			"Nome":       r.Name,
			"CPF":        r.NationalID,
			"Curso":      r.CourseName,
			"Email":      r.Email,
			"Nascimento": dates.FormatBR(r.BirthDate),
			"Gênero":     string(r.Gender),
			"Data":       r.SubmissionDate,
			"Hora":       r.SubmissionTime,
			"Idade":      strconv.Itoa(dates.Age(r.BirthDate, asOf)),
		})
	}

	return s.csv.Render(export.Dataset{Headers: headers, Rows: rows})
}

// SendReport bulk-sends the filtered view to the reporting endpoint.
func (s *ReportService) SendReport(ctx context.Context, filter models.RecordFilter) (int, error) {
	records, err := s.client.ListRecords(ctx)
	if err != nil {
		return 0, err
	}
	view := s.FilteredView(records, filter)
	if len(view) == 0 {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "nenhuma inscrição para enviar")
	}
	if err := s.client.SendReport(ctx, view); err != nil {
		return 0, err
	}
	s.logger.Info("enrollment report sent", zap.Int("records", len(view)))
	return len(view), nil
}

// Minors returns the enrollees aged exactly 16 or 17, who need a guardian
// consent term.
func (s *ReportService) Minors(records []models.EnrollmentRecord) []models.EnrollmentRecord {
	asOf := s.now()
	minors := make([]models.EnrollmentRecord, 0)
	for _, r := range records {
		age := dates.Age(r.BirthDate, asOf)
		if age == 16 || age == 17 {
			minors = append(minors, r)
		}
	}
	return minors
}

// SendMinorsTerm dispatches the consent term for the underage enrollees in
// the filtered view.
func (s *ReportService) SendMinorsTerm(ctx context.Context, filter models.RecordFilter) (int, error) {
	records, err := s.client.ListRecords(ctx)
	if err != nil {
		return 0, err
	}
	minors := s.Minors(s.FilteredView(records, filter))
	if len(minors) == 0 {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "nenhum menor de idade encontrado")
	}
	if err := s.client.SendMinorsTerm(ctx, minors); err != nil {
		return 0, err
	}
	s.logger.Info("minors term sent", zap.Int("records", len(minors)))
	return len(minors), nil
}

// Certificate renders the completion certificate PDF for the enrollee
// identified by national id.
func (s *ReportService) Certificate(ctx context.Context, nationalID string) ([]byte, error) {
	records, err := s.client.ListRecords(ctx)
	if err != nil {
		return nil, err
	}

	var record *models.EnrollmentRecord
	for i := range records {
		if records[i].NationalID == nationalID {
			record = &records[i]
			break
		}
	}
	if record == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "inscrição não encontrada")
	}

	courses, err := s.courses.Collection(ctx)
	if err != nil {
		return nil, err
	}
	course, ok := ResolveByName(courses, record.CourseName)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrCourseNotFound, "")
	}

	return s.certificates.Render(export.Certificate{
		StudentName: record.Name,
		CourseName:  course.Name,
		Instructor:  course.Instructor,
		HoursTotal:  course.HoursTotal,
		Label:       course.CertificateLabel,
		IssuedOn:    dates.FormatBR(s.now()),
	})
}
