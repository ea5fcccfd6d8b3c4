package models

import "time"

// Course is the canonical, read-only copy of an upstream course offering.
// seats_filled <= seats_total is enforced by the backend; local checks are
// advisory.
type Course struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Instructor       string    `json:"instructor"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	HoursTotal       int       `json:"hours_total"`
	CertificateLabel string    `json:"certificate_label"`
	SeatsTotal       int       `json:"seats_total"`
	SeatsFilled      int       `json:"seats_filled"`
}

// SeatsLeft returns remaining capacity, never negative.
func (c Course) SeatsLeft() int {
	left := c.SeatsTotal - c.SeatsFilled
	if left < 0 {
		return 0
	}
	return left
}

// OpenForEnrollment reports whether enrollment is still accepted, which the
// upstream defines as "today has not passed the start date".
func (c Course) OpenForEnrollment(asOf time.Time) bool {
	return !asOf.After(c.StartDate)
}

// CourseView decorates a Course with derived display fields.
type CourseView struct {
	Course
	Open      bool `json:"open"`
	SeatsLeft int  `json:"seats_left"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}
