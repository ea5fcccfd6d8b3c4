// Package dates holds the calendar arithmetic and wire formats shared by
// the enrollment workflow and the admin reports.
//
// All arithmetic uses naive local calendar dates. The upstream backend does
// not define a time zone contract, so none is invented here.
package dates

import "time"

// ISODate is the date-only layout used in receipts and course payloads.
const ISODate = "2006-01-02"

// BRDate is the DD/MM/YYYY layout the enrollment backend expects for birth dates.
const BRDate = "02/01/2006"

// Age returns full years elapsed from birth to asOf. The year difference is
// decremented when (month, day) of asOf still precedes the birthday.
func Age(birth, asOf time.Time) int {
	years := asOf.Year() - birth.Year()
	if asOf.Month() < birth.Month() ||
		(asOf.Month() == birth.Month() && asOf.Day() < birth.Day()) {
		years--
	}
	return years
}

// ParseISO parses a YYYY-MM-DD string into a local date.
func ParseISO(s string) (time.Time, error) {
	return time.ParseInLocation(ISODate, s, time.Local)
}

// FormatBR renders t as DD/MM/YYYY.
func FormatBR(t time.Time) string {
	return t.Format(BRDate)
}

// ParseFlexible accepts either the ISO or the BR layout. Upstream records
// have been observed in both spellings.
func ParseFlexible(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(ISODate, s, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation(BRDate, s, time.Local)
}
