package database

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO date format used for storage and display.
const DateLayout = "2006-01-02"

// Career is a row of carreras.
type Career struct {
	Code string
	Name string
}

// Subject is a row of materias.
type Subject struct {
	Code        string
	Description string
}

// Plan is a row of planes: one subject of one career in one semester.
type Plan struct {
	ID             int64
	CareerCode     string
	SubjectCode    string
	Semester       string
	EnrollmentDate NullDate
	WithdrawalDate NullDate
}

// NullDate is an ISO date that may be NULL.
//
// It scans from whatever the driver hands back for a DATE column
// (time.Time with MySQL parseTime and pgx, text or time.Time with SQLite)
// and binds as a UTC midnight time.Time, which every supported driver
// encodes as a date.
type NullDate struct {
	String string // YYYY-MM-DD when Valid
	Valid  bool
}

// NewNullDate returns a valid NullDate for an ISO date string.
func NewNullDate(iso string) NullDate {
	return NullDate{String: iso, Valid: true}
}

// Scan implements sql.Scanner.
func (d *NullDate) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = NullDate{}
		return nil
	case time.Time:
		*d = NullDate{String: v.Format(DateLayout), Valid: true}
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into NullDate", src)
	}
}

func (d *NullDate) scanText(s string) error {
	s = strings.TrimSpace(s)
	// MySQL zero dates carry no information.
	if s == "" || strings.HasPrefix(s, "0000-00-00") {
		*d = NullDate{}
		return nil
	}
	if len(s) < len(DateLayout) {
		return fmt.Errorf("cannot scan %q into NullDate", s)
	}
	t, err := time.Parse(DateLayout, s[:len(DateLayout)])
	if err != nil {
		return fmt.Errorf("cannot scan %q into NullDate: %w", s, err)
	}
	*d = NullDate{String: t.Format(DateLayout), Valid: true}
	return nil
}

// Value implements driver.Valuer. Dates are bound as ISO text, which every
// supported dialect stores verbatim or casts to DATE.
func (d NullDate) Value() (driver.Value, error) {
	if !d.Valid {
		return nil, nil
	}
	if _, err := time.Parse(DateLayout, d.String); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", d.String, err)
	}
	return d.String, nil
}

// Display returns the date, or "" for NULL.
func (d NullDate) Display() string {
	if !d.Valid {
		return ""
	}
	return d.String
}
