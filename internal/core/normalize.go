package core

// normalize.go turns console input into the values stored in planes.
//
// The legacy data uses two-digit semester codes and ISO dates, while users
// type semesters without the leading zero and dates in day-first order.
// Every function here is pure: it never touches the store or the console.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	db "github.com/JonMunkholm/escolar/internal/database"
)

var (
	semesterRegex = regexp.MustCompile(`^(0?[1-9]|10)$`)
	isoDateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dmyDateRegex  = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
)

// NormalizeSemester validates a semester between 1 and 10 (optional leading
// zero) and returns it zero-padded to two digits.
func NormalizeSemester(input string) (string, error) {
	s := strings.TrimSpace(input)
	if !semesterRegex.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSemester, input)
	}
	n, _ := strconv.Atoi(s)
	return fmt.Sprintf("%02d", n), nil
}

// NormalizeDate converts a date typed at the console into an ISO NullDate.
//
//   - "" or "NULL" (any case) clears the date: NullDate{} and a nil error
//   - "YYYY-MM-DD" is kept as is
//   - "DD/MM/YYYY" is reordered to "YYYY-MM-DD"
//
// Anything else, including well-shaped strings that are not calendar dates,
// returns ErrInvalidDate.
func NormalizeDate(input string) (db.NullDate, error) {
	s := strings.TrimSpace(input)
	if s == "" || strings.EqualFold(s, "NULL") {
		return db.NullDate{}, nil
	}

	iso := ""
	switch {
	case isoDateRegex.MatchString(s):
		iso = s
	case dmyDateRegex.MatchString(s):
		m := dmyDateRegex.FindStringSubmatch(s)
		iso = m[3] + "-" + m[2] + "-" + m[1]
	default:
		return db.NullDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, input)
	}

	if _, err := time.Parse(db.DateLayout, iso); err != nil {
		return db.NullDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, input)
	}
	return db.NewNullDate(iso), nil
}

// ParsePlanID parses a plan id typed at the console.
func ParsePlanID(input string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPlanID, input)
	}
	return id, nil
}

// SplitSubjectCodes splits a comma-separated list of subject codes.
// Blank entries and repeats are dropped; first-seen order is kept.
func SplitSubjectCodes(input string) []string {
	parts := strings.Split(input, ",")
	codes := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	for _, p := range parts {
		code := strings.TrimSpace(p)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}

// FilterSubjectCodes partitions codes into those present in valid and the rest.
func FilterSubjectCodes(codes []string, valid map[string]struct{}) (accepted, rejected []string) {
	for _, code := range codes {
		if _, ok := valid[code]; ok {
			accepted = append(accepted, code)
		} else {
			rejected = append(rejected, code)
		}
	}
	return accepted, rejected
}
