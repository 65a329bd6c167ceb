package dbf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding"
)

// formatValue renders one raw field as a CSV cell. Blank and unknown values
// become empty cells.
func formatValue(f Field, raw []byte, dec *encoding.Decoder) (string, error) {
	switch f.Type {
	case 'C':
		text, err := dec.Bytes(bytes.TrimRight(raw, "\x00 "))
		if err != nil {
			return "", fmt.Errorf("decode text: %w", err)
		}
		return string(text), nil

	case 'D':
		return formatDate(raw)

	case 'N', 'F':
		return formatNumber(raw)

	case 'L':
		if len(raw) == 0 {
			return "", nil
		}
		switch raw[0] {
		case 'T', 't', 'Y', 'y':
			return "True", nil
		case 'F', 'f', 'N', 'n':
			return "False", nil
		default:
			return "", nil
		}

	case 'I', '+':
		if len(raw) != 4 {
			return "", fmt.Errorf("integer field length %d", len(raw))
		}
		return strconv.FormatInt(int64(int32(binary.LittleEndian.Uint32(raw))), 10), nil

	case 'O':
		if len(raw) != 8 {
			return "", fmt.Errorf("double field length %d", len(raw))
		}
		return formatFloat(math.Float64frombits(binary.LittleEndian.Uint64(raw))), nil

	case 'M', 'G', 'B', 'P':
		return "", nil

	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, f.Type)
	}
}

// formatDate converts YYYYMMDD to YYYY-MM-DD. Blank or zero dates are empty.
func formatDate(raw []byte) (string, error) {
	s := strings.Trim(string(raw), "\x00 ")
	if strings.Trim(s, "0") == "" {
		return "", nil
	}

	t, err := time.Parse("20060102", s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q", s)
	}
	return t.Format("2006-01-02"), nil
}

// formatNumber prints integers as integers and anything else as the
// shortest float that round-trips, always with a decimal point.
func formatNumber(raw []byte) (string, error) {
	s := strings.Trim(string(raw), "\x00 *")
	if s == "" {
		return "", nil
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10), nil
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return "", fmt.Errorf("invalid number %q", s)
	}
	return formatFloat(v), nil
}

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
