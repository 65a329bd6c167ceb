package dbf

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// WriteCSV writes the header row and every live record of r to w as
// UTF-8 CSV with a leading byte order mark. It returns the number of data
// rows written.
func WriteCSV(w io.Writer, r *Reader) (rows int, err error) {
	bw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	defer func() {
		if cerr := bw.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("flush csv: %w", cerr)
		}
	}()

	cw := csv.NewWriter(bw)
	if err := cw.Write(r.FieldNames()); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, err
		}
		if err := cw.Write(rec); err != nil {
			return rows, fmt.Errorf("write row %d: %w", rows+1, err)
		}
		rows++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return rows, fmt.Errorf("write csv: %w", err)
	}
	return rows, nil
}
