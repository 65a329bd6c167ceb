// Package dbf converts legacy dBASE III/IV and FoxPro table files to CSV.
//
// Only the table file itself is read. Memo fields are emitted as empty
// cells because the companion .DBT/.FPT files are not part of the export.
package dbf

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding"
)

const (
	headerSize      = 32
	descriptorSize  = 32
	fieldTerminator = 0x0D
	fileTerminator  = 0x1A
	deletedFlag     = '*'
)

var (
	ErrInvalidHeader   = errors.New("invalid dbf header")
	ErrUnsupportedType = errors.New("unsupported dbf field type")
)

// Field describes one column of a table.
type Field struct {
	Name     string
	Type     byte
	Length   int
	Decimals int
}

// Header is the fixed part of a table file.
type Header struct {
	Version      byte
	Records      uint32
	HeaderLength uint16
	RecordLength uint16
}

// Reader decodes records one at a time. Deleted records are skipped.
type Reader struct {
	r      *bufio.Reader
	dec    *encoding.Decoder
	header Header
	fields []Field
	read   uint32
	buf    []byte
}

// NewReader reads the header and field descriptors from r. Text is decoded
// with enc; a nil enc means the bytes are already UTF-8.
func NewReader(r io.Reader, enc encoding.Encoding) (*Reader, error) {
	if enc == nil {
		enc = encoding.Nop
	}
	br := bufio.NewReader(r)

	var head [headerSize]byte
	if _, err := io.ReadFull(br, head[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}

	h := Header{
		Version:      head[0],
		Records:      binary.LittleEndian.Uint32(head[4:8]),
		HeaderLength: binary.LittleEndian.Uint16(head[8:10]),
		RecordLength: binary.LittleEndian.Uint16(head[10:12]),
	}
	if h.HeaderLength < headerSize+1 || h.RecordLength < 1 {
		return nil, fmt.Errorf("%w: header length %d, record length %d", ErrInvalidHeader, h.HeaderLength, h.RecordLength)
	}

	dec := enc.NewDecoder()
	consumed := headerSize
	var fields []Field
	width := 1 // deletion flag

	for {
		b, err := br.Peek(1)
		if err != nil {
			return nil, fmt.Errorf("%w: field descriptors: %v", ErrInvalidHeader, err)
		}
		if b[0] == fieldTerminator {
			break
		}

		var desc [descriptorSize]byte
		if _, err := io.ReadFull(br, desc[:]); err != nil {
			return nil, fmt.Errorf("%w: field descriptor: %v", ErrInvalidHeader, err)
		}
		consumed += descriptorSize

		name, err := dec.Bytes(trimName(desc[0:11]))
		if err != nil {
			return nil, fmt.Errorf("%w: field name: %v", ErrInvalidHeader, err)
		}
		f := Field{
			Name:     string(name),
			Type:     desc[11],
			Length:   int(desc[16]),
			Decimals: int(desc[17]),
		}
		fields = append(fields, f)
		width += f.Length
	}

	// Fields are decoded by offset, so trailing record bytes are ignored.
	if width > int(h.RecordLength) {
		return nil, fmt.Errorf("%w: fields span %d bytes, record length is %d", ErrInvalidHeader, width, h.RecordLength)
	}
	if width < int(h.RecordLength) {
		slog.Warn("dbf fields narrower than record",
			"field_bytes", width,
			"record_length", h.RecordLength,
		)
	}
	if consumed >= int(h.HeaderLength) {
		return nil, fmt.Errorf("%w: descriptors overrun header length %d", ErrInvalidHeader, h.HeaderLength)
	}

	// Skip the terminator and anything up to the first record
	// (Visual FoxPro stores a backlink area here).
	if _, err := br.Discard(int(h.HeaderLength) - consumed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}

	return &Reader{
		r:      br,
		dec:    dec,
		header: h,
		fields: fields,
		buf:    make([]byte, h.RecordLength),
	}, nil
}

// Header returns the table header.
func (r *Reader) Header() Header {
	return r.header
}

// Fields returns the visible columns in file order.
func (r *Reader) Fields() []Field {
	out := make([]Field, 0, len(r.fields))
	for _, f := range r.fields {
		if isHidden(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// FieldNames returns the names of the visible columns.
func (r *Reader) FieldNames() []string {
	fields := r.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// Read returns the next live record formatted as strings, one per visible
// field. It returns io.EOF after the last record.
func (r *Reader) Read() ([]string, error) {
	for r.read < r.header.Records {
		if _, err := io.ReadFull(r.r, r.buf[:1]); err != nil {
			return nil, fmt.Errorf("record %d: %w", r.read+1, unexpected(err))
		}
		if r.buf[0] == fileTerminator {
			return nil, io.EOF
		}
		if _, err := io.ReadFull(r.r, r.buf[1:]); err != nil {
			return nil, fmt.Errorf("record %d: %w", r.read+1, unexpected(err))
		}
		r.read++

		if r.buf[0] == deletedFlag {
			continue
		}
		return r.decodeRecord(r.buf[1:])
	}
	return nil, io.EOF
}

func (r *Reader) decodeRecord(data []byte) ([]string, error) {
	values := make([]string, 0, len(r.fields))
	offset := 0
	for _, f := range r.fields {
		raw := data[offset : offset+f.Length]
		offset += f.Length
		if isHidden(f) {
			continue
		}

		v, err := formatValue(f, raw, r.dec)
		if err != nil {
			return nil, fmt.Errorf("record %d field %s: %w", r.read, f.Name, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// isHidden reports whether f is the Visual FoxPro null-flags column.
func isHidden(f Field) bool {
	return f.Type == '0' || strings.EqualFold(f.Name, "_NullFlags")
}

func trimName(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return bytes.TrimSpace(b)
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
