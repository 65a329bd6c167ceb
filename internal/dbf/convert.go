package dbf

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/JonMunkholm/escolar/internal/logging"
)

// Job converts one table file.
type Job struct {
	Input  string
	Output string
}

// legacyTables are the exported school tables, by base name.
var legacyTables = []string{"CARRERAS", "MATERIAS", "PLANES"}

// DefaultJobs returns the fixed conversion list rooted at the given
// directories.
func DefaultJobs(legacyDir, outputDir string) []Job {
	jobs := make([]Job, len(legacyTables))
	for i, name := range legacyTables {
		jobs[i] = Job{
			Input:  filepath.Join(legacyDir, name+".DBF"),
			Output: filepath.Join(outputDir, name+".csv"),
		}
	}
	return jobs
}

// LookupEncoding resolves an IANA charset name such as "latin1" or
// "windows-1252".
func LookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("encoding %q is not supported", name)
	}
	return enc, nil
}

// Converter runs conversion jobs and reports each converted file on Out.
type Converter struct {
	enc encoding.Encoding
	out io.Writer
}

// NewConverter creates a Converter decoding text with the named charset.
func NewConverter(encodingName string, out io.Writer) (*Converter, error) {
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return &Converter{enc: enc, out: out}, nil
}

// Run converts jobs in order and stops at the first failure.
func (c *Converter) Run(ctx context.Context, jobs []Job) error {
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}

		logger := logging.WithFields(ctx, "input", job.Input, "output", job.Output)

		rows, err := c.Convert(job)
		if err != nil {
			logger.Error("conversion failed", "error", err)
			return err
		}

		logger.Info("file converted", "rows", rows)
		fmt.Fprintf(c.out, "File converted successfully: %s\n", job.Output)
	}
	return nil
}

// Convert runs a single job. The output directory is created if needed and
// a partial output file is removed on failure.
func (c *Converter) Convert(job Job) (rows int, err error) {
	in, err := os.Open(job.Input)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", job.Input, err)
	}
	defer in.Close()

	r, err := NewReader(in, c.enc)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", job.Input, err)
	}

	if err := os.MkdirAll(filepath.Dir(job.Output), 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	out, err := os.Create(job.Output)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", job.Output, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", job.Output, cerr)
		}
		if err != nil {
			_ = os.Remove(job.Output)
		}
	}()

	rows, err = WriteCSV(out, r)
	if err != nil {
		return rows, fmt.Errorf("convert %s: %w", job.Input, err)
	}
	return rows, nil
}
