package subset

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// output wraps a destination stream, compressing when the path carries
// a .gz suffix.
type output struct {
	w    io.Writer
	gz   *gzip.Writer
	file *os.File
}

// NewOutput opens the destination for emitted VCF lines. An empty path
// or "-" writes to stdout; a .gz suffix produces gzip output.
func NewOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return &output{w: os.Stdout}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	o := &output{file: f, w: f}
	if strings.HasSuffix(path, ".gz") {
		o.gz = gzip.NewWriter(f)
		o.w = o.gz
	}
	return o, nil
}

func (o *output) Write(p []byte) (int, error) {
	return o.w.Write(p)
}

// Close flushes compression and closes the file. Stdout is left open.
func (o *output) Close() error {
	if o.gz != nil {
		if err := o.gz.Close(); err != nil {
			return err
		}
	}
	if o.file != nil {
		return o.file.Close()
	}
	return nil
}
