package vcf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Reader reads records from a VCF file.
type Reader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	header     *Header
	dropped    int
}

// NewReader opens a VCF file and consumes its header. Supports plain
// and gzipped input; "-" reads from stdin.
func NewReader(path string) (*Reader, error) {
	if path == "-" {
		return NewReaderFrom(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	r := &Reader{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	_, err = file.Read(buf)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read vcf header: %w", err)
	}
	if _, err = file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek vcf file: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		r.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.reader = bufio.NewReader(r.gzipReader)
	} else {
		r.reader = bufio.NewReader(file)
	}

	if err := r.parseHeader(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// NewReaderFrom creates a reader from an io.Reader (e.g. stdin).
func NewReaderFrom(src io.Reader) (*Reader, error) {
	r := &Reader{reader: bufio.NewReader(src)}
	if err := r.parseHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

// parseHeader reads up to and including the #CHROM line.
func (r *Reader) parseHeader() error {
	h := &Header{
		MetaInfo:   make(map[string]FieldMeta),
		MetaFormat: make(map[string]FieldMeta),
	}

	for {
		line, err := r.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read header: %w", err)
		}
		r.lineNumber++

		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(line, "##") {
			h.Lines = append(h.Lines, line)
			h.parseMetaLine(line)
			continue
		}

		if strings.HasPrefix(line, "#") {
			h.Lines = append(h.Lines, line)
			if err := h.parseChromLine(line); err != nil {
				return &FormatError{Line: r.lineNumber, Message: err.Error()}
			}
			r.header = h
			return nil
		}

		return &FormatError{Line: r.lineNumber, Message: "expected #CHROM header line"}
	}

	return &FormatError{Line: r.lineNumber, Message: "no #CHROM header line found"}
}

// Next reads the next record. Returns nil, nil at end of input.
func (r *Reader) Next() (*Record, error) {
	for {
		line, err := r.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				if line == "" {
					return nil, nil
				}
				// final line without trailing newline
			} else {
				return nil, fmt.Errorf("read record line: %w", err)
			}
		}
		r.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if err == io.EOF {
				return nil, nil
			}
			continue
		}
		// Stray comment lines inside the body are skipped.
		if strings.HasPrefix(line, "#") {
			continue
		}

		rec, perr := r.header.ParseRecord(line, r.lineNumber)
		if perr != nil {
			return nil, perr
		}
		r.dropped += rec.DroppedCSQ
		return rec, nil
	}
}

// Header returns the parsed header.
func (r *Reader) Header() *Header { return r.header }

// DroppedAnnotations returns the running count of CSQ blocks dropped
// because their field count did not match the declared vocabulary.
func (r *Reader) DroppedAnnotations() int { return r.dropped }

// LineNumber returns the current line number being processed.
func (r *Reader) LineNumber() int { return r.lineNumber }

// Close closes the reader and any underlying file.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
