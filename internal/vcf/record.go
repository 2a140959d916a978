package vcf

import (
	"fmt"
	"strconv"
	"strings"
)

// Annotation is one CSQ transcript/consequence block, keyed by the
// annotation vocabulary declared in the header.
type Annotation map[string]string

// Record is one VCF data line: the verbatim line, its ordered fields,
// the parsed INFO map, the FORMAT subfield index map when present, and
// the parsed CSQ annotations.
type Record struct {
	Line        string
	Fields      []string
	Pos         int64
	Info        map[string]string // nil when INFO column is "."
	Format      map[string]int    // nil when no FORMAT column
	Annotations []Annotation      // nil when INFO lacks CSQ

	// DroppedCSQ counts CSQ blocks discarded because their field count
	// did not match the declared vocabulary.
	DroppedCSQ int

	header *Header
}

// FormatError reports a structural problem in the input file.
type FormatError struct {
	Line    int
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("vcf format error at line %d: %s", e.Line, e.Message)
}

// ParseRecord parses one data line against the header. The column count
// must equal the header's column count.
func (h *Header) ParseRecord(line string, lineNumber int) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != len(h.ColumnNames) {
		return nil, &FormatError{
			Line: lineNumber,
			Message: fmt.Sprintf("header declares %d columns but line has %d; is the file tab-separated?",
				len(h.ColumnNames), len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[h.Columns["POS"]], 10, 64)
	if err != nil {
		return nil, &FormatError{
			Line:    lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[h.Columns["POS"]]),
		}
	}

	r := &Record{
		Line:   line,
		Fields: fields,
		Pos:    pos,
		header: h,
	}

	if idx, ok := h.Columns["FORMAT"]; ok {
		keys := strings.Split(fields[idx], ":")
		r.Format = make(map[string]int, len(keys))
		for i, k := range keys {
			r.Format[k] = i
		}
	}

	if idx, ok := h.Columns["INFO"]; ok && fields[idx] != "." {
		r.Info = parseInfo(fields[idx])
		if csq, ok := r.Info["CSQ"]; ok {
			r.Annotations, r.DroppedCSQ = parseAnnotations(csq, h.CSQFields)
		}
	}

	return r, nil
}

// parseInfo parses a semicolon-separated INFO field. Flag keys map to
// themselves.
func parseInfo(info string) map[string]string {
	result := make(map[string]string)
	for _, kv := range strings.Split(info, ";") {
		if kv == "" {
			continue
		}
		if k, v, ok := strings.Cut(kv, "="); ok {
			result[k] = v
		} else {
			result[kv] = kv
		}
	}
	return result
}

// parseAnnotations splits a CSQ value into per-transcript annotation
// maps. Blocks whose pipe-delimited field count does not match the
// vocabulary are dropped; the returned count surfaces how many.
func parseAnnotations(csq string, vocab []string) ([]Annotation, int) {
	if len(vocab) == 0 {
		return nil, 0
	}

	var anns []Annotation
	dropped := 0
	for _, block := range strings.Split(csq, ",") {
		values := strings.Split(block, "|")
		if len(values) != len(vocab) {
			dropped++
			continue
		}
		ann := make(Annotation, len(vocab))
		for i, name := range vocab {
			ann[name] = values[i]
		}
		anns = append(anns, ann)
	}
	return anns, dropped
}

// Get returns the value of a fixed column by name.
func (r *Record) Get(column string) string {
	idx, ok := r.header.Columns[column]
	if !ok {
		return ""
	}
	return r.Fields[idx]
}

// Chrom returns the CHROM column.
func (r *Record) Chrom() string { return r.Get("CHROM") }

// Ref returns the REF column.
func (r *Record) Ref() string { return r.Get("REF") }

// Alt returns the ALT column (possibly comma-separated).
func (r *Record) Alt() string { return r.Get("ALT") }

// Alts returns the comma-split ALT alleles.
func (r *Record) Alts() []string { return strings.Split(r.Alt(), ",") }

// SampleField returns one FORMAT subfield for the named sample, e.g.
// SampleField("NA12878", "GT").
func (r *Record) SampleField(sample, key string) (string, error) {
	if r.Format == nil {
		return "", fmt.Errorf("record has no FORMAT column")
	}
	sub, ok := r.Format[key]
	if !ok {
		return "", fmt.Errorf("FORMAT does not declare %s", key)
	}
	idx, ok := r.header.Columns[sample]
	if !ok {
		return "", fmt.Errorf("no column for sample %s", sample)
	}
	parts := strings.Split(r.Fields[idx], ":")
	if sub >= len(parts) {
		return "", fmt.Errorf("sample %s has no %s subfield", sample, key)
	}
	return parts[sub], nil
}

// Header returns the header this record was parsed against.
func (r *Record) Header() *Header { return r.header }
