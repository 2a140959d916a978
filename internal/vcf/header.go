// Package vcf provides line-oriented reading of VEP-annotated VCF files.
package vcf

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldMeta holds the attributes of one ##INFO or ##FORMAT declaration.
type FieldMeta struct {
	Number      string
	Type        string
	Description string
}

// Header holds everything learned from the VCF header: raw lines for
// re-emission, the column order from the #CHROM line, sample names,
// INFO/FORMAT meta dictionaries, and the CSQ annotation vocabulary.
type Header struct {
	Lines       []string // raw header lines, in input order
	ColumnNames []string
	Columns     map[string]int
	SampleNames []string
	MetaInfo    map[string]FieldMeta
	MetaFormat  map[string]FieldMeta
	CSQFields   []string
}

var (
	metaIDRe     = regexp.MustCompile(`ID=(.*?)[,>]`)
	metaNumberRe = regexp.MustCompile(`Number=(.*?)[,>]`)
	metaTypeRe   = regexp.MustCompile(`Type=(.*?)[,>]`)
	metaDescRe   = regexp.MustCompile(`Description="(.*?)"`)
)

// parseMetaLine captures one ##INFO or ##FORMAT declaration.
func (h *Header) parseMetaLine(line string) {
	trimmed := strings.TrimLeft(line, "#")

	isInfo := strings.HasPrefix(trimmed, "INFO")
	isFormat := strings.HasPrefix(trimmed, "FORMAT")
	if isInfo || isFormat {
		id := metaIDRe.FindStringSubmatch(trimmed)
		if id != nil {
			meta := FieldMeta{}
			if m := metaNumberRe.FindStringSubmatch(trimmed); m != nil {
				meta.Number = m[1]
			}
			if m := metaTypeRe.FindStringSubmatch(trimmed); m != nil {
				meta.Type = m[1]
			}
			if m := metaDescRe.FindStringSubmatch(trimmed); m != nil {
				meta.Description = m[1]
			}
			if isInfo {
				h.MetaInfo[id[1]] = meta
			} else {
				h.MetaFormat[id[1]] = meta
			}
		}
	}

	// The CSQ declaration carries the annotation vocabulary in its
	// trailing `Format: a|b|c"` segment.
	if strings.Contains(trimmed, "ID=CSQ") {
		parts := strings.Split(trimmed, "Format: ")
		vocab := strings.Trim(parts[len(parts)-1], `">`)
		h.CSQFields = strings.Split(vocab, "|")
	}
}

// parseChromLine captures column order and sample names from #CHROM.
func (h *Header) parseChromLine(line string) error {
	cols := strings.Split(strings.TrimLeft(line, "#"), "\t")
	if len(cols) == 0 || cols[0] != "CHROM" {
		return fmt.Errorf("malformed #CHROM line: %q", line)
	}

	h.ColumnNames = cols
	h.Columns = make(map[string]int, len(cols))
	for i, c := range cols {
		h.Columns[c] = i
	}
	if len(cols) > 9 {
		h.SampleNames = cols[9:]
	}
	return nil
}

// HasColumn reports whether the header declares the named column.
func (h *Header) HasColumn(name string) bool {
	_, ok := h.Columns[name]
	return ok
}

// FileformatRe validates a VCF fileformat version override (e.g. "4.2").
var FileformatRe = regexp.MustCompile(`^\d\.\d$`)

// RewriteFileformat returns the header lines with the ##fileformat line
// replaced to declare the given VCF version. The version must match
// FileformatRe; callers validate before use.
func (h *Header) RewriteFileformat(version string) []string {
	lines := make([]string, len(h.Lines))
	for i, line := range h.Lines {
		if strings.Contains(line, "fileformat=VCF") {
			lines[i] = "##fileformat=VCFv" + version
		} else {
			lines[i] = line
		}
	}
	return lines
}
