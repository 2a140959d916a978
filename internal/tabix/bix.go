package tabix

import (
	"fmt"
	"os"
	"strings"

	"github.com/brentp/irelate/interfaces"
	"github.com/carbocation/bix"
)

// locus adapts a region to the query interface bix expects
// (0-based half-open coordinates).
type locus struct {
	chrom string
	start int64
	end   int64
}

func (l locus) Chrom() string { return l.chrom }
func (l locus) Start() uint32 { return uint32(l.start) }
func (l locus) End() uint32   { return uint32(l.end) }

// Bix queries an indexed VCF in-process through the bgzf/tabix reader,
// with no external binary.
type Bix struct {
	tbx *bix.Bix
}

// NewBix opens the VCF and its .tbi index. A missing index is reported
// immediately rather than at the first query.
func NewBix(file string) (*Bix, error) {
	if _, err := os.Stat(file + ".tbi"); err != nil {
		return nil, fmt.Errorf("no tabix index for %s: %w", file, err)
	}
	tbx, err := bix.New(file)
	if err != nil {
		return nil, fmt.Errorf("open tabix index for %s: %w", file, err)
	}
	return &Bix{tbx: tbx}, nil
}

// Fetch returns the raw lines overlapping the 1-based inclusive region.
func (b *Bix) Fetch(chrom string, start, end int64) ([]string, error) {
	qstart := start - 1
	if qstart < 0 {
		qstart = 0
	}

	vals, err := b.tbx.Query(locus{chrom: chrom, start: qstart, end: end})
	if err != nil {
		return nil, fmt.Errorf("query %s:%d-%d: %w", chrom, start, end, err)
	}

	var lines []string
	for {
		v, err := vals.Next()
		if err != nil {
			// io.EOF marks exhaustion of the region.
			break
		}
		iv, ok := v.(interfaces.IVariant)
		if !ok {
			return nil, fmt.Errorf("unexpected record type %T in %s:%d-%d", v, chrom, start, end)
		}
		lines = append(lines, strings.TrimRight(iv.String(), "\n"))
	}
	return lines, nil
}

// Close releases the underlying index reader.
func (b *Bix) Close() error {
	return b.tbx.Close()
}
