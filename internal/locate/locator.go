// Package locate finds a query variant inside an indexed VCF by
// minimal-representation matching.
package locate

import (
	"go.uber.org/zap"

	"github.com/variantlab/vepgrep/internal/tabix"
	"github.com/variantlab/vepgrep/internal/variant"
	"github.com/variantlab/vepgrep/internal/vcf"
)

// Locator scans records fetched from a region index for the site
// carrying a query allele, regardless of how either side pads its
// representation.
type Locator struct {
	header  *vcf.Header
	fetcher tabix.RegionFetcher
	logger  *zap.Logger
}

// New creates a Locator that parses fetched lines against the given
// header.
func New(header *vcf.Header, fetcher tabix.RegionFetcher) *Locator {
	return &Locator{
		header:  header,
		fetcher: fetcher,
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger for diagnostics.
func (l *Locator) SetLogger(lg *zap.Logger) {
	l.logger = lg
}

// Locate returns the 1-based index of the query allele within the ALT
// list of the matching site, along with the site's record. An allele
// index of 0 means the variant was not found. The search window extends
// max(len(ref), len(alt)) bases on either side of pos so that padded
// encodings of the same allele still land inside the region.
func (l *Locator) Locate(chrom string, pos int64, ref, alt string) (int, *vcf.Record, error) {
	leeway := int64(len(ref))
	if int64(len(alt)) > leeway {
		leeway = int64(len(alt))
	}

	target := variant.Minimize(pos, ref, alt)

	lines, err := l.fetcher.Fetch(chrom, pos-leeway, pos+leeway)
	if err != nil {
		return 0, nil, err
	}
	l.logger.Debug("fetched region",
		zap.String("chrom", chrom),
		zap.Int64("start", pos-leeway),
		zap.Int64("end", pos+leeway),
		zap.Int("candidates", len(lines)))

	for i, line := range lines {
		rec, err := l.header.ParseRecord(line, i+1)
		if err != nil {
			return 0, nil, err
		}
		for j, candidate := range rec.Alts() {
			if variant.Minimize(rec.Pos, rec.Ref(), candidate) == target {
				// First match in file order wins.
				return j + 1, rec, nil
			}
		}
	}

	return 0, nil, nil
}
