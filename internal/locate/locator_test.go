package locate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/variantlab/vepgrep/internal/vcf"
)

// fakeFetcher returns canned lines and records the requested region.
type fakeFetcher struct {
	lines []string
	err   error

	chrom      string
	start, end int64
}

func (f *fakeFetcher) Fetch(chrom string, start, end int64) ([]string, error) {
	f.chrom, f.start, f.end = chrom, start, end
	return f.lines, f.err
}

func testHeader(t *testing.T) *vcf.Header {
	t.Helper()
	content := strings.Join([]string{
		"##fileformat=VCFv4.1",
		strings.Join([]string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO"}, "\t"),
	}, "\n") + "\n"

	r, err := vcf.NewReaderFrom(strings.NewReader(content))
	require.NoError(t, err)
	return r.Header()
}

func line(chrom string, pos int64, ref, alt string) string {
	return strings.Join([]string{chrom, fmt.Sprintf("%d", pos), ".", ref, alt, "100", "PASS", "AC=1;AN=10"}, "\t")
}

func TestLocate_ExactMatch(t *testing.T) {
	fetcher := &fakeFetcher{lines: []string{line("1", 100, "G", "GA")}}
	loc := New(testHeader(t), fetcher)

	idx, rec, err := loc.Locate("1", 100, "G", "GA")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	require.NotNil(t, rec)
	assert.Equal(t, int64(100), rec.Pos)
}

func TestLocate_SecondOfThreeAlts(t *testing.T) {
	fetcher := &fakeFetcher{lines: []string{line("1", 100, "G", "GT,GA,GC")}}
	loc := New(testHeader(t), fetcher)

	idx, _, err := loc.Locate("1", 100, "G", "GA")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestLocate_DifferentPadding(t *testing.T) {
	// Site encodes the insertion with an extra leading base.
	fetcher := &fakeFetcher{lines: []string{line("1", 99, "TG", "TGA")}}
	loc := New(testHeader(t), fetcher)

	idx, rec, err := loc.Locate("1", 100, "G", "GA")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, int64(99), rec.Pos)
}

func TestLocate_NotFound(t *testing.T) {
	fetcher := &fakeFetcher{lines: []string{line("1", 100, "G", "GT")}}
	loc := New(testHeader(t), fetcher)

	idx, rec, err := loc.Locate("1", 100, "G", "GA")
	require.NoError(t, err)
	assert.Zero(t, idx)
	assert.Nil(t, rec)
}

func TestLocate_EmptyRegion(t *testing.T) {
	fetcher := &fakeFetcher{}
	loc := New(testHeader(t), fetcher)

	idx, _, err := loc.Locate("1", 100, "G", "GA")
	require.NoError(t, err)
	assert.Zero(t, idx)
}

func TestLocate_SearchWindow(t *testing.T) {
	fetcher := &fakeFetcher{}
	loc := New(testHeader(t), fetcher)

	_, _, err := loc.Locate("7", 500, "ATTTT", "A")
	require.NoError(t, err)

	assert.Equal(t, "7", fetcher.chrom)
	assert.Equal(t, int64(495), fetcher.start)
	assert.Equal(t, int64(505), fetcher.end)
}

func TestLocate_FirstMatchWins(t *testing.T) {
	fetcher := &fakeFetcher{lines: []string{
		line("1", 100, "G", "GA"),
		line("1", 99, "TG", "TGA"), // same allele, different padding
	}}
	loc := New(testHeader(t), fetcher)

	idx, rec, err := loc.Locate("1", 100, "G", "GA")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, int64(100), rec.Pos)
}

func TestLocate_FetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: fmt.Errorf("tabix query failed")}
	loc := New(testHeader(t), fetcher)

	_, _, err := loc.Locate("1", 100, "G", "GA")
	require.Error(t, err)
}
