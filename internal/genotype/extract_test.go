package genotype

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/variantlab/vepgrep/internal/vcf"
)

// makeRecord parses one data line against a header with the given
// sample columns.
func makeRecord(t *testing.T, samples []string, fields ...string) *vcf.Record {
	t.Helper()

	cols := append([]string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT"}, samples...)
	header := strings.Join([]string{
		"##fileformat=VCFv4.1",
		`##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">`,
		`##FORMAT=<ID=GQ,Number=1,Type=Integer,Description="Genotype Quality">`,
		`##FORMAT=<ID=DP,Number=1,Type=Integer,Description="Read Depth">`,
		strings.Join(cols, "\t"),
	}, "\n") + "\n"

	r, err := vcf.NewReaderFrom(strings.NewReader(header + strings.Join(fields, "\t") + "\n"))
	require.NoError(t, err)

	rec, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec
}

func TestClassify(t *testing.T) {
	rec := makeRecord(t, []string{"S1", "S2", "S3", "S4", "S5"},
		"1", "100", ".", "G", "GA", "100", "PASS", "AC=3;AN=8", "GT:GQ:DP",
		"1/1:50:30", // hom-alt
		"0/1:40:20", // het
		"0/0:60:25", // hom-ref
		"./.",       // no-call, excluded entirely
		"0/1:.:20",  // missing GQ
	)

	classes, err := Classify(rec, 1, Default())
	require.NoError(t, err)

	assert.True(t, classes.HomAlt["S1"])
	assert.True(t, classes.Het["S2"])
	assert.True(t, classes.HomRef["S3"])
	assert.Equal(t, 1, classes.Missing)

	total := len(classes.HomRef) + len(classes.Het) + len(classes.HomAlt)
	assert.Equal(t, 3, total, "no-call and missing samples must not appear in any class")
}

func TestClassify_Thresholds(t *testing.T) {
	rec := makeRecord(t, []string{"S1", "S2", "S3"},
		"1", "100", ".", "G", "GA", "100", "PASS", ".", "GT:GQ:DP",
		"0/1:40:20", // passes
		"0/1:10:20", // GQ below threshold
		"0/1:40:5",  // DP below threshold
	)

	classes, err := Classify(rec, 1, Thresholds{GQ: 20, DP: 10})
	require.NoError(t, err)

	assert.True(t, classes.Het["S1"])
	assert.Len(t, classes.Het, 1)
	assert.Empty(t, classes.HomRef)
	assert.Empty(t, classes.HomAlt)
}

func TestClassify_PhasedGenotype(t *testing.T) {
	rec := makeRecord(t, []string{"S1"},
		"1", "100", ".", "G", "GA", "100", "PASS", ".", "GT:GQ:DP",
		"1|0:40:20",
	)

	classes, err := Classify(rec, 1, Default())
	require.NoError(t, err)
	assert.True(t, classes.Het["S1"])
}

func TestClassify_SecondAllele(t *testing.T) {
	rec := makeRecord(t, []string{"S1", "S2"},
		"1", "100", ".", "G", "GA,GT", "100", "PASS", ".", "GT:GQ:DP",
		"2/2:40:20",
		"0/2:40:20",
	)

	classes, err := Classify(rec, 2, Default())
	require.NoError(t, err)
	assert.True(t, classes.HomAlt["S1"])
	assert.True(t, classes.Het["S2"])
}

func TestClassify_MalformedGenotype(t *testing.T) {
	rec := makeRecord(t, []string{"S1"},
		"1", "100", ".", "G", "GA", "100", "PASS", ".", "GT:GQ:DP",
		"1/x:40:20",
	)

	_, err := Classify(rec, 1, Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed genotype")
}

func TestClassify_NoSampleColumns(t *testing.T) {
	r, err := vcf.NewReaderFrom(strings.NewReader(strings.Join([]string{
		"##fileformat=VCFv4.1",
		strings.Join([]string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO"}, "\t"),
		strings.Join([]string{"1", "100", ".", "G", "GA", "100", "PASS", "AC=3;AN=10"}, "\t"),
	}, "\n") + "\n"))
	require.NoError(t, err)
	rec, err := r.Next()
	require.NoError(t, err)

	_, err = Classify(rec, 1, Default())
	require.Error(t, err)
}

func TestFrequencyFromInfo(t *testing.T) {
	rec := makeRecord(t, []string{"S1"},
		"1", "100", ".", "G", "GA,GT", "100", "PASS", "AC=3,0;AN=10", "GT:GQ:DP", "0/1:40:20")

	af, ok, err := FrequencyFromInfo(rec, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.3, af, 1e-9)

	af, ok, err = FrequencyFromInfo(rec, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, af)
}

func TestFrequencyFromInfo_PrefersAdjusted(t *testing.T) {
	rec := makeRecord(t, []string{"S1"},
		"1", "100", ".", "G", "GA", "100", "PASS", "AC=5;AN=10;AC_Adj=1;AN_Adj=8", "GT:GQ:DP", "0/1:40:20")

	af, ok, err := FrequencyFromInfo(rec, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.125, af, 1e-9)
}

func TestFrequencyFromInfo_ZeroTotalUndefined(t *testing.T) {
	rec := makeRecord(t, []string{"S1"},
		"1", "100", ".", "G", "GA", "100", "PASS", "AC=0;AN=0", "GT:GQ:DP", "./.")

	_, ok, err := FrequencyFromInfo(rec, 1)
	require.NoError(t, err, "zero total is undefined, not an error")
	assert.False(t, ok)
}

func TestFrequencyFromInfo_NoCounts(t *testing.T) {
	rec := makeRecord(t, []string{"S1"},
		"1", "100", ".", "G", "GA", "100", "PASS", "DP=100", "GT:GQ:DP", "0/1:40:20")

	_, _, err := FrequencyFromInfo(rec, 1)
	require.Error(t, err)
}

func TestFrequencyFromGenotypes(t *testing.T) {
	rec := makeRecord(t, []string{"S1", "S2", "S3", "S4"},
		"1", "100", ".", "G", "GA", "100", "PASS", ".", "GT:GQ:DP",
		"1/1:50:30",
		"0/1:40:20",
		"0/0:60:25",
		"./.",
	)

	af, ok, err := FrequencyFromGenotypes(rec, 1, Default())
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.5, af, 1e-9) // 3 alt alleles out of 6 called
}

func TestFrequencyFromGenotypes_AllMissingUndefined(t *testing.T) {
	rec := makeRecord(t, []string{"S1", "S2"},
		"1", "100", ".", "G", "GA", "100", "PASS", ".", "GT:GQ:DP",
		"./.",
		"./.",
	)

	_, ok, err := FrequencyFromGenotypes(rec, 1, Default())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFrequencyFromGenotypes_Thresholds(t *testing.T) {
	rec := makeRecord(t, []string{"S1", "S2"},
		"1", "100", ".", "G", "GA", "100", "PASS", ".", "GT:GQ:DP",
		"1/1:50:30",
		"0/0:5:30", // excluded by GQ threshold
	)

	af, ok, err := FrequencyFromGenotypes(rec, 1, Thresholds{GQ: 20, DP: 0})
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 1.0, af, 1e-9)
}
