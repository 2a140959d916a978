// Package genotype derives per-sample genotype classes and population
// allele frequencies from located variant sites.
package genotype

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/variantlab/vepgrep/internal/vcf"
)

// Thresholds are minimum per-sample quality requirements. Calls below
// either threshold are excluded. The zero thresholds from Default
// exclude nothing.
type Thresholds struct {
	GQ float64
	DP float64
}

// Default returns thresholds that pass every call.
func Default() Thresholds {
	return Thresholds{GQ: math.Inf(-1), DP: math.Inf(-1)}
}

// Classes holds sample identifiers partitioned by genotype with respect
// to one alternate allele.
type Classes struct {
	HomRef  map[string]bool
	Het     map[string]bool
	HomAlt  map[string]bool
	Missing int // samples with "." GQ or DP
}

// Genotypes may be phased or unphased.
var alleleSepRe = regexp.MustCompile(`[/|]`)

const noCall = "./."

// Classify partitions every sample at the site into hom-ref, het, or
// hom-alt with respect to the 1-based allele index. No-calls are
// skipped; samples with missing GQ or DP are counted in Missing;
// samples below the thresholds are excluded silently. A diploid
// genotype carrying the target allele more than twice is malformed.
func Classify(rec *vcf.Record, alleleIndex int, th Thresholds) (*Classes, error) {
	samples := rec.Header().SampleNames
	if rec.Format == nil || len(samples) == 0 {
		return nil, fmt.Errorf("unable to parse individual genotypes: FORMAT or sample columns missing")
	}

	classes := &Classes{
		HomRef: make(map[string]bool),
		Het:    make(map[string]bool),
		HomAlt: make(map[string]bool),
	}

	for _, sample := range samples {
		gt, err := rec.SampleField(sample, "GT")
		if err != nil {
			return nil, err
		}
		if gt == noCall {
			continue
		}

		gq, err := rec.SampleField(sample, "GQ")
		if err != nil {
			return nil, err
		}
		dp, err := rec.SampleField(sample, "DP")
		if err != nil {
			return nil, err
		}
		if gq == "." || dp == "." {
			classes.Missing++
			continue
		}

		gqVal, err := strconv.ParseFloat(gq, 64)
		if err != nil {
			return nil, fmt.Errorf("sample %s: invalid GQ %q", sample, gq)
		}
		dpVal, err := strconv.ParseFloat(dp, 64)
		if err != nil {
			return nil, fmt.Errorf("sample %s: invalid DP %q", sample, dp)
		}
		if gqVal < th.GQ || dpVal < th.DP {
			continue
		}

		count, err := countAllele(gt, alleleIndex)
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", sample, err)
		}
		switch count {
		case 0:
			classes.HomRef[sample] = true
		case 1:
			classes.Het[sample] = true
		case 2:
			classes.HomAlt[sample] = true
		default:
			return nil, fmt.Errorf("sample %s: genotype %q carries allele %d more than twice",
				sample, gt, alleleIndex)
		}
	}

	return classes, nil
}

// countAllele counts how many calls in a genotype equal the allele
// index.
func countAllele(gt string, alleleIndex int) (int, error) {
	count := 0
	for _, call := range alleleSepRe.Split(gt, -1) {
		n, err := strconv.Atoi(call)
		if err != nil {
			return 0, fmt.Errorf("malformed genotype %q", gt)
		}
		if n == alleleIndex {
			count++
		}
	}
	return count, nil
}

// FrequencyFromInfo reads the allele frequency of the 1-based allele
// from the site's INFO map, preferring adjusted counts (AC_Adj/AN_Adj)
// over raw ones (AC/AN). A zero allele total yields ok=false rather
// than an error.
func FrequencyFromInfo(rec *vcf.Record, alleleNum int) (af float64, ok bool, err error) {
	if rec.Info == nil {
		return 0, false, fmt.Errorf("unable to read allele counts: record has no INFO data")
	}

	var ac, an string
	if adj, present := rec.Info["AC_Adj"]; present {
		ac = adj
		an = rec.Info["AN_Adj"]
	} else if raw, present := rec.Info["AC"]; present {
		ac = raw
		an = rec.Info["AN"]
	} else {
		return 0, false, fmt.Errorf("INFO declares neither AC_Adj nor AC")
	}

	counts := strings.Split(ac, ",")
	if alleleNum < 1 || alleleNum > len(counts) {
		return 0, false, fmt.Errorf("allele index %d out of range for AC %q", alleleNum, ac)
	}

	acVal, err := strconv.ParseFloat(counts[alleleNum-1], 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid allele count %q: %w", counts[alleleNum-1], err)
	}
	anVal, err := strconv.ParseFloat(an, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid allele total %q: %w", an, err)
	}

	if anVal == 0 {
		return 0, false, nil
	}
	return acVal / anVal, true, nil
}

// FrequencyFromGenotypes recomputes AC/AN directly from per-sample
// genotypes under the same quality thresholds as Classify, counting
// every non-missing call toward the total. A zero total yields
// ok=false.
func FrequencyFromGenotypes(rec *vcf.Record, alleleNum int, th Thresholds) (af float64, ok bool, err error) {
	samples := rec.Header().SampleNames
	if rec.Format == nil || len(samples) == 0 {
		return 0, false, fmt.Errorf("unable to parse individual genotypes: FORMAT or sample columns missing")
	}

	target := strconv.Itoa(alleleNum)
	ac, an := 0, 0
	for _, sample := range samples {
		gt, gtErr := rec.SampleField(sample, "GT")
		if gtErr != nil {
			return 0, false, gtErr
		}
		if gt == noCall {
			continue
		}

		gq, gqErr := rec.SampleField(sample, "GQ")
		if gqErr != nil {
			return 0, false, gqErr
		}
		dp, dpErr := rec.SampleField(sample, "DP")
		if dpErr != nil {
			return 0, false, dpErr
		}
		if gq == "." || dp == "." {
			continue
		}

		gqVal, convErr := strconv.ParseFloat(gq, 64)
		if convErr != nil {
			return 0, false, fmt.Errorf("sample %s: invalid GQ %q", sample, gq)
		}
		dpVal, convErr := strconv.ParseFloat(dp, 64)
		if convErr != nil {
			return 0, false, fmt.Errorf("sample %s: invalid DP %q", sample, dp)
		}
		if gqVal < th.GQ || dpVal < th.DP {
			continue
		}

		for _, call := range alleleSepRe.Split(gt, -1) {
			if call == target {
				ac++
			}
			if call != "." {
				an++
			}
		}
	}

	if an == 0 {
		return 0, false, nil
	}
	return float64(ac) / float64(an), true, nil
}
