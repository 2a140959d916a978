package main

import (
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/variantlab/vepgrep/internal/genotype"
	"github.com/variantlab/vepgrep/internal/locate"
	"github.com/variantlab/vepgrep/internal/tabix"
	"github.com/variantlab/vepgrep/internal/vcf"
)

// variantSpec is a query variant given as chrom:pos:ref:alt.
type variantSpec struct {
	chrom string
	pos   int64
	ref   string
	alt   string
}

func parseVariantSpec(s string) (variantSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return variantSpec{}, fmt.Errorf("invalid variant %q; expected chrom:pos:ref:alt", s)
	}
	pos, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return variantSpec{}, fmt.Errorf("invalid position in variant %q", s)
	}
	if parts[2] == "" || parts[3] == "" {
		return variantSpec{}, fmt.Errorf("invalid variant %q; ref and alt must be non-empty", s)
	}
	if parts[2] == parts[3] {
		return variantSpec{}, fmt.Errorf("invalid variant %q; ref and alt are identical", s)
	}
	return variantSpec{chrom: parts[0], pos: pos, ref: parts[2], alt: parts[3]}, nil
}

// lookupFlags are shared by the genotypes and af subcommands.
type lookupFlags struct {
	variant     string
	gq          float64
	dp          float64
	nativeIndex bool
}

func (f *lookupFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.variant, "variant", "", "query variant as chrom:pos:ref:alt (required)")
	cmd.Flags().Float64Var(&f.gq, "gq", math.Inf(-1), "minimum genotype quality per sample")
	cmd.Flags().Float64Var(&f.dp, "dp", math.Inf(-1), "minimum read depth per sample")
	cmd.Flags().BoolVar(&f.nativeIndex, "native-index", false, "read the tabix index in-process instead of running the tabix binary")
	cmd.MarkFlagRequired("variant")
}

func (f *lookupFlags) thresholds(cmd *cobra.Command) genotype.Thresholds {
	th := genotype.Thresholds{GQ: f.gq, DP: f.dp}
	if !cmd.Flags().Changed("gq") && viper.IsSet("thresholds.gq") {
		th.GQ = viper.GetFloat64("thresholds.gq")
	}
	if !cmd.Flags().Changed("dp") && viper.IsSet("thresholds.dp") {
		th.DP = viper.GetFloat64("thresholds.dp")
	}
	return th
}

// newFetcher picks the region-retrieval backend: the tabix binary by
// default, the in-process reader when requested or when no binary is on
// PATH. The returned closer releases index resources.
func newFetcher(file string, native bool) (tabix.RegionFetcher, func() error, error) {
	noop := func() error { return nil }

	if !native && !viper.GetBool("index.native") {
		binary := viper.GetString("tabix.path")
		if _, err := exec.LookPath(binary); err == nil {
			return tabix.NewExec(file, binary), noop, nil
		}
	}

	b, err := tabix.NewBix(file)
	if err != nil {
		return nil, nil, err
	}
	return b, b.Close, nil
}

// locateVariant opens the indexed VCF, locates the query variant, and
// returns its allele index and record. An allele index of 0 means not
// found.
func locateVariant(file string, spec variantSpec, native bool) (int, *vcf.Record, error) {
	reader, err := vcf.NewReader(file)
	if err != nil {
		return 0, nil, err
	}
	defer reader.Close()

	fetcher, closeFetcher, err := newFetcher(file, native)
	if err != nil {
		return 0, nil, err
	}
	defer closeFetcher()

	locator := locate.New(reader.Header(), fetcher)
	locator.SetLogger(logger)

	return locator.Locate(spec.chrom, spec.pos, spec.ref, spec.alt)
}
