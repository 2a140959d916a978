package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/variantlab/vepgrep/internal/genotype"
)

func newGenotypesCmd() *cobra.Command {
	var flags lookupFlags

	cmd := &cobra.Command{
		Use:   "genotypes <indexed-vcf>",
		Short: "Classify every sample as hom-ref, het, or hom-alt for a variant",
		Example: `  vepgrep genotypes --variant 1:55516888:G:GA cohort.vcf.gz
  vepgrep genotypes --variant 1:55516888:G:GA --gq 20 --dp 10 cohort.vcf.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := parseVariantSpec(flags.variant)
			if err != nil {
				return err
			}

			alleleIndex, rec, err := locateVariant(args[0], spec, flags.nativeIndex)
			if err != nil {
				return err
			}
			if alleleIndex == 0 {
				fmt.Printf("variant %s not found in %s\n", flags.variant, args[0])
				return nil
			}

			classes, err := genotype.Classify(rec, alleleIndex, flags.thresholds(cmd))
			if err != nil {
				return err
			}

			fmt.Printf("HOM_REF\t%d\t%s\n", len(classes.HomRef), joinSamples(classes.HomRef))
			fmt.Printf("HET\t%d\t%s\n", len(classes.Het), joinSamples(classes.Het))
			fmt.Printf("HOM_ALT\t%d\t%s\n", len(classes.HomAlt), joinSamples(classes.HomAlt))
			fmt.Printf("MISSING\t%d\n", classes.Missing)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func joinSamples(set map[string]bool) string {
	samples := make([]string, 0, len(set))
	for s := range set {
		samples = append(samples, s)
	}
	sort.Strings(samples)
	return strings.Join(samples, ",")
}
