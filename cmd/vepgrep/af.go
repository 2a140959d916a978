package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/variantlab/vepgrep/internal/genotype"
)

func newAFCmd() *cobra.Command {
	var (
		flags lookupFlags
		mode  string
	)

	cmd := &cobra.Command{
		Use:   "af <indexed-vcf>",
		Short: "Report the population allele frequency of a variant",
		Long: `Locate a variant in a tabix-indexed VCF and report its allele
frequency. Mode query_info reads AC/AN from the INFO column (preferring
AC_Adj/AN_Adj); mode count_alleles recomputes the counts from
per-sample genotypes under the GQ/DP thresholds. A zero allele total is
reported as NA.`,
		Example: `  vepgrep af --variant 1:55516888:G:GA --mode query_info sites.vcf.gz
  vepgrep af --variant 1:55516888:G:GA --mode count_alleles --gq 20 cohort.vcf.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := parseVariantSpec(flags.variant)
			if err != nil {
				return err
			}

			switch mode {
			case "query_info", "count_alleles":
			default:
				return fmt.Errorf("unknown mode %q; valid modes are query_info and count_alleles", mode)
			}

			alleleIndex, rec, err := locateVariant(args[0], spec, flags.nativeIndex)
			if err != nil {
				return err
			}
			if alleleIndex == 0 {
				fmt.Printf("variant %s not found in %s\n", flags.variant, args[0])
				return nil
			}

			var freq float64
			var defined bool
			if mode == "query_info" {
				freq, defined, err = genotype.FrequencyFromInfo(rec, alleleIndex)
			} else {
				freq, defined, err = genotype.FrequencyFromGenotypes(rec, alleleIndex, flags.thresholds(cmd))
			}
			if err != nil {
				return err
			}

			if !defined {
				fmt.Println("NA")
				return nil
			}
			fmt.Printf("%g\n", freq)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&mode, "mode", "query_info", "frequency source: query_info or count_alleles")

	return cmd
}
