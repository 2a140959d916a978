package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/variantlab/vepgrep/internal/duckdb"
)

func newSitesCmd() *cobra.Command {
	var (
		dbPath string
		gene   string
	)

	cmd := &cobra.Command{
		Use:   "sites",
		Short: "Query matched sites recorded by subset --db",
		Example: `  vepgrep sites --db matches.db --gene ABCA1
  vepgrep sites --db matches.db --gene ENSG00000165029`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := duckdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			sites, err := store.SearchByGene(gene)
			if err != nil {
				return err
			}
			if len(sites) == 0 {
				fmt.Printf("no matched sites for %s\n", gene)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CHROM\tPOS\tREF\tALT\tGENE\tSYMBOL\tCONSEQUENCE\tIMPACT")
			for _, s := range sites {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
					s.Chrom, s.Pos, s.Ref, s.Alt, s.GeneID, s.Symbol, s.Consequence, s.Impact)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB database written by subset --db (required)")
	cmd.Flags().StringVar(&gene, "gene", "", "gene symbol or Ensembl gene ID (required)")
	cmd.MarkFlagRequired("db")
	cmd.MarkFlagRequired("gene")

	return cmd
}
