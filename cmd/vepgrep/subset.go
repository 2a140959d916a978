package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/variantlab/vepgrep/internal/duckdb"
	"github.com/variantlab/vepgrep/internal/filter"
	"github.com/variantlab/vepgrep/internal/subset"
	"github.com/variantlab/vepgrep/internal/vcf"
)

func newSubsetCmd() *cobra.Command {
	var (
		expr       string
		outputPath string
		ensg       string
		symbol     string
		setVersion string
		dbPath     string
	)

	cmd := &cobra.Command{
		Use:   "subset <input-vcf>",
		Short: "Emit sites whose annotations satisfy a filter expression",
		Long: `Re-emit every VCF site with at least one CSQ annotation satisfying the
filter expression and the optional gene restriction. The input line is
written verbatim; header lines are re-emitted first.

Expressions combine binary predicates over annotation fields with & and
| plus parentheses. Valid operators: =, !=, ~, !~, IN, !IN, CONTAINS,
!CONTAINS. An empty expression accepts every annotated site.`,
		Example: `  vepgrep subset -e 'Gene=ABCA1 & (Consequence CONTAINS missense_variant | Consequence ~ splice_.*_variant)' input.vcf.gz
  vepgrep subset -e 'IMPACT IN HIGH,MODERATE' --symbol genes.txt -o out.vcf.gz input.vcf
  cat input.vcf | vepgrep subset -e 'LoF=HC' -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubset(args[0], expr, outputPath, ensg, symbol, setVersion, dbPath)
		},
	}

	cmd.Flags().StringVarP(&expr, "expr", "e", "", "boolean filter expression over CSQ annotation fields")
	cmd.Flags().StringVarP(&outputPath, "out", "o", "", "output VCF (default: stdout; .gz suffix compresses)")
	cmd.Flags().StringVar(&ensg, "ensg", "", "file or comma-delimited list of Ensembl gene IDs")
	cmd.Flags().StringVar(&symbol, "symbol", "", "file or comma-delimited list of HGNC gene symbols")
	cmd.Flags().StringVar(&setVersion, "set-version", "", "rewrite the ##fileformat header to this VCF version (e.g. 4.2)")
	cmd.Flags().StringVar(&dbPath, "db", "", "also record matched sites in a DuckDB database at this path")

	return cmd
}

func runSubset(inputPath, expr, outputPath, ensg, symbol, setVersion, dbPath string) error {
	if strings.Contains(expr, "&&") || strings.Contains(expr, "||") {
		return fmt.Errorf("invalid filter expression: use & and | for logical AND/OR")
	}
	if ensg != "" && symbol != "" {
		return fmt.Errorf("pick either --ensg or --symbol, not both")
	}
	if setVersion != "" && !vcf.FileformatRe.MatchString(setVersion) {
		return fmt.Errorf("version %q invalid; expected a form like 4.2", setVersion)
	}

	tree, err := filter.Parse(expr)
	if err != nil {
		return err
	}

	var genes *subset.GeneList
	switch {
	case symbol != "":
		genes, err = subset.LoadGeneList(symbol, subset.GeneFieldSymbol)
	case ensg != "":
		genes, err = subset.LoadGeneList(ensg, subset.GeneFieldGeneID)
	}
	if err != nil {
		return err
	}

	reader, err := vcf.NewReader(inputPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	out, err := subset.NewOutput(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	headerLines := reader.Header().Lines
	if setVersion != "" {
		headerLines = reader.Header().RewriteFileformat(setVersion)
	}
	for _, line := range headerLines {
		if _, err := io.WriteString(out, line+"\n"); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	selector := subset.NewSelector(tree, genes)
	selector.SetLogger(logger)

	var sink *duckdb.SiteSink
	if dbPath != "" {
		store, err := duckdb.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		sink = duckdb.NewSiteSink(store, expr)
		selector.SetSink(sink)
	}

	if _, err := selector.Run(reader, out); err != nil {
		return err
	}

	if sink != nil {
		if err := sink.Flush(); err != nil {
			return fmt.Errorf("flush matched sites: %w", err)
		}
	}
	return nil
}
