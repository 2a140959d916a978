// Package subset selects VCF sites whose annotations satisfy a filter
// expression and an optional gene restriction.
package subset

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/variantlab/vepgrep/internal/vcf"
)

// GeneField names the annotation field a gene list is matched against.
type GeneField string

const (
	// GeneFieldSymbol restricts on HGNC gene symbols.
	GeneFieldSymbol GeneField = "SYMBOL"
	// GeneFieldGeneID restricts on Ensembl gene IDs.
	GeneFieldGeneID GeneField = "Gene"
)

// GeneList restricts acceptance to annotations whose gene field is a
// member. A nil GeneList accepts everything.
type GeneList struct {
	field GeneField
	genes map[string]bool
}

// LoadGeneList builds a gene list from either a file path (one gene per
// line) or an inline comma-separated list. An empty argument yields a
// nil list.
func LoadGeneList(arg string, field GeneField) (*GeneList, error) {
	if arg == "" {
		return nil, nil
	}

	gl := &GeneList{field: field, genes: make(map[string]bool)}

	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		f, err := os.Open(arg)
		if err != nil {
			return nil, fmt.Errorf("open gene list: %w", err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			gene := strings.TrimSpace(scanner.Text())
			if gene != "" {
				gl.genes[gene] = true
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read gene list: %w", err)
		}
		return gl, nil
	}

	for _, gene := range strings.Split(arg, ",") {
		gene = strings.TrimSpace(gene)
		if gene != "" {
			gl.genes[gene] = true
		}
	}
	return gl, nil
}

// Accepts reports whether the annotation's gene field is in the list.
func (g *GeneList) Accepts(ann vcf.Annotation) (bool, error) {
	if g == nil || len(g.genes) == 0 {
		return true, nil
	}
	val, ok := ann[string(g.field)]
	if !ok {
		return false, fmt.Errorf("annotation field %q not present in input annotations", g.field)
	}
	return g.genes[val], nil
}

// Len returns the number of genes in the list.
func (g *GeneList) Len() int {
	if g == nil {
		return 0
	}
	return len(g.genes)
}
