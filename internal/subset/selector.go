package subset

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/variantlab/vepgrep/internal/filter"
	"github.com/variantlab/vepgrep/internal/vcf"
)

// MatchSink receives every emitted site along with the annotation that
// satisfied the filter.
type MatchSink interface {
	Add(rec *vcf.Record, ann vcf.Annotation) error
}

// Selector streams records and re-emits, verbatim, every site with at
// least one annotation satisfying both the filter tree and the gene
// restriction.
type Selector struct {
	tree   *filter.Node
	genes  *GeneList
	sink   MatchSink
	logger *zap.Logger
}

// NewSelector creates a selector. A nil gene list accepts all genes.
func NewSelector(tree *filter.Node, genes *GeneList) *Selector {
	return &Selector{
		tree:   tree,
		genes:  genes,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for run diagnostics.
func (s *Selector) SetLogger(lg *zap.Logger) {
	s.logger = lg
}

// SetSink adds a sink receiving every matched site.
func (s *Selector) SetSink(sink MatchSink) {
	s.sink = sink
}

// Run evaluates every record from the reader and writes matching lines
// to w. A record without annotations is an input error. Returns the
// number of sites emitted.
func (s *Selector) Run(r *vcf.Reader, w io.Writer) (int, error) {
	matched := 0

	for {
		rec, err := r.Next()
		if err != nil {
			return matched, err
		}
		if rec == nil {
			break
		}

		if rec.Annotations == nil {
			return matched, fmt.Errorf("no VEP annotations found at line %d; input must carry CSQ INFO entries",
				r.LineNumber())
		}

		for _, ann := range rec.Annotations {
			ok, err := s.tree.Eval(ann)
			if err != nil {
				return matched, err
			}
			if !ok {
				continue
			}

			geneOK, err := s.genes.Accepts(ann)
			if err != nil {
				return matched, err
			}
			if !geneOK {
				continue
			}

			if _, err := io.WriteString(w, rec.Line+"\n"); err != nil {
				return matched, fmt.Errorf("write site: %w", err)
			}
			if s.sink != nil {
				if err := s.sink.Add(rec, ann); err != nil {
					return matched, fmt.Errorf("record match: %w", err)
				}
			}
			matched++
			break
		}
	}

	if dropped := r.DroppedAnnotations(); dropped > 0 {
		s.logger.Warn("dropped CSQ blocks with unexpected field counts",
			zap.Int("dropped", dropped))
	}
	s.logger.Info("subset complete", zap.Int("sites_emitted", matched))

	return matched, nil
}
