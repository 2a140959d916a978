package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/variantlab/vepgrep/internal/vcf"
)

// MatchedSite is one emitted site plus the annotation that satisfied
// the filter expression.
type MatchedSite struct {
	Chrom       string
	Pos         int64
	Ref         string
	Alt         string
	GeneID      string
	Symbol      string
	Consequence string
	Impact      string
	Expr        string
}

// SiteSink buffers matched sites during a subset run and batch-writes
// them through the DuckDB Appender on Flush.
type SiteSink struct {
	store *Store
	expr  string
	buf   []MatchedSite
}

// NewSiteSink creates a sink tagging every row with the filter
// expression that produced it.
func NewSiteSink(store *Store, expr string) *SiteSink {
	return &SiteSink{store: store, expr: expr}
}

// Add buffers one matched site.
func (s *SiteSink) Add(rec *vcf.Record, ann vcf.Annotation) error {
	s.buf = append(s.buf, MatchedSite{
		Chrom:       rec.Chrom(),
		Pos:         rec.Pos,
		Ref:         rec.Ref(),
		Alt:         rec.Alt(),
		GeneID:      ann["Gene"],
		Symbol:      ann["SYMBOL"],
		Consequence: ann["Consequence"],
		Impact:      ann["IMPACT"],
		Expr:        s.expr,
	})
	return nil
}

// Flush batch-inserts buffered sites using the Appender API.
func (s *SiteSink) Flush() error {
	if len(s.buf) == 0 {
		return nil
	}

	conn, err := s.store.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "matched_sites")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, m := range s.buf {
		if err := appender.AppendRow(
			m.Chrom, m.Pos, m.Ref, m.Alt,
			m.GeneID, m.Symbol, m.Consequence, m.Impact, m.Expr,
		); err != nil {
			return fmt.Errorf("append matched site: %w", err)
		}
	}

	s.buf = s.buf[:0]
	return appender.Flush()
}

// SearchByGene returns stored sites whose symbol or gene ID matches.
func (s *Store) SearchByGene(gene string) ([]MatchedSite, error) {
	rows, err := s.db.Query(`SELECT
		chrom, pos, ref, alt, gene_id, symbol, consequence, impact, expr
		FROM matched_sites
		WHERE symbol=? OR gene_id=?`, gene, gene)
	if err != nil {
		return nil, fmt.Errorf("query by gene: %w", err)
	}
	defer rows.Close()

	var sites []MatchedSite
	for rows.Next() {
		var m MatchedSite
		if err := rows.Scan(
			&m.Chrom, &m.Pos, &m.Ref, &m.Alt,
			&m.GeneID, &m.Symbol, &m.Consequence, &m.Impact, &m.Expr,
		); err != nil {
			return nil, fmt.Errorf("scan matched site: %w", err)
		}
		sites = append(sites, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matched sites: %w", err)
	}
	return sites, nil
}

// Count returns the number of stored matched sites.
func (s *Store) Count() (int64, error) {
	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM matched_sites`).Scan(&n)
	return n, err
}
