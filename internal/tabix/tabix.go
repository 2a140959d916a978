// Package tabix retrieves raw VCF lines overlapping a genomic region
// from a positionally indexed file.
package tabix

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// RegionFetcher fetches the raw tab-separated lines overlapping a
// 1-based inclusive region, in the column layout of the source file.
type RegionFetcher interface {
	Fetch(chrom string, start, end int64) ([]string, error)
}

// Exec queries an indexed VCF by running the tabix binary, one
// invocation per region. The invocation blocks until all output is
// collected.
type Exec struct {
	binary string
	file   string
}

// NewExec creates a fetcher that shells out to the given tabix binary
// (empty string means "tabix" on PATH) for the given VCF file.
func NewExec(file, binary string) *Exec {
	if binary == "" {
		binary = "tabix"
	}
	return &Exec{binary: binary, file: file}
}

// Fetch runs `tabix <file> <chrom>:<start>-<end>`. A non-zero exit
// means the file lacks a usable index, which is fatal for callers.
func (e *Exec) Fetch(chrom string, start, end int64) ([]string, error) {
	region := fmt.Sprintf("%s:%d-%d", chrom, start, end)

	cmd := exec.Command(e.binary, e.file, region)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("tabix query %s failed: %s (is %s tabix-indexed?)", region, msg, e.file)
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}
