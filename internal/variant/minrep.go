// Package variant provides allele normalization for comparing variants
// across differently padded VCF encodings.
package variant

// Minimal is the canonical form of a (position, ref, alt) triple after
// shared trailing and then leading bases have been removed.
type Minimal struct {
	Pos int64
	Ref string
	Alt string
}

// Minimize returns the minimal representation of a variant.
//
// Shared trailing bases are dropped first (position unchanged), then
// shared leading bases are dropped with the position advancing one base
// per removal. Both alleles always retain at least one base. The result
// is stable under repeated application.
func Minimize(pos int64, ref, alt string) Minimal {
	for len(ref) > 1 && len(alt) > 1 && ref[len(ref)-1] == alt[len(alt)-1] {
		ref = ref[:len(ref)-1]
		alt = alt[:len(alt)-1]
	}
	for len(ref) > 1 && len(alt) > 1 && ref[0] == alt[0] {
		ref = ref[1:]
		alt = alt[1:]
		pos++
	}
	return Minimal{Pos: pos, Ref: ref, Alt: alt}
}
