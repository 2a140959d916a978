package variant

import "testing"

func TestMinimize(t *testing.T) {
	tests := []struct {
		name     string
		pos      int64
		ref, alt string
		want     Minimal
	}{
		{
			name: "already minimal SNV",
			pos:  100, ref: "C", alt: "G",
			want: Minimal{100, "C", "G"},
		},
		{
			name: "already minimal insertion",
			pos:  100, ref: "A", alt: "AT",
			want: Minimal{100, "A", "AT"},
		},
		{
			name: "shared prefix",
			pos:  100, ref: "GATC", alt: "GATG",
			want: Minimal{103, "C", "G"},
		},
		{
			name: "shared suffix",
			pos:  100, ref: "CAT", alt: "GAT",
			want: Minimal{100, "C", "G"},
		},
		{
			name: "padded insertion matches unpadded",
			pos:  99, ref: "GA", alt: "GAT",
			want: Minimal{100, "A", "AT"},
		},
		{
			name: "suffix trimmed before prefix",
			pos:  100, ref: "TACA", alt: "TGCA",
			want: Minimal{101, "A", "G"},
		},
		{
			name: "deletion keeps anchor base",
			pos:  100, ref: "ATTT", alt: "A",
			want: Minimal{100, "ATTT", "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Minimize(tt.pos, tt.ref, tt.alt)
			if got != tt.want {
				t.Errorf("Minimize(%d, %q, %q) = %+v, want %+v",
					tt.pos, tt.ref, tt.alt, got, tt.want)
			}
		})
	}
}

func TestMinimize_Idempotent(t *testing.T) {
	inputs := []struct {
		pos      int64
		ref, alt string
	}{
		{100, "A", "AT"},
		{100, "GATC", "GATG"},
		{99, "GA", "GAT"},
		{12345, "ATTTT", "ATT"},
	}

	for _, in := range inputs {
		once := Minimize(in.pos, in.ref, in.alt)
		twice := Minimize(once.Pos, once.Ref, once.Alt)
		if once != twice {
			t.Errorf("Minimize not idempotent for (%d, %q, %q): %+v then %+v",
				in.pos, in.ref, in.alt, once, twice)
		}
	}
}

func TestMinimize_EquivalentEncodings(t *testing.T) {
	// The same insertion expressed with and without left padding.
	a := Minimize(100, "A", "AT")
	b := Minimize(99, "GA", "GAT")
	if a != b {
		t.Errorf("equivalent encodings did not converge: %+v vs %+v", a, b)
	}
}
