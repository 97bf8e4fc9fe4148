package version

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{in: "1.2.3", want: Version{1, 2, 3}},
		{in: " 4.10.0\n", want: Version{4, 10, 0}},
		{in: "v2.0.1", want: Version{2, 0, 1}},
		{in: "1.2", wantErr: true},
		{in: "1.2.3.4", wantErr: true},
		{in: "1.x.3", wantErr: true},
		{in: "1.-2.3", wantErr: true},
		{in: "1.+2.3", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBump(t *testing.T) {
	v := Version{3, 7, 12}

	if got := v.Bump(Major).String(); got != "4.0.0" {
		t.Errorf("major bump: expected 4.0.0, got %s", got)
	}
	if got := v.Bump(Minor).String(); got != "3.8.0" {
		t.Errorf("minor bump: expected 3.8.0, got %s", got)
	}
	if got := v.Bump(Patch).String(); got != "3.7.13" {
		t.Errorf("patch bump: expected 3.7.13, got %s", got)
	}
}

func TestParsePart(t *testing.T) {
	for _, p := range Parts {
		got, err := ParsePart(string(p))
		if err != nil || got != p {
			t.Errorf("ParsePart(%q) = %q, %v", p, got, err)
		}
	}
	if _, err := ParsePart("micro"); err == nil {
		t.Error("expected error for unknown part")
	}
}

func TestCompare(t *testing.T) {
	a := Version{1, 10, 0}
	b := Version{1, 9, 5}

	if Compare(a, b) != 1 {
		t.Errorf("expected %v > %v", a, b)
	}
	if Compare(b, a) != -1 {
		t.Errorf("expected %v < %v", b, a)
	}
	if Compare(a, a) != 0 {
		t.Errorf("expected %v == %v", a, a)
	}
}

func TestMarker(t *testing.T) {
	if got := Marker("build_", "beta", Version{5, 2, 0}); got != "build_beta_5.2.0" {
		t.Errorf("unexpected marker %q", got)
	}
}

func TestParseMarker(t *testing.T) {
	variant, v, err := ParseMarker("    build_google_6.41.2\n    including: PhotoBooth", "build_")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if variant != "google" {
		t.Errorf("expected variant google, got %q", variant)
	}
	if v != (Version{6, 41, 2}) {
		t.Errorf("expected 6.41.2, got %v", v)
	}

	if _, _, err := ParseMarker("Merge branch 'dev'", "build_"); err == nil {
		t.Error("expected error when marker is missing")
	}
	if _, _, err := ParseMarker("build_beta_latest", "build_"); err == nil {
		t.Error("expected error for non-numeric version")
	}
}

func TestAlphaPatch_NoTags(t *testing.T) {
	got := AlphaPatch(Version{2, 3, 4}, []string{"2.3.4", "2.2.51", "2.3.5"})
	if got.String() != "2.3.50" {
		t.Errorf("expected 2.3.50, got %s", got)
	}
}

func TestAlphaPatch_NextAfterHighest(t *testing.T) {
	tags := []string{"2.3.50", "2.3.59", "2.3.100", "2.3.60", "12.3.99", "v2.3.61"}
	got := AlphaPatch(Version{2, 3, 4}, tags)
	if got.String() != "2.3.62" {
		t.Errorf("expected 2.3.62, got %s", got)
	}
}
