package particle

import (
	"math/rand"
	"testing"

	"gopkg.in/yaml.v3"
)

// TestParseValue_FixedValue tests parsing of fixed value format
func TestParseValue_FixedValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"Integer", "1500", 1500},
		{"Float", "3.14", 3.14},
		{"Negative", "-10.5", -10.5},
		{"Zero", "0", 0},
		{"Leading dot", ".985", 0.985},
		{"Single bracket", "[3]", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseValue(tt.input)
			if err != nil {
				t.Fatalf("ParseValue(%q) unexpected error: %v", tt.input, err)
			}
			if r.Min != tt.want || r.Max != tt.want {
				t.Errorf("ParseValue(%q) = %+v, want fixed %v", tt.input, r, tt.want)
			}
		})
	}
}

// TestParseValue_Range tests parsing of range format
func TestParseValue_Range(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMin float64
		wantMax float64
	}{
		{"Float range", "[0.7 0.9]", 0.7, 0.9},
		{"Integer range", "[8 11]", 8, 11},
		{"Negative range", "[-5 -2]", -5, -2},
		{"Mixed range", "[-1.5 2.5]", -1.5, 2.5},
		{"Reversed range", "[11 8]", 8, 11},
		{"Extra spaces", "  [ 3   6 ] ", 3, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseValue(tt.input)
			if err != nil {
				t.Fatalf("ParseValue(%q) unexpected error: %v", tt.input, err)
			}
			if r.Min != tt.wantMin || r.Max != tt.wantMax {
				t.Errorf("ParseValue(%q) = %+v, want [%v %v]", tt.input, r, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestParseValue_Invalid(t *testing.T) {
	inputs := []string{"", "abc", "[1 2", "[1 2 3]", "[a b]", "[]"}
	for _, in := range inputs {
		if _, err := ParseValue(in); err == nil {
			t.Errorf("ParseValue(%q) expected error", in)
		}
	}
}

func TestRange_UnmarshalYAML(t *testing.T) {
	var doc struct {
		Velocity Range `yaml:"velocity"`
		Jitter   Range `yaml:"jitter"`
		Count    Range `yaml:"count"`
		Spin     Range `yaml:"spin"`
	}
	src := `
velocity: "[8 11]"
jitter: [0.5, 0.1]
count: 120
spin: "0.02"
`
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if doc.Velocity != Between(8, 11) {
		t.Errorf("velocity = %+v", doc.Velocity)
	}
	if doc.Jitter != Between(0.1, 0.5) {
		t.Errorf("jitter = %+v, want normalised [0.1 0.5]", doc.Jitter)
	}
	if doc.Count != Fixed(120) {
		t.Errorf("count = %+v", doc.Count)
	}
	if doc.Spin != Fixed(0.02) {
		t.Errorf("spin = %+v", doc.Spin)
	}
}

func TestRange_UnmarshalYAML_Errors(t *testing.T) {
	cases := []string{
		"velocity: \"[8\"",
		"velocity: [1, 2, 3]",
		"velocity: {min: 1}",
	}
	for _, src := range cases {
		var doc struct {
			Velocity Range `yaml:"velocity"`
		}
		if err := yaml.Unmarshal([]byte(src), &doc); err == nil {
			t.Errorf("yaml.Unmarshal(%q) expected error", src)
		}
	}
}

func TestRange_MarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(map[string]Range{"a": Between(3, 6), "b": Fixed(2)})
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}
	want := "a: '[3 6]'\nb: 2\n"
	if string(out) != want {
		t.Errorf("yaml.Marshal = %q, want %q", out, want)
	}
}

// TestRandomInRange tests random value generation within bounds
func TestRandomInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		v := RandomInRange(rng, 3, 6)
		if v < 3 || v > 6 {
			t.Fatalf("RandomInRange(3, 6) = %v out of bounds", v)
		}
	}

	if v := RandomInRange(rng, 5, 5); v != 5 {
		t.Errorf("RandomInRange(5, 5) = %v, want 5", v)
	}
	if v := RandomInRange(rng, 9, 2); v != 9 {
		t.Errorf("RandomInRange(9, 2) = %v, want min when min >= max", v)
	}

	r := Between(-1, 1)
	for i := 0; i < 100; i++ {
		if v := r.Random(rng); !r.Contains(v) {
			t.Fatalf("Range.Random = %v not within %+v", v, r)
		}
	}
}
