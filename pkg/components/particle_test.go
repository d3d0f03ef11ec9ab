package components

import (
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Kind
		wantErr bool
	}{
		{"爱心", "heart", KindHeart, false},
		{"大写", "Chrysanthemum", KindChrysanthemum, false},
		{"带空格", " star ", KindStar, false},
		{"尾迹", "trail", KindTrail, false},
		{"火花", "sparkle", KindSparkle, false},
		{"指针爱心", "pointer", KindPointer, false},
		{"未知", "rocket", 0, true},
		{"空字符串", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownKind) {
					t.Errorf("ParseKind(%q) error = %v, want ErrUnknownKind", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKind(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestKind_StringRoundTrip(t *testing.T) {
	for k := KindTrail; k <= KindPointer; k++ {
		parsed, err := ParseKind(k.String())
		if err != nil || parsed != k {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", k.String(), parsed, err, k)
		}
	}
	if got := Kind(42).String(); got != "Kind(42)" {
		t.Errorf("Kind(42).String() = %q", got)
	}
}

func TestKind_IsFirework(t *testing.T) {
	for _, k := range FireworkKinds {
		if !k.IsFirework() {
			t.Errorf("%v.IsFirework() = false, want true", k)
		}
	}
	for _, k := range []Kind{KindTrail, KindSparkle, KindPointer} {
		if k.IsFirework() {
			t.Errorf("%v.IsFirework() = true, want false", k)
		}
	}
}

func TestKind_UnmarshalText(t *testing.T) {
	var k Kind
	if err := k.UnmarshalText([]byte("spiral")); err != nil || k != KindSpiral {
		t.Errorf("UnmarshalText(spiral) = %v, %v", k, err)
	}
	if err := k.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("UnmarshalText(bogus) expected error")
	}
}

func TestParticle_IsLeader(t *testing.T) {
	p := &Particle{Kind: KindStar}
	if p.IsLeader() {
		t.Error("particle without burst payload should not be leader")
	}
	p.Burst = &BurstPayload{Leader: true}
	if !p.IsLeader() {
		t.Error("particle with leader payload should be leader")
	}
}
