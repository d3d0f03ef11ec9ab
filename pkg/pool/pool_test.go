package pool

import (
	"testing"

	"github.com/decker502/fireworks/pkg/components"
)

func newParticles(n int) []*components.Particle {
	ps := make([]*components.Particle, n)
	for i := range ps {
		ps[i] = &components.Particle{X: float64(i), Alpha: 1}
	}
	return ps
}

func TestPool_AddRefusesAtCap(t *testing.T) {
	p := New(3)
	for i, particle := range newParticles(5) {
		ok := p.Add(particle)
		if want := i < 3; ok != want {
			t.Errorf("Add #%d = %v, want %v", i, ok, want)
		}
		if p.Len() > p.Cap() {
			t.Fatalf("Len() = %d exceeds Cap() = %d", p.Len(), p.Cap())
		}
	}
	if !p.Full() || p.Free() != 0 {
		t.Errorf("Full() = %v, Free() = %d; want full pool", p.Full(), p.Free())
	}
	if p.Add(nil) {
		t.Error("Add(nil) should be refused")
	}
}

func TestPool_ZeroCap(t *testing.T) {
	p := New(-1)
	if p.Cap() != 0 {
		t.Errorf("Cap() = %d, want 0", p.Cap())
	}
	if p.Add(&components.Particle{}) {
		t.Error("Add on zero-cap pool should be refused")
	}
}

func TestPool_SweepCompactsInOrder(t *testing.T) {
	tests := []struct {
		name string
		keep func(i int) bool
		want []float64
	}{
		{"全部保留", func(int) bool { return true }, []float64{0, 1, 2, 3, 4, 5}},
		{"全部移除", func(int) bool { return false }, []float64{}},
		{"移除偶数", func(i int) bool { return i%2 == 1 }, []float64{1, 3, 5}},
		{"移除首尾", func(i int) bool { return i != 0 && i != 5 }, []float64{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(10)
			for _, particle := range newParticles(6) {
				p.Add(particle)
			}
			removed := p.Sweep(func(particle *components.Particle) bool {
				return tt.keep(int(particle.X))
			})
			if removed != 6-len(tt.want) {
				t.Errorf("Sweep removed %d, want %d", removed, 6-len(tt.want))
			}
			got := p.Particles()
			if len(got) != len(tt.want) {
				t.Fatalf("Len after sweep = %d, want %d", len(got), len(tt.want))
			}
			for i, particle := range got {
				if particle.X != tt.want[i] {
					t.Errorf("particle[%d].X = %v, want %v", i, particle.X, tt.want[i])
				}
			}
		})
	}
}

func TestPool_SweepKeepsAppendedParticles(t *testing.T) {
	p := New(8)
	for _, particle := range newParticles(4) {
		p.Add(particle)
	}

	visited := 0
	p.Sweep(func(particle *components.Particle) bool {
		visited++
		if particle.X == 1 {
			p.Add(&components.Particle{X: 100})
			p.Add(&components.Particle{X: 101})
		}
		return particle.X != 0 && particle.X != 2
	})

	if visited != 4 {
		t.Errorf("Sweep visited %d particles, want 4 (appended particles are not updated this round)", visited)
	}
	want := []float64{1, 3, 100, 101}
	got := p.Particles()
	if len(got) != len(want) {
		t.Fatalf("Len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].X != want[i] {
			t.Errorf("particle[%d].X = %v, want %v", i, got[i].X, want[i])
		}
	}
}

func TestPool_SweepAppendRespectsCap(t *testing.T) {
	p := New(3)
	for _, particle := range newParticles(3) {
		p.Add(particle)
	}
	// 扫描期间被移除的粒子仍占位，追加被拒绝
	p.Sweep(func(particle *components.Particle) bool {
		if p.Add(&components.Particle{}) {
			t.Error("Add during sweep of a full pool should be refused")
		}
		return false
	})
	if p.Len() != 0 {
		t.Errorf("Len = %d, want 0", p.Len())
	}
}

func TestPool_ResetAndSetMax(t *testing.T) {
	p := New(5)
	for _, particle := range newParticles(5) {
		p.Add(particle)
	}
	if evicted := p.SetMax(2); evicted != 3 {
		t.Errorf("SetMax evicted %d, want 3", evicted)
	}
	if p.Len() != 2 {
		t.Fatalf("Len after lowering cap = %d, want 2", p.Len())
	}
	// 保留最新的粒子
	if got := p.Particles(); got[0].X != 3 || got[1].X != 4 {
		t.Errorf("kept X = %v, %v, want 3, 4", got[0].X, got[1].X)
	}
	if p.SetMax(10) != 0 || p.Len() != 2 {
		t.Error("raising the cap should keep every particle")
	}
	p.SetMax(2)
	if p.Add(&components.Particle{}) {
		t.Error("Add above lowered cap should be refused")
	}

	p.Reset()
	if p.Len() != 0 || p.Free() != 2 {
		t.Errorf("after Reset Len = %d Free = %d, want 0 and 2", p.Len(), p.Free())
	}
}

func BenchmarkPool_Sweep(b *testing.B) {
	p := New(1000)
	ps := newParticles(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Reset()
		for _, particle := range ps {
			p.Add(particle)
		}
		p.Sweep(func(particle *components.Particle) bool {
			return int(particle.X)%3 != 0
		})
	}
}
