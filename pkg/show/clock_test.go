package show

import (
	"math"
	"testing"
	"time"
)

func TestFrameClock_Advance(t *testing.T) {
	ms := func(v float64) time.Duration { return time.Duration(v * float64(time.Millisecond)) }

	tests := []struct {
		name  string
		steps []time.Duration
		want  []float64
	}{
		{"首帧为零", []time.Duration{ms(500)}, []float64{0}},
		{"标准帧", []time.Duration{0, ms(16.67), ms(33.34)}, []float64{0, 1, 1}},
		{"半帧", []time.Duration{0, ms(8.335)}, []float64{0, 0.5}},
		{"掉帧钳制", []time.Duration{0, ms(200)}, []float64{0, 2}},
		{"时间戳不变", []time.Duration{ms(10), ms(10)}, []float64{0, 0}},
		{"时间倒退后重新计时", []time.Duration{ms(100), ms(50), ms(66.67)}, []float64{0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFrameClock(16.67, 2)
			for i, now := range tt.steps {
				if got := c.Advance(now); math.Abs(got-tt.want[i]) > 1e-3 {
					t.Errorf("step %d Advance(%v) = %v, want %v", i, now, got, tt.want[i])
				}
			}
		})
	}
}

func TestFrameClock_ResetAndConfigure(t *testing.T) {
	c := NewFrameClock(0, 0) // 默认 60fps，不钳制
	c.Advance(0)
	if got := c.Advance(time.Second); math.Abs(got-60) > 1e-9 {
		t.Errorf("unclamped 1s = %v, want 60", got)
	}
	c.Reset()
	if got := c.Advance(2 * time.Second); got != 0 {
		t.Errorf("after Reset first Advance = %v, want 0", got)
	}
	c.Configure(10, 3)
	if got := c.Advance(2*time.Second + 20*time.Millisecond); math.Abs(got-2) > 1e-9 {
		t.Errorf("after Configure(10,3) 20ms = %v, want 2", got)
	}
}

func TestMonotonicClock(t *testing.T) {
	c := NewMonotonicClock()
	a := c.Now()
	b := c.Now()
	if a < 0 || b < a {
		t.Errorf("clock not monotonic: %v then %v", a, b)
	}
}

func TestTickerTimer(t *testing.T) {
	timer := NewTickerTimer()
	timer.Start(time.Millisecond)
	defer timer.Stop()

	select {
	case <-timer.C():
	case <-time.After(2 * time.Second):
		t.Fatal("ticker did not fire")
	}

	// 重启、重复停止都是安全的
	timer.Start(time.Hour)
	timer.Stop()
	timer.Stop()
	// 清掉可能残留的触发
	select {
	case <-timer.C():
	default:
	}
	select {
	case <-timer.C():
		t.Fatal("stopped timer fired")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestManualTimer(t *testing.T) {
	timer := NewManualTimer()
	if timer.Fire() {
		t.Fatal("stopped timer should not fire")
	}
	timer.Start(time.Second)
	if !timer.Fire() || timer.Fire() {
		t.Fatal("expected exactly one pending tick")
	}
	timer.Stop()
	select {
	case <-timer.C():
		t.Fatal("Stop should discard the pending tick")
	default:
	}
}
