package show

import (
	"math"
	"time"
)

// MonotonicClock 以创建时刻为零点的单调时钟
// 宿主循环用 Now() 的返回值驱动 Show.Frame
type MonotonicClock struct {
	start time.Time
}

// NewMonotonicClock 创建从零开始计时的时钟
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

// Now 自创建以来经过的时间（使用 time.Time 的单调读数）
func (c *MonotonicClock) Now() time.Duration {
	return time.Since(c.start)
}

// FrameClock 把帧时间戳换算为相对基准帧的时间比例
//
//	timeScale = min(elapsed / targetFrame, maxScale)
//
// 第一帧和时间戳不递增的帧返回 0。
type FrameClock struct {
	targetFrame float64 // 毫秒
	maxScale    float64

	last    time.Duration
	started bool
}

// NewFrameClock 创建帧时钟；targetFrameMs <= 0 时按 60fps
func NewFrameClock(targetFrameMs, maxScale float64) *FrameClock {
	c := &FrameClock{}
	c.Configure(targetFrameMs, maxScale)
	return c
}

// Configure 修改基准帧时长和时间比例上限
func (c *FrameClock) Configure(targetFrameMs, maxScale float64) {
	if targetFrameMs <= 0 {
		targetFrameMs = 1000.0 / 60
	}
	if maxScale <= 0 {
		maxScale = math.Inf(1)
	}
	c.targetFrame = targetFrameMs
	c.maxScale = maxScale
}

// Advance 记录本帧时间戳并返回时间比例
func (c *FrameClock) Advance(now time.Duration) float64 {
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	elapsed := now - c.last
	c.last = now
	if elapsed <= 0 {
		return 0
	}
	ms := float64(elapsed) / float64(time.Millisecond)
	return math.Min(ms/c.targetFrame, c.maxScale)
}

// Reset 下一次 Advance 视为第一帧
func (c *FrameClock) Reset() {
	c.started = false
	c.last = 0
}
