package show

import (
	"sync"
	"time"
)

// RepeatingTimer 发射定时器
//
// C() 返回的通道最多缓存一次触发：宿主循环来不及处理的多次触发会合并，
// 避免卡顿恢复后集中发射。
type RepeatingTimer interface {
	Start(interval time.Duration)
	Stop()
	C() <-chan struct{}
}

// TickerTimer 基于 time.Ticker 的定时器，触发在独立 goroutine 中投递
type TickerTimer struct {
	mu   sync.Mutex
	c    chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewTickerTimer 创建未启动的定时器
func NewTickerTimer() *TickerTimer {
	return &TickerTimer{c: make(chan struct{}, 1)}
}

// Start 启动定时器；已在运行时按新间隔重启
func (t *TickerTimer) Start(interval time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	if interval <= 0 {
		return
	}

	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(interval, t.stop, t.done)
}

func (t *TickerTimer) run(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case t.c <- struct{}{}:
			default:
			}
		}
	}
}

// Stop 停止定时器并等待 goroutine 退出；可重复调用
func (t *TickerTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *TickerTimer) stopLocked() {
	if t.stop == nil {
		return
	}
	close(t.stop)
	<-t.done
	t.stop, t.done = nil, nil
}

// C 实现 RepeatingTimer
func (t *TickerTimer) C() <-chan struct{} { return t.c }

// ManualTimer 手动触发的定时器（测试和单步调试用）
type ManualTimer struct {
	c        chan struct{}
	running  bool
	interval time.Duration
}

// NewManualTimer 创建未启动的手动定时器
func NewManualTimer() *ManualTimer {
	return &ManualTimer{c: make(chan struct{}, 1)}
}

// Start 实现 RepeatingTimer
func (t *ManualTimer) Start(interval time.Duration) {
	t.running = true
	t.interval = interval
}

// Stop 实现 RepeatingTimer，同时丢弃未处理的触发
func (t *ManualTimer) Stop() {
	t.running = false
	select {
	case <-t.c:
	default:
	}
}

// C 实现 RepeatingTimer
func (t *ManualTimer) C() <-chan struct{} { return t.c }

// Fire 投递一次触发；未启动或已有未处理触发时返回 false
func (t *ManualTimer) Fire() bool {
	if !t.running {
		return false
	}
	select {
	case t.c <- struct{}{}:
		return true
	default:
		return false
	}
}

// Running 是否已启动
func (t *ManualTimer) Running() bool { return t.running }

// Interval 最近一次 Start 的间隔
func (t *ManualTimer) Interval() time.Duration { return t.interval }
