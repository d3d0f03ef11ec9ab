// Package pool 提供有上限的存活粒子集合
//
// 所有插入都经过 Add，达到上限时静默拒绝；
// Sweep 在一次遍历中完成更新与原地压缩，不分配新切片。
package pool

import (
	"github.com/decker502/fireworks/pkg/components"
)

// Pool 存活粒子集合（插入顺序即绘制顺序）
type Pool struct {
	particles []*components.Particle
	max       int
}

// New 创建容量上限为 max 的粒子池
func New(max int) *Pool {
	if max < 0 {
		max = 0
	}
	return &Pool{
		particles: make([]*components.Particle, 0, max),
		max:       max,
	}
}

// Len 当前粒子数
func (p *Pool) Len() int { return len(p.particles) }

// Cap 粒子数上限
func (p *Pool) Cap() int { return p.max }

// Full 是否已达上限
func (p *Pool) Full() bool { return len(p.particles) >= p.max }

// Free 剩余可插入数量
func (p *Pool) Free() int {
	if n := p.max - len(p.particles); n > 0 {
		return n
	}
	return 0
}

// Add 插入一个粒子；达到上限时返回 false 且不做任何修改
func (p *Pool) Add(particle *components.Particle) bool {
	if particle == nil || len(p.particles) >= p.max {
		return false
	}
	p.particles = append(p.particles, particle)
	return true
}

// Particles 返回存活粒子的只读视图（下一次修改前有效）
func (p *Pool) Particles() []*components.Particle {
	return p.particles
}

// Sweep 对每个存活粒子调用 update，保留返回 true 的粒子并原地压缩
//
// update 期间通过 Add 追加的粒子（火花、余烬）会被保留，但本轮不更新。
// 返回本轮移除的粒子数。
func (p *Pool) Sweep(update func(*components.Particle) bool) int {
	n := len(p.particles)
	write := 0
	for read := 0; read < n; read++ {
		// 按下标取值：update 内的 Add 可能使底层数组重新分配
		particle := p.particles[read]
		if update(particle) {
			p.particles[write] = particle
			write++
		}
	}

	removed := n - write
	if removed > 0 {
		// 本轮追加的粒子前移到压缩后的尾部
		appended := copy(p.particles[write:], p.particles[n:])
		end := write + appended
		for i := end; i < len(p.particles); i++ {
			p.particles[i] = nil
		}
		p.particles = p.particles[:end]
	}
	return removed
}

// Reset 清空所有粒子
func (p *Pool) Reset() {
	for i := range p.particles {
		p.particles[i] = nil
	}
	p.particles = p.particles[:0]
}

// SetMax 修改上限；超出新上限的最旧粒子立即移除，返回移除数
func (p *Pool) SetMax(max int) int {
	if max < 0 {
		max = 0
	}
	p.max = max
	excess := len(p.particles) - max
	if excess <= 0 {
		return 0
	}
	n := copy(p.particles, p.particles[excess:])
	for i := n; i < len(p.particles); i++ {
		p.particles[i] = nil
	}
	p.particles = p.particles[:n]
	return excess
}
