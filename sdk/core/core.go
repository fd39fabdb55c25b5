// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package core 提供可重現的亂數核心，用於隨機化的性質檢驗（property sweep）。
//
// 合約：同一個實作與版本下，相同 seed 必須產生相同的輸出序列，
// 如此 sweep 中任何違反不變式的案例都可以靠 Snapshot 回放。
package core

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	Snapshot() ([]byte, error)
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
type RAND interface {
	// Uint64 回傳 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數（53-bit 精度）。
	Float64() float64
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以 seed 建立 PRNG；New(seed) 必須是決定性的。
type PRNGFactory interface {
	New(int64) PRNG
}

// DefaultPRNG 是預設工廠（PCG64）。
type DefaultPRNG struct{}

func (d *DefaultPRNG) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// Core 封裝 PRNG，並提供 sweep 常用的取樣方法。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// NewDefault 以預設 PCG64 與 seed 建立 Core。
func NewDefault(seed int64) *Core {
	return New(Default().New(seed))
}

// Uniform 回傳 [lo,hi) 的均勻亂數；hi <= lo 時回傳 lo。
func (c *Core) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + (hi-lo)*c.Float64()
}

// IntRange 回傳 [lo,hi] 的整數亂數；hi < lo 時回傳 lo。
func (c *Core) IntRange(lo, hi int) int {
	if hi < lo {
		return lo
	}
	return lo + c.IntN(hi-lo+1)
}

// Fill 以 [lo,hi) 的均勻亂數填滿 dst。
func (c *Core) Fill(dst []float64, lo, hi float64) {
	for i := range dst {
		dst[i] = c.Uniform(lo, hi)
	}
}
