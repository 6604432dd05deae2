// Package jitter добавляет случайность в интервалы повторов,
// чтобы клиенты не повторяли запросы к внешним сервисам синхронно.
package jitter

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

var (
	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMutex  sync.Mutex
)

// Policy описывает экспоненциальную задержку с джиттером.
type Policy struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
	rng    *rand.Rand
}

func NewPolicy(base, max time.Duration, factor float64) Policy {
	return Policy{Base: base, Max: max, Factor: factor}
}

// WithRand возвращает копию политики с детерминированным генератором (для тестов).
func (p Policy) WithRand(rng *rand.Rand) Policy {
	p.rng = rng
	return p
}

// Delay возвращает задержку перед попыткой attempt (нумерация с нуля).
func (p Policy) Delay(attempt int) time.Duration {
	backoff := capped(p.Base, p.Max, attempt)
	if p.rng != nil {
		return DurationWithSeed(backoff, p.Factor, p.rng)
	}

	return Duration(backoff, p.Factor)
}

// Duration возвращает продолжительность в диапазоне [d, d*(1+jitterFactor)].
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	randMutex.Lock()
	jitter := globalRand.Float64() * jitterFactor * float64(d)
	randMutex.Unlock()
	return d + time.Duration(jitter)
}

// DurationWithSeed аналогичен Duration, но использует переданный генератор.
func DurationWithSeed(d time.Duration, jitterFactor float64, rng *rand.Rand) time.Duration {
	return d + time.Duration(rng.Float64()*jitterFactor*float64(d))
}

// ExponentialBackoff вычисляет base*2^attempt, ограниченное max, и добавляет джиттер.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	return Duration(capped(base, max, attempt), jitterFactor)
}

func capped(base, max time.Duration, attempt int) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if max > 0 && backoff > max {
			return max
		}
	}

	return backoff
}
