// Package jitter добавляет случайность в интервалы повторных попыток,
// чтобы переподключения воркеров не происходили одновременно.
package jitter

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter: стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

var (
	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMutex  sync.Mutex
)

// Duration возвращает продолжительность в диапазоне [d, d*(1+jitterFactor)].
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	randMutex.Lock()
	f := globalRand.Float64()
	randMutex.Unlock()

	return d + time.Duration(f*jitterFactor*float64(d))
}

// ExponentialBackoff удваивает base на каждую попытку (нумерация с нуля), не превышая max, и добавляет джиттер.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff >= max {
			backoff = max
			break
		}
	}

	return Duration(backoff, jitterFactor)
}
