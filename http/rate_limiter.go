package http

import (
	"sync"
	"time"
)

const (
	bucketCleanupThreshold = 1 * time.Hour
	cleanupInterval        = 30 * time.Minute
)

// Costo en tokens de cada ruta, según cuántas veces ejecuta el motor
const (
	costLookup      = 1 // validación, snapshots, amortización
	costCalculation = 1
	costUnlevered   = 2 // apalancado + sin deuda
	costSensitivity = 4 // caso base + tres tablas
	costHoldPeriod  = 4 // un cálculo por año del rango
)

type clientBucket struct {
	tokens      int
	windowStart time.Time
	lastSeen    time.Time
}

// RateLimiter is a per-client token budget that resets every window.
// Routes spend different amounts depending on how much engine work they do.
type RateLimiter struct {
	mu          sync.Mutex
	budget      int
	window      time.Duration
	buckets     map[string]*clientBucket
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

func NewRateLimiter(budget int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		budget:      max(budget, 1),
		window:      window,
		buckets:     make(map[string]*clientBucket),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evictIdle()
		case <-r.stopCleanup:
			return
		}
	}
}

// evictIdle elimina los clientes sin actividad reciente
func (r *RateLimiter) evictIdle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-bucketCleanupThreshold)
	for client, b := range r.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(r.buckets, client)
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCleanup) })
}

// Allow spends cost tokens from the client's budget. A cost above the whole
// budget is charged as the whole budget so expensive routes stay reachable.
// When the budget cannot cover the cost it returns false and the time left
// in the current window.
func (r *RateLimiter) Allow(client string, cost int) (bool, time.Duration) {
	cost = min(max(cost, 1), r.budget)

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	b, ok := r.buckets[client]
	if !ok || now.Sub(b.windowStart) >= r.window {
		if !ok {
			b = &clientBucket{}
			r.buckets[client] = b
		}
		b.tokens = r.budget
		b.windowStart = now
	}
	b.lastSeen = now

	if b.tokens < cost {
		return false, b.windowStart.Add(r.window).Sub(now)
	}
	b.tokens -= cost
	return true, 0
}

func (r *RateLimiter) clientCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buckets)
}
