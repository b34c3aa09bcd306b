package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/chulcheck/chulcheck/utils"
)

const limiterIdleTTL = 5 * time.Minute

type callerLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// RateLimiter applies a token bucket per caller. The key is the
// authenticated bot identity when present, the client IP otherwise.
type RateLimiter struct {
	perMinute int

	mu       sync.Mutex
	limiters map[string]*callerLimiter
}

func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &RateLimiter{
		perMinute: perMinute,
		limiters:  map[string]*callerLimiter{},
	}
}

// Handler is the gin middleware entry point.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	limit := rate.Every(time.Minute / time.Duration(rl.perMinute))
	burst := rl.perMinute / 2
	if burst < 1 {
		burst = 1
	}

	return func(ctx *gin.Context) {
		key := ctx.GetString(ContextBotIDKey)
		if key == "" {
			key = ctx.ClientIP()
		}
		if !rl.get(key, limit, burst).Allow() {
			utils.Error(ctx, 429, 42901, "rate limit exceeded")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func (rl *RateLimiter) get(key string, limit rate.Limit, burst int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for k, cl := range rl.limiters {
		if now.After(cl.expires) {
			delete(rl.limiters, k)
		}
	}

	if cl, ok := rl.limiters[key]; ok {
		cl.expires = now.Add(limiterIdleTTL)
		return cl.limiter
	}
	cl := &callerLimiter{
		limiter: rate.NewLimiter(limit, burst),
		expires: now.Add(limiterIdleTTL),
	}
	rl.limiters[key] = cl
	return cl.limiter
}
