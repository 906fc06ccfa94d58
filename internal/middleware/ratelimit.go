package middleware

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/dermtrack/dermtrack/internal/request"
)

const defaultRatelimitRate = "60-M"

// RateLimit returns middleware backed by ulule/limiter with a Redis store.
// The rate uses limiter's formatted syntax (e.g. "60-M" for 60 requests per
// minute) and requests are keyed by client IP.
func RateLimit(redisClient *redis.Client, rate string) (func(http.Handler) http.Handler, error) {
	if rate == "" {
		rate = defaultRatelimitRate
	}
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	store, err := redisstore.NewStore(redisClient)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(store, parsed)
	keyGetter := func(r *http.Request) string {
		return request.ClientIP(r)
	}
	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(keyGetter))
	return mw.Handler, nil
}
