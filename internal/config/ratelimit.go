package config

import "time"

// RateLimit configures the Redis token bucket in front of the login and
// register forms.
//
//	Capacity       – bucket size (burst).
//	RefillTokens   – tokens added each RefillInterval.
//	TTL            – idle lifetime of a bucket key.
//	KeyStrategy    – ip, ip_route or ip_user_route.
//	Prefix         – Redis key namespace.
type RateLimit struct {
	Enabled        bool          `env:"ENABLED" envDefault:"true"`
	Capacity       int           `env:"CAPACITY" envDefault:"10"`
	RefillTokens   int           `env:"REFILL_TOKENS" envDefault:"1"`
	RefillInterval time.Duration `env:"REFILL_INTERVAL" envDefault:"6s"`
	TTL            time.Duration `env:"TTL" envDefault:"10m"`
	KeyStrategy    string        `env:"KEY_STRATEGY" envDefault:"ip_route"`
	Prefix         string        `env:"PREFIX" envDefault:"rl"`
	Debug          bool          `env:"DEBUG" envDefault:"false"`
}

// normalize clamps nonsensical values so the Lua script never divides by
// zero and buckets outlive a few refill periods.
func (r RateLimit) normalize() RateLimit {
	if r.Capacity < 1 {
		r.Capacity = 1
	}
	if r.RefillTokens < 1 {
		r.RefillTokens = 1
	}
	if r.RefillInterval <= 0 {
		r.RefillInterval = time.Second
	}
	if minTTL := 5 * r.RefillInterval; r.TTL < minTTL {
		r.TTL = minTTL
	}
	if r.Prefix == "" {
		r.Prefix = "rl"
	}
	return r
}
