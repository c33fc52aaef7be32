package config

import (
	"time"

	"github.com/spf13/viper"
)

// CacheConfig controls the response cache in front of the public catalog.
// Only GET responses with status 200 are stored.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	KeyStrategy  string // path | path_query
	Prefix       string
	MaxBodyBytes int
}

func loadCache(v *viper.Viper) CacheConfig {
	cc := CacheConfig{
		Enabled:      v.GetBool("CACHE_ENABLED"),
		TTL:          v.GetDuration("CACHE_TTL"),
		KeyStrategy:  v.GetString("CACHE_KEY_STRATEGY"),
		Prefix:       v.GetString("CACHE_PREFIX"),
		MaxBodyBytes: v.GetInt("CACHE_MAX_BODY_BYTES"),
	}
	if cc.TTL <= 0 {
		cc.TTL = 30 * time.Second
	}
	return cc
}
