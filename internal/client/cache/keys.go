package cache

import (
	"fmt"
	"time"
)

// Key is one of the fixed cache identifiers
type Key string

// Ключи кэша - закрытый набор по фичам
const (
	ProfileData   Key = "PROFILE_DATA"
	CommunityFeed Key = "COMMUNITY_FEED"
	GoalsData     Key = "GOALS_DATA"
	Watchlist     Key = "WATCHLIST"
	CompaniesList Key = "COMPANIES_LIST"
)

// TTL по умолчанию. Это допуск устаревания UI, а не корректность данных.
const (
	ProfileDataTTL   = 5 * time.Minute
	CommunityFeedTTL = 2 * time.Minute
	GoalsDataTTL     = 5 * time.Minute
	WatchlistTTL     = 3 * time.Minute
	CompaniesListTTL = 10 * time.Minute
)

// Keys returns all known cache keys
func Keys() []Key {
	return []Key{ProfileData, CommunityFeed, GoalsData, Watchlist, CompaniesList}
}

// ParseKey converts a string into a known Key
func ParseKey(s string) (Key, error) {
	for _, k := range Keys() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// Policy maps each key to its TTL. It is built once and shared by all call sites.
type Policy map[Key]time.Duration

// DefaultPolicy returns TTLs from the constants above
func DefaultPolicy() Policy {
	return Policy{
		ProfileData:   ProfileDataTTL,
		CommunityFeed: CommunityFeedTTL,
		GoalsData:     GoalsDataTTL,
		Watchlist:     WatchlistTTL,
		CompaniesList: CompaniesListTTL,
	}
}

// WithOverrides returns a copy of the policy with TTLs replaced for known keys
func (p Policy) WithOverrides(overrides map[string]time.Duration) (Policy, error) {
	out := make(Policy, len(p))
	for k, v := range p {
		out[k] = v
	}

	for name, ttl := range overrides {
		key, err := ParseKey(name)
		if err != nil {
			return nil, err
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("ttl for %s must be positive, got %s", key, ttl)
		}
		out[key] = ttl
	}

	return out, nil
}

// TTL returns ttl of the key and whether the key is known
func (p Policy) TTL(key Key) (time.Duration, bool) {
	ttl, ok := p[key]
	return ttl, ok
}
