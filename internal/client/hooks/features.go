package hooks

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/iudanet/gophboard/internal/client/cache"
)

// Фичи панели. Payload не интерпретируется.
const (
	FeatureWatchlist     = "watchlist"
	FeatureCommunityFeed = "community-feed"
	FeatureGoals         = "goals"
	FeatureCompanies     = "companies"
	FeatureProfile       = "profile"
)

var featureSpecs = map[string]Spec{
	FeatureWatchlist: {
		Feature:     FeatureWatchlist,
		Path:        "/api/watchlist",
		CacheKey:    cache.Watchlist,
		WaitTimeout: 10 * time.Second,
	},
	FeatureCommunityFeed: {
		Feature:     FeatureCommunityFeed,
		Path:        "/api/community/feed",
		CacheKey:    cache.CommunityFeed,
		WaitTimeout: 15 * time.Second,
	},
	FeatureGoals: {
		Feature:     FeatureGoals,
		Path:        "/api/goals",
		CacheKey:    cache.GoalsData,
		WaitTimeout: 5 * time.Second,
	},
	FeatureCompanies: {
		Feature:     FeatureCompanies,
		Path:        "/api/companies",
		CacheKey:    cache.CompaniesList,
		WaitTimeout: 10 * time.Second,
	},
	FeatureProfile: {
		Feature:     FeatureProfile,
		Path:        "/api/profile",
		CacheKey:    cache.ProfileData,
		WaitTimeout: 10 * time.Second,
	},
}

// Features returns feature names in stable order
func Features() []string {
	names := make([]string, 0, len(featureSpecs))
	for name := range featureSpecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupSpec returns the Spec of a named feature
func LookupSpec(name string) (Spec, error) {
	spec, ok := featureSpecs[name]
	if !ok {
		return Spec{}, fmt.Errorf("unknown feature %q (available: %v)", name, Features())
	}
	return spec, nil
}

// NewFeature creates a hook for a named feature with an opaque JSON payload
func NewFeature(deps Deps, name string, opts ...Option[json.RawMessage]) (*Hook[json.RawMessage], error) {
	spec, err := LookupSpec(name)
	if err != nil {
		return nil, err
	}
	return New[json.RawMessage](deps, spec, opts...), nil
}

// Watchlist creates the watchlist hook
func Watchlist(deps Deps, opts ...Option[json.RawMessage]) *Hook[json.RawMessage] {
	return New[json.RawMessage](deps, featureSpecs[FeatureWatchlist], opts...)
}

// CommunityFeed creates the community feed hook
func CommunityFeed(deps Deps, opts ...Option[json.RawMessage]) *Hook[json.RawMessage] {
	return New[json.RawMessage](deps, featureSpecs[FeatureCommunityFeed], opts...)
}

// Goals creates the goals hook
func Goals(deps Deps, opts ...Option[json.RawMessage]) *Hook[json.RawMessage] {
	return New[json.RawMessage](deps, featureSpecs[FeatureGoals], opts...)
}

// Companies creates the companies list hook
func Companies(deps Deps, opts ...Option[json.RawMessage]) *Hook[json.RawMessage] {
	return New[json.RawMessage](deps, featureSpecs[FeatureCompanies], opts...)
}

// Profile creates the profile hook
func Profile(deps Deps, opts ...Option[json.RawMessage]) *Hook[json.RawMessage] {
	return New[json.RawMessage](deps, featureSpecs[FeatureProfile], opts...)
}
