package emissions

import (
	"fmt"
	"strings"
)

// Reference emission factors in grams CO2e per kilogram of cargo per
// kilometre travelled. Long-haul modal averages in the style of the
// GLEC/DEFRA freight intensity tables: per-tonne-km gCO2e divided by 1000.
const (
	// DefaultAirFactor is the long-haul freighter average (255 gCO2e/t-km).
	DefaultAirFactor = 0.255

	// DefaultSeaFactor is the deep-sea container vessel average (11.2 gCO2e/t-km).
	DefaultSeaFactor = 0.0112

	// DefaultLandFactor is the heavy goods vehicle average (61.3 gCO2e/t-km).
	DefaultLandFactor = 0.0613

	// DefaultDistanceKM is the fallback route length used when a location
	// pair is absent from the distance table.
	DefaultDistanceKM = 5000.0
)

// routeKey is the canonical form of an unordered location pair.
// Locations are case-folded and sorted so that (a,b) and (b,a) produce the
// same key, which is what makes distance lookup symmetric.
type routeKey struct {
	lo, hi string
}

func newRouteKey(origin, destination string) routeKey {
	a := strings.ToLower(strings.TrimSpace(origin))
	b := strings.ToLower(strings.TrimSpace(destination))
	if a > b {
		a, b = b, a
	}
	return routeKey{lo: a, hi: b}
}

// RoutePair names an unordered location pair with its distance, used to
// seed a ReferenceTables.
type RoutePair struct {
	From string  `json:"from" yaml:"from"`
	To   string  `json:"to" yaml:"to"`
	KM   float64 `json:"km" yaml:"km"`
}

// ReferenceTables is the process-wide lookup state: per-mode emission
// factors, known route distances, and the fallback distance. Initialized
// once at startup and read-only afterwards, so it may be shared freely
// across concurrent calculations.
type ReferenceTables struct {
	factors         map[TransportMode]float64
	distances       map[routeKey]float64
	defaultDistance float64
}

// NewReferenceTables builds the immutable lookup tables.
//
// Every mode in AllModes() must have a non-negative factor; a missing or
// negative factor is a configuration error and fails construction. Route
// distances must be non-negative. A non-positive defaultKM is likewise
// rejected, since it silently backs every unknown route.
func NewReferenceTables(factors map[TransportMode]float64, routes []RoutePair, defaultKM float64) (*ReferenceTables, error) {
	if defaultKM <= 0 {
		return nil, fmt.Errorf("%w: default distance %v km", ErrNegativeDistance, defaultKM)
	}

	fs := make(map[TransportMode]float64, modeCount)
	for _, mode := range AllModes() {
		f, ok := factors[mode]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingFactor, mode)
		}
		if f < 0 {
			return nil, fmt.Errorf("%w: %s = %v", ErrNegativeFactor, mode, f)
		}
		fs[mode] = f
	}

	ds := make(map[routeKey]float64, len(routes))
	for _, rt := range routes {
		if rt.KM < 0 {
			return nil, fmt.Errorf("%w: %s-%s = %v km", ErrNegativeDistance, rt.From, rt.To, rt.KM)
		}
		ds[newRouteKey(rt.From, rt.To)] = rt.KM
	}

	return &ReferenceTables{
		factors:         fs,
		distances:       ds,
		defaultDistance: defaultKM,
	}, nil
}

// DefaultTables returns the built-in reference configuration: the modal
// factor averages above and a seed set of intercontinental route distances.
func DefaultTables() *ReferenceTables {
	tables, err := NewReferenceTables(
		map[TransportMode]float64{
			ModeAir:  DefaultAirFactor,
			ModeSea:  DefaultSeaFactor,
			ModeLand: DefaultLandFactor,
		},
		DefaultRoutes(),
		DefaultDistanceKM,
	)
	if err != nil {
		// The built-in configuration is a compile-time constant set; it
		// cannot fail validation.
		panic(fmt.Sprintf("built-in reference tables invalid: %v", err))
	}
	return tables
}

// DefaultRoutes returns the seed route-distance pairs used by DefaultTables.
func DefaultRoutes() []RoutePair {
	return []RoutePair{
		{From: "shanghai", To: "rotterdam", KM: 12000},
		{From: "frankfurt", To: "memphis", KM: 10800},
		{From: "warsaw", To: "lyon", KM: 880},
		{From: "singapore", To: "hamburg", KM: 11500},
		{From: "shenzhen", To: "los angeles", KM: 11600},
		{From: "mumbai", To: "felixstowe", KM: 9800},
		{From: "hong kong", To: "anchorage", KM: 8100},
		{From: "madrid", To: "gdansk", KM: 2300},
		{From: "milan", To: "rotterdam", KM: 1100},
		{From: "prague", To: "barcelona", KM: 1700},
	}
}

// Factor returns the emission factor for a mode in grams CO2e per kg per km.
// Returns ErrUnknownMode when the mode has no entry; callers treat that as
// fatal configuration drift, not as something to default around.
func (t *ReferenceTables) Factor(mode TransportMode) (float64, error) {
	f, ok := t.factors[mode]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}
	return f, nil
}

// Distance returns the route length in km for an unordered location pair.
// The lookup is symmetric: Distance(a, b) == Distance(b, a). When the pair
// is absent the fallback default distance is returned with exact=false, so
// callers can surface the miss without this package logging anything.
func (t *ReferenceTables) Distance(origin, destination string) (km float64, exact bool) {
	if d, ok := t.distances[newRouteKey(origin, destination)]; ok {
		return d, true
	}
	return t.defaultDistance, false
}

// DefaultDistance returns the fallback route length in km.
func (t *ReferenceTables) DefaultDistance() float64 {
	return t.defaultDistance
}

// LowestFactorMode returns the mode with the global minimum emission
// factor. Ties resolve to the earliest mode in AllModes() order. This is
// the single "best" mode blanket optimization applies uniformly.
func (t *ReferenceTables) LowestFactorMode() TransportMode {
	best := ModeAir
	bestFactor, _ := t.Factor(best)
	for _, mode := range AllModes()[1:] {
		f, _ := t.Factor(mode)
		if f < bestFactor {
			best, bestFactor = mode, f
		}
	}
	return best
}

// Modes returns the modes priced by the factor table in canonical order.
func (t *ReferenceTables) Modes() []TransportMode {
	return AllModes()
}
