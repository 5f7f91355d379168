// Package geofence classifies city-frame points as inside or outside a
// geographic region.
//
// A Classifier owns its projection cache and is not safe for concurrent use.
// Parallel callers should construct one Classifier per worker.
package geofence

import (
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/rotblauer/av2kml/projection"
	"github.com/rotblauer/av2kml/types"
)

// DefaultConfidenceThreshold is the exclusive lower bound on the share of
// sampled points that must classify inside for a collection to count.
const DefaultConfidenceThreshold = 0.5

// Container is a point-in-polygon primitive on (lon, lat) pairs.
type Container interface {
	Contains(ring orb.Ring, pt orb.Point) bool
}

// ContainerFunc adapts a function to a Container.
type ContainerFunc func(ring orb.Ring, pt orb.Point) bool

func (f ContainerFunc) Contains(ring orb.Ring, pt orb.Point) bool {
	return f(ring, pt)
}

// PlanarContainer uses orb/planar, which counts points on the ring as inside.
var PlanarContainer = ContainerFunc(planar.RingContains)

type Classifier struct {
	region    Region
	projector projection.Provider
	container Container
	logger    *slog.Logger

	degenerateThreshold float64
	confidenceThreshold float64

	cache map[[2]float64]types.GeoPoint
}

type Option func(c *Classifier)

func WithProjector(p projection.Provider) Option {
	return func(c *Classifier) { c.projector = p }
}

func WithContainer(ct Container) Option {
	return func(c *Classifier) { c.container = ct }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) { c.logger = l }
}

func WithDegenerateThreshold(v float64) Option {
	return func(c *Classifier) { c.degenerateThreshold = v }
}

func WithConfidenceThreshold(v float64) Option {
	return func(c *Classifier) { c.confidenceThreshold = v }
}

// New returns a Classifier with an empty cache.
// Defaults are the UTM projection, orb/planar containment and slog.Default.
func New(region Region, opts ...Option) *Classifier {
	c := &Classifier{
		region:              region,
		projector:           projection.UTM{},
		container:           PlanarContainer,
		degenerateThreshold: projection.DefaultDegenerateThreshold,
		confidenceThreshold: DefaultConfidenceThreshold,
		cache:               make(map[[2]float64]types.GeoPoint),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

func (c *Classifier) Region() Region {
	return c.region
}

// CacheLen returns the number of memoized projections.
func (c *Classifier) CacheLen() int {
	return len(c.cache)
}

// Project returns the WGS84 location of p, or false when the location is unknown.
// Provider errors are logged and swallowed. Results within the degenerate
// threshold of zero on either axis are treated as unknown and not cached.
func (c *Classifier) Project(p types.PlanarPoint) (types.GeoPoint, bool) {
	key := p.Key()
	if g, ok := c.cache[key]; ok {
		return g, true
	}
	lat, lon, err := c.projector.ToWGS84(p.X, p.Y, c.region.City)
	if err != nil {
		c.logger.Warn("Projection failed", "x", p.X, "y", p.Y, "city", c.region.City, "error", err)
		return types.GeoPoint{}, false
	}
	if !projection.Usable(lat, lon, c.degenerateThreshold) {
		return types.GeoPoint{}, false
	}
	g := types.GeoPoint{Lat: lat, Lon: lon}
	c.cache[key] = g
	return g, true
}

// ToWGS84 returns p as (lon, lat, alt), alt being the untouched Z.
func (c *Classifier) ToWGS84(p types.PlanarPoint) (lon, lat, alt float64, ok bool) {
	g, ok := c.Project(p)
	if !ok {
		return 0, 0, p.Z, false
	}
	return g.Lon, g.Lat, p.Z, true
}

func (c *Classifier) ContainsByPolygon(p types.PlanarPoint) bool {
	g, ok := c.Project(p)
	if !ok {
		return false
	}
	return c.container.Contains(c.region.Boundary, g.Orb())
}

// ContainsByCoordinateRange never projects.
func (c *Classifier) ContainsByCoordinateRange(p types.PlanarPoint) bool {
	return c.region.inLocalBounds(p)
}

func (c *Classifier) ContainsByBroadGeoBounds(p types.PlanarPoint) bool {
	g, ok := c.Project(p)
	if !ok {
		return false
	}
	return c.region.inBroadBounds(g)
}

func (c *Classifier) Classify(p types.PlanarPoint, m Method) bool {
	switch m {
	case Auto:
		if !c.ContainsByBroadGeoBounds(p) {
			return false
		}
		return c.ContainsByPolygon(p)
	case Polygon:
		return c.ContainsByPolygon(p)
	case Range:
		return c.ContainsByCoordinateRange(p)
	case Broad:
		return c.ContainsByBroadGeoBounds(p)
	default:
		panic(fmt.Sprintf("geofence: unhandled method %v", m))
	}
}

// DetectionResult records every heuristic for one point.
type DetectionResult struct {
	Point types.PlanarPoint `json:"point"`

	// Geo is nil when projection failed.
	Geo *types.GeoPoint `json:"geo"`

	ByRange   bool `json:"by_range"`
	ByPolygon bool `json:"by_polygon"`
	ByBroad   bool `json:"by_broad"`

	// Verdict is the Auto composite.
	Verdict bool `json:"verdict"`
}

// Explain evaluates all heuristics without short-circuiting.
func (c *Classifier) Explain(p types.PlanarPoint) DetectionResult {
	res := DetectionResult{Point: p}
	if g, ok := c.Project(p); ok {
		res.Geo = &g
		res.ByPolygon = c.container.Contains(c.region.Boundary, g.Orb())
		res.ByBroad = c.region.inBroadBounds(g)
	}
	res.ByRange = c.region.inLocalBounds(p)
	res.Verdict = res.ByBroad && res.ByPolygon
	return res
}

// ClassifyCollection classifies up to sampleLimit points in the given order
// and decides for the whole collection. A negative limit samples every point.
func (c *Classifier) ClassifyCollection(points []types.PlanarPoint, sampleLimit int) (isRegion bool, confidence float64) {
	n := len(points)
	if sampleLimit >= 0 && sampleLimit < n {
		n = sampleLimit
	}
	if n == 0 {
		return false, 0
	}
	inside := 0
	for _, p := range points[:n] {
		if c.Classify(p, Auto) {
			inside++
		}
	}
	confidence = float64(inside) / float64(n)
	return confidence > c.confidenceThreshold, confidence
}

// Sampler is anything that can offer representative points, like a map archive.
type Sampler interface {
	SamplePoints() []types.PlanarPoint
}

type Analysis struct {
	IsRegion   bool
	Confidence float64
	Sampled    int
}

// Analyze decides whether a sampled collection belongs to the region.
func (c *Classifier) Analyze(s Sampler, sampleLimit int) Analysis {
	points := s.SamplePoints()
	sampled := len(points)
	if sampleLimit >= 0 && sampleLimit < sampled {
		sampled = sampleLimit
	}
	isRegion, confidence := c.ClassifyCollection(points, sampleLimit)
	return Analysis{IsRegion: isRegion, Confidence: confidence, Sampled: sampled}
}
