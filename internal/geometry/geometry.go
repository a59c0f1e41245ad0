// Package geometry implements the spatial test that decides whether a
// detected object sits at the expected anchor region of the subject.
package geometry

import "math"

// Region is an axis-aligned bounding box in image pixel coordinates.
type Region struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Area returns the region's area. Degenerate regions report zero.
func (r Region) Area() float64 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Center returns the region's center point.
func (r Region) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// expand scales a region by factor about its center.
func expand(r Region, factor float64) Region {
	cx, cy := r.Center()
	w := r.W * factor
	h := r.H * factor
	return Region{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// intersectionArea returns the overlap area of two regions, zero if disjoint.
func intersectionArea(a, b Region) float64 {
	left := math.Max(a.X, b.X)
	top := math.Max(a.Y, b.Y)
	right := math.Min(a.X+a.W, b.X+b.W)
	bottom := math.Min(a.Y+a.H, b.Y+b.H)
	if right <= left || bottom <= top {
		return 0
	}
	return (right - left) * (bottom - top)
}

const (
	anchorExpansion = 1.5
	minOverlapRatio = 0.1
)

// overlapRatio is the share of the candidate covered by the expanded anchor.
func overlapRatio(candidate, anchor Region) float64 {
	area := candidate.Area()
	if area == 0 {
		return 0
	}
	return intersectionArea(candidate, expand(anchor, anchorExpansion)) / area
}

// IsAtTarget reports whether the candidate region is positioned at the
// anchor. The anchor is expanded about its center before the overlap check;
// disjoint candidates get a center-distance fallback scaled by the anchor
// size.
func IsAtTarget(candidate, anchor Region) bool {
	if ratio := overlapRatio(candidate, anchor); ratio > 0 {
		return ratio >= minOverlapRatio
	}

	cx, cy := candidate.Center()
	ax, ay := anchor.Center()
	return math.Abs(cy-ay) < 2*anchor.H && math.Abs(cx-ax) < 1.5*anchor.W
}

// Confidence scores the spatial match in [0,1]. Overlapping candidates score
// by coverage, disjoint ones decay with center distance.
func Confidence(candidate, anchor Region) float64 {
	if ratio := overlapRatio(candidate, anchor); ratio > 0 {
		return math.Min(1, ratio*2)
	}

	cx, cy := candidate.Center()
	ax, ay := anchor.Center()
	dist := math.Hypot(cx-ax, cy-ay)
	return math.Max(0, 1-dist/(3*anchor.W))
}
