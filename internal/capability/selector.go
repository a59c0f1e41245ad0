package capability

import (
	"context"

	"routine-guard/internal/geometry"
)

// Selector routes detector queries by capture shape: inline detections go to
// the static provider, image references go to the remote one.
type Selector struct {
	static Provider
	remote Provider
}

// NewSelector creates a capture-aware provider selector.
func NewSelector(static *StaticProvider, remote *HTTPProvider) *Selector {
	return &Selector{static: static, remote: remote}
}

func (s *Selector) pick(capture *Capture) Provider {
	if capture.Inline != nil {
		return s.static
	}
	return s.remote
}

func (s *Selector) DetectPrimarySubject(ctx context.Context, capture *Capture) (*Detection, error) {
	return s.pick(capture).DetectPrimarySubject(ctx, capture)
}

func (s *Selector) DetectAllSubjects(ctx context.Context, capture *Capture) ([]geometry.Region, error) {
	return s.pick(capture).DetectAllSubjects(ctx, capture)
}

func (s *Selector) ResolveAnchorRegion(ctx context.Context, capture *Capture, subject geometry.Region) (*geometry.Region, error) {
	return s.pick(capture).ResolveAnchorRegion(ctx, capture, subject)
}

func (s *Selector) DetectTargetObject(ctx context.Context, capture *Capture) (*Detection, error) {
	return s.pick(capture).DetectTargetObject(ctx, capture)
}
