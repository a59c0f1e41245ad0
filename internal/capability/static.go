package capability

import (
	"context"

	"routine-guard/internal/geometry"
)

// StaticProvider answers detector queries from the detections embedded in the
// capture payload. Used when the client runs inference on-device and only
// needs the decision logic server-side.
type StaticProvider struct{}

// NewStaticProvider creates a provider backed by inline capture detections.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

func (p *StaticProvider) DetectPrimarySubject(ctx context.Context, capture *Capture) (*Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if capture.Inline == nil || capture.Inline.Subject == nil {
		return nil, nil
	}
	d := *capture.Inline.Subject
	return &d, nil
}

func (p *StaticProvider) DetectAllSubjects(ctx context.Context, capture *Capture) ([]geometry.Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if capture.Inline == nil {
		return nil, nil
	}
	return capture.Inline.Subjects, nil
}

func (p *StaticProvider) ResolveAnchorRegion(ctx context.Context, capture *Capture, subject geometry.Region) (*geometry.Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if capture.Inline == nil || capture.Inline.Anchor == nil {
		return nil, nil
	}
	r := *capture.Inline.Anchor
	return &r, nil
}

func (p *StaticProvider) DetectTargetObject(ctx context.Context, capture *Capture) (*Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if capture.Inline == nil || capture.Inline.Object == nil {
		return nil, nil
	}
	d := *capture.Inline.Object
	return &d, nil
}
