// Package capability defines the perceptual collaborators the verification
// pipeline depends on. The service never runs inference itself: detections
// come either inline with the capture or from an external detector endpoint.
package capability

import (
	"context"

	"routine-guard/internal/geometry"
	"routine-guard/internal/types"
)

// Detection is a detector hit: a bounding region plus the provider's
// confidence in [0,1].
type Detection struct {
	Region     geometry.Region `json:"region"`
	Confidence float64         `json:"confidence"`
}

// InlineDetections carries precomputed detections inside a capture payload,
// for callers that run inference on-device.
type InlineDetections struct {
	Subject  *Detection        `json:"subject,omitempty"`
	Subjects []geometry.Region `json:"subjects,omitempty"`
	Object   *Detection        `json:"object,omitempty"`
	Anchor   *geometry.Region  `json:"anchor,omitempty"`
}

// Capture is one verification attempt's input. Exactly one of Inline or
// ImageRef should be populated: inline detections select the static provider,
// an image reference selects the HTTP provider.
type Capture struct {
	ImageRef    string            `json:"image_ref,omitempty"`
	ImageWidth  float64           `json:"image_width"`
	ImageHeight float64           `json:"image_height"`
	Inline      *InlineDetections `json:"detections,omitempty"`
}

// ImageArea returns the capture's pixel area, or 0 when dimensions are unset.
func (c *Capture) ImageArea() float64 {
	if c.ImageWidth <= 0 || c.ImageHeight <= 0 {
		return 0
	}
	return c.ImageWidth * c.ImageHeight
}

// SubjectDetector locates the person in a capture. A nil result with a nil
// error means "nothing found": a normal negative outcome, not a fault.
type SubjectDetector interface {
	DetectPrimarySubject(ctx context.Context, capture *Capture) (*Detection, error)
	DetectAllSubjects(ctx context.Context, capture *Capture) ([]geometry.Region, error)
	ResolveAnchorRegion(ctx context.Context, capture *Capture, subject geometry.Region) (*geometry.Region, error)
}

// ObjectDetector locates the target object (the toothbrush) in a capture.
type ObjectDetector interface {
	DetectTargetObject(ctx context.Context, capture *Capture) (*Detection, error)
}

// Provider bundles both detector roles.
type Provider interface {
	SubjectDetector
	ObjectDetector
}

// SettingsProvider supplies the current runtime settings. Implemented by
// config.SystemSettingsManager.
type SettingsProvider interface {
	GetSettings() types.SystemSettings
}
