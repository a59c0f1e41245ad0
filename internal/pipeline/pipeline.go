// Package pipeline implements the verification decision pipeline: a sequence
// of perceptual gates that either passes a capture with a confidence score or
// fails it with a typed reason. The pipeline is pure; persistence and alarm
// side effects belong to the caller.
package pipeline

import (
	"context"

	"routine-guard/internal/capability"
	"routine-guard/internal/geometry"
)

// FailureReason identifies which gate rejected the capture.
type FailureReason string

const (
	FailureSubjectNotDetected FailureReason = "subject_not_detected"
	FailureSubjectTooSmall    FailureReason = "subject_too_small"
	FailureMultipleSubjects   FailureReason = "multiple_subjects"
	FailureObjectNotDetected  FailureReason = "object_not_detected"
	FailureObjectNotAtTarget  FailureReason = "object_not_at_target"
)

// Outcome is the pipeline's decision for one capture.
type Outcome struct {
	Passed        bool           `json:"passed"`
	FailureReason FailureReason  `json:"failure_reason,omitempty"`
	Confidence    float64        `json:"confidence"`
	Degraded      bool           `json:"degraded"`
	Details       map[string]any `json:"details,omitempty"`
}

// Orchestrator runs the gates in order, short-circuiting on the first
// failure. Later gates are only meaningful given earlier outputs, so stages
// are strictly sequential.
type Orchestrator struct {
	subjects capability.SubjectDetector
	objects  capability.ObjectDetector
	settings capability.SettingsProvider
}

// NewOrchestrator creates a pipeline over the given detector collaborators.
func NewOrchestrator(subjects capability.SubjectDetector, objects capability.ObjectDetector, settings capability.SettingsProvider) *Orchestrator {
	return &Orchestrator{
		subjects: subjects,
		objects:  objects,
		settings: settings,
	}
}

// Run evaluates one capture. A detector returning "nothing found" produces a
// typed fail outcome; a transport error or cancelled context produces no
// outcome at all, and the caller must not record anything.
func (o *Orchestrator) Run(ctx context.Context, capture *capability.Capture) (*Outcome, error) {
	details := make(map[string]any)

	subject, err := o.subjects.DetectPrimarySubject(ctx, capture)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return fail(FailureSubjectNotDetected, details), nil
	}
	details["subject_confidence"] = subject.Confidence

	if imageArea := capture.ImageArea(); imageArea > 0 {
		ratio := subject.Region.Area() / imageArea
		details["subject_area_ratio"] = ratio
		if ratio < o.settings.GetSettings().SubjectMinAreaRatio {
			return fail(FailureSubjectTooSmall, details), nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	subjects, err := o.subjects.DetectAllSubjects(ctx, capture)
	if err != nil {
		return nil, err
	}
	details["subject_count"] = len(subjects)
	if len(subjects) > 1 {
		return fail(FailureMultipleSubjects, details), nil
	}

	object, err := o.objects.DetectTargetObject(ctx, capture)
	if err != nil {
		return nil, err
	}
	if object == nil {
		return fail(FailureObjectNotDetected, details), nil
	}
	details["object_confidence"] = object.Confidence

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	anchor, err := o.subjects.ResolveAnchorRegion(ctx, capture, subject.Region)
	if err != nil {
		return nil, err
	}
	degraded := false
	var anchorRegion geometry.Region
	if anchor != nil {
		anchorRegion = *anchor
	} else {
		// No resolvable anchor: approximate it with the lower third of the
		// subject box and flag the outcome as degraded.
		anchorRegion = lowerThird(subject.Region)
		degraded = true
	}
	details["degraded_anchor"] = degraded

	spatialConfidence := geometry.Confidence(object.Region, anchorRegion)
	details["spatial_confidence"] = spatialConfidence
	if !geometry.IsAtTarget(object.Region, anchorRegion) {
		outcome := fail(FailureObjectNotAtTarget, details)
		outcome.Degraded = degraded
		return outcome, nil
	}

	confidence := subject.Confidence
	if object.Confidence < confidence {
		confidence = object.Confidence
	}
	return &Outcome{
		Passed:     true,
		Confidence: confidence,
		Degraded:   degraded,
		Details:    details,
	}, nil
}

func fail(reason FailureReason, details map[string]any) *Outcome {
	return &Outcome{
		Passed:        false,
		FailureReason: reason,
		Details:       details,
	}
}

func lowerThird(subject geometry.Region) geometry.Region {
	return geometry.Region{
		X: subject.X,
		Y: subject.Y + subject.H*2/3,
		W: subject.W,
		H: subject.H / 3,
	}
}
