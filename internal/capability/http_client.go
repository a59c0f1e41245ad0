package capability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	app_errors "routine-guard/internal/errors"
	"routine-guard/internal/geometry"
	"routine-guard/internal/httpclient"
	"routine-guard/internal/utils"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const detectPath = "/v1/detect"

// HTTPProvider calls an external inference endpoint and adapts its JSON into
// typed detections. The endpoint and timeout come from system settings so
// they can be retuned without a restart.
type HTTPProvider struct {
	settings SettingsProvider
	clients  *httpclient.HTTPClientManager
}

// NewHTTPProvider creates a detector client against the configured endpoint.
func NewHTTPProvider(settings SettingsProvider, clients *httpclient.HTTPClientManager) *HTTPProvider {
	return &HTTPProvider{
		settings: settings,
		clients:  clients,
	}
}

func (p *HTTPProvider) DetectPrimarySubject(ctx context.Context, capture *Capture) (*Detection, error) {
	result, err := p.detect(ctx, "subject", capture, nil)
	if err != nil {
		return nil, err
	}
	return parseDetection(result.Get("detection")), nil
}

func (p *HTTPProvider) DetectAllSubjects(ctx context.Context, capture *Capture) ([]geometry.Region, error) {
	result, err := p.detect(ctx, "subjects", capture, nil)
	if err != nil {
		return nil, err
	}
	items := result.Get("detections")
	if !items.Exists() {
		return nil, nil
	}
	var regions []geometry.Region
	items.ForEach(func(_, item gjson.Result) bool {
		if r := parseRegion(item.Get("box")); r != nil {
			regions = append(regions, *r)
		}
		return true
	})
	return regions, nil
}

func (p *HTTPProvider) ResolveAnchorRegion(ctx context.Context, capture *Capture, subject geometry.Region) (*geometry.Region, error) {
	result, err := p.detect(ctx, "anchor", capture, &subject)
	if err != nil {
		return nil, err
	}
	return parseRegion(result.Get("region")), nil
}

func (p *HTTPProvider) DetectTargetObject(ctx context.Context, capture *Capture) (*Detection, error) {
	result, err := p.detect(ctx, "object", capture, nil)
	if err != nil {
		return nil, err
	}
	return parseDetection(result.Get("detection")), nil
}

// detect posts one task to the detector endpoint and returns the parsed
// response body. An unreachable or misconfigured endpoint is a transport
// error; "nothing found" comes back as a null detection, not an error.
func (p *HTTPProvider) detect(ctx context.Context, task string, capture *Capture, subject *geometry.Region) (gjson.Result, error) {
	settings := p.settings.GetSettings()
	if settings.DetectorBaseURL == "" {
		return gjson.Result{}, app_errors.ErrDetectorUnavailable
	}

	body := []byte(`{}`)
	body, _ = sjson.SetBytes(body, "task", task)
	body, _ = sjson.SetBytes(body, "image_ref", capture.ImageRef)
	body, _ = sjson.SetBytes(body, "image_width", capture.ImageWidth)
	body, _ = sjson.SetBytes(body, "image_height", capture.ImageHeight)
	if subject != nil {
		body, _ = sjson.SetBytes(body, "subject_box", subject)
	}

	timeout := time.Duration(settings.DetectorTimeoutSeconds) * time.Second
	client := p.clients.GetClient(&httpclient.Config{
		ConnectTimeout:      10 * time.Second,
		RequestTimeout:      timeout,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, settings.DetectorBaseURL+detectPath, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to build detector request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := client.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("detector request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read detector response: %w", err)
	}
	decoded, err := utils.DecompressResponse(resp.Header.Get("Content-Encoding"), raw)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to decode detector response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := app_errors.ParseUpstreamError(decoded)
		return gjson.Result{}, app_errors.NewAPIErrorWithUpstream(resp.StatusCode, app_errors.ErrDetectorUnavailable.Code, message)
	}

	return gjson.ParseBytes(decoded), nil
}

func parseDetection(value gjson.Result) *Detection {
	if !value.Exists() || value.Type == gjson.Null {
		return nil
	}
	region := parseRegion(value.Get("box"))
	if region == nil {
		return nil
	}
	return &Detection{
		Region:     *region,
		Confidence: value.Get("confidence").Float(),
	}
}

func parseRegion(value gjson.Result) *geometry.Region {
	if !value.Exists() || value.Type == gjson.Null {
		return nil
	}
	r := geometry.Region{
		X: value.Get("x").Float(),
		Y: value.Get("y").Float(),
		W: value.Get("w").Float(),
		H: value.Get("h").Float(),
	}
	if !value.Get("w").Exists() {
		r.W = value.Get("width").Float()
	}
	if !value.Get("h").Exists() {
		r.H = value.Get("height").Float()
	}
	if r.W <= 0 || r.H <= 0 {
		return nil
	}
	return &r
}
