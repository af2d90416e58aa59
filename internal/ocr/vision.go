package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	goption "google.golang.org/api/option"
	gvision "google.golang.org/api/vision/v1"
)

// VisionClient recognizes receipt text through the Google Cloud Vision
// images:annotate endpoint.
type VisionClient struct {
	svc *gvision.Service
}

var _ Engine = (*VisionClient)(nil)

// NewVision creates a Vision client with the given API key, falling back to
// application-default credentials when the key is empty.
func NewVision(ctx context.Context, apiKey string) (*VisionClient, error) {
	var opts []goption.ClientOption
	if key := strings.TrimSpace(apiKey); key != "" {
		opts = append(opts, goption.WithAPIKey(key))
	}
	svc, err := gvision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create vision service: %w", err)
	}
	return &VisionClient{svc: svc}, nil
}

// Recognize runs TEXT_DETECTION on the image and returns the full recognized
// text block.
func (c *VisionClient) Recognize(ctx context.Context, base64Image, mimeType string) (string, error) {
	if strings.TrimSpace(base64Image) == "" {
		return "", errors.New("empty image payload")
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("unsupported mime type %q", mimeType)
	}

	req := &gvision.BatchAnnotateImagesRequest{
		Requests: []*gvision.AnnotateImageRequest{{
			Image:    &gvision.Image{Content: base64Image},
			Features: []*gvision.Feature{{Type: "TEXT_DETECTION"}},
		}},
	}

	resp, err := c.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("annotate image: %w", err)
	}
	if len(resp.Responses) == 0 {
		return "", errors.New("empty annotate response")
	}
	r := resp.Responses[0]
	if r.Error != nil {
		return "", fmt.Errorf("vision error: %s", r.Error.Message)
	}
	if r.FullTextAnnotation == nil {
		slog.DebugContext(ctx, "No text detected in image", "mime_type", mimeType)
		return "", nil
	}
	return r.FullTextAnnotation.Text, nil
}
