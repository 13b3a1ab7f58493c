package gcp

import (
	"context"
	"fmt"
	"os"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// DefaultVisionQPS caps Cloud Vision request throughput when no explicit
// limit is configured.
const DefaultVisionQPS = 2.0

// VisionOCR implements the OCR engine contract on top of the Cloud Vision
// document text detection API. Requests are rate limited client-side so a
// large input directory does not burn through the API quota.
type VisionOCR struct {
	client  *vision.ImageAnnotatorClient
	limiter *rate.Limiter
}

// NewVisionOCR creates a Cloud Vision backed OCR engine. credentialsFile may
// be empty, in which case application default credentials are used.
func NewVisionOCR(ctx context.Context, credentialsFile string, qps float64) (*VisionOCR, error) {
	if qps <= 0 {
		qps = DefaultVisionQPS
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vision client: %w", err)
	}

	return &VisionOCR{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(qps), 1),
	}, nil
}

func (v *VisionOCR) Name() string { return "vision" }

// Recognize sends the image at imagePath through document text detection and
// returns the full page text. Japanese and English hints are always set
// since mill sheets mix both scripts.
func (v *VisionOCR) Recognize(ctx context.Context, imagePath string) (string, error) {
	if err := v.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter interrupted: %w", err)
	}

	content, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", imagePath, err)
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: content},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
				ImageContext: &visionpb.ImageContext{
					LanguageHints: []string{"ja", "en"},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision API call failed: %w", err)
	}
	if len(resp.Responses) == 0 {
		return "", fmt.Errorf("vision API returned no responses for %s", imagePath)
	}

	annotation := resp.Responses[0]
	if annotation.Error != nil {
		return "", fmt.Errorf("vision API error for %s: %s", imagePath, annotation.Error.Message)
	}
	return strings.TrimSpace(annotation.GetFullTextAnnotation().GetText()), nil
}

func (v *VisionOCR) Close() error {
	return v.client.Close()
}
