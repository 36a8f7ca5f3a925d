package services

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

type RekognitionService struct {
	client *rekognition.Client
}

func NewRekognitionService() (*RekognitionService, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, err
	}
	return &RekognitionService{client: rekognition.NewFromConfig(cfg)}, nil
}

// ReadLabelText OCRs a base64-encoded photo of an ingredient label and
// returns the detected lines joined into one string, ready for the verdict
// engine.
func (r *RekognitionService) ReadLabelText(base64Img string) (string, error) {
	idx := strings.Index(base64Img, ",")
	if idx < 0 || !strings.HasPrefix(base64Img, "data:image") {
		return "", errors.New("invalid data URI")
	}
	data, err := base64.StdEncoding.DecodeString(base64Img[idx+1:])
	if err != nil {
		return "", err
	}

	out, err := r.client.DetectText(context.TODO(), &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: data},
		Filters: &types.DetectTextFilters{
			WordFilter: &types.DetectionFilter{MinConfidence: aws.Float32(70)},
		},
	})
	if err != nil {
		return "", err
	}

	var lines []string
	for _, td := range out.TextDetections {
		if td.Type == types.TextTypesLine && td.DetectedText != nil {
			lines = append(lines, *td.DetectedText)
		}
	}
	return strings.Join(lines, " "), nil
}
