package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forkful/forkful-backend/config"
)

// MediaService stores submitted recipe images. Data URLs are decoded and
// uploaded to S3 when a bucket is configured, written to the local media
// directory otherwise. Anything that is not a data URL is assumed to be a
// URL already and kept verbatim.
type MediaService struct {
	s3Client *s3.Client
	conf     config.Media
	logger   *zap.Logger
}

func NewMediaService(ctx context.Context, conf config.Media, logger *zap.Logger) (*MediaService, error) {
	svc := &MediaService{conf: conf, logger: logger}

	if conf.Bucket != "" {
		awsConf, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(conf.Region))
		if err != nil {
			return nil, fmt.Errorf("loading aws config: %w", err)
		}
		svc.s3Client = s3.NewFromConfig(awsConf)
	} else if err := os.MkdirAll(conf.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media dir: %w", err)
	}

	return svc, nil
}

func (m *MediaService) Store(ctx context.Context, image string) (string, error) {
	if !strings.HasPrefix(image, "data:") {
		return image, nil
	}

	data, ext, err := decodeDataURL(image)
	if err != nil {
		return "", err
	}
	name := uuid.New().String() + ext

	if m.s3Client != nil {
		_, err := m.s3Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(m.conf.Bucket),
			Key:    aws.String(name),
			Body:   bytes.NewReader(data),
		})
		if err != nil {
			m.logger.Error("image upload failed", zap.String("key", name), zap.Error(err))
			return "", err
		}
		return strings.TrimSuffix(m.conf.BaseURL, "/") + "/" + name, nil
	}

	if err := os.WriteFile(filepath.Join(m.conf.Dir, name), data, 0o644); err != nil {
		return "", err
	}
	return "/media/" + name, nil
}

// decodeDataURL splits "data:image/png;base64,...." into raw bytes and a
// file extension derived from the media type.
func decodeDataURL(dataURL string) ([]byte, string, error) {
	header, payload, found := strings.Cut(dataURL, ",")
	if !found {
		return nil, "", fmt.Errorf("malformed data url")
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, "", fmt.Errorf("unsupported data url encoding")
	}

	mediaType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	ext := ".img"
	if _, subtype, ok := strings.Cut(mediaType, "/"); ok && subtype != "" {
		ext = "." + subtype
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decoding image payload: %w", err)
	}
	return data, ext, nil
}
