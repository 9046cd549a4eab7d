package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	"github.com/Domenick1991/cruisebooking/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var ErrInvalidImage = errors.New("invalid image")

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageStore resizes cruise pictures and stores them in an S3 bucket.
type ImageStore struct {
	client    objectPutter
	bucket    string
	publicURL string
	maxWidth  int
	maxHeight int
	now       func() time.Time
}

func NewImageStore(ctx context.Context, cfg config.S3Config) (*ImageStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newImageStore(client, cfg), nil
}

func newImageStore(client objectPutter, cfg config.S3Config) *ImageStore {
	publicURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if publicURL == "" {
		publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return &ImageStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		maxWidth:  cfg.MaxImageWidth,
		maxHeight: cfg.MaxImageHeight,
		now:       time.Now,
	}
}

// Upload stores the image and returns its public URL.
func (s *ImageStore) Upload(ctx context.Context, cruiseID int64, r io.Reader) (string, error) {
	body, err := s.prepare(r)
	if err != nil {
		return "", err
	}

	key := s.objectKey(cruiseID)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("image/jpeg"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

func (s *ImageStore) objectKey(cruiseID int64) string {
	d := s.now()
	return fmt.Sprintf("cruises/%d/%d/%02d/%s.jpg", cruiseID, d.Year(), d.Month(), uuid.New())
}

// prepare decodes any supported format, shrinks it to fit the configured box
// and re-encodes it as JPEG.
func (s *ImageStore) prepare(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	img = fit(img, s.maxWidth, s.maxHeight)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func fit(img image.Image, maxWidth, maxHeight int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || maxHeight <= 0 || (b.Dx() <= maxWidth && b.Dy() <= maxHeight) {
		return img
	}
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
}
