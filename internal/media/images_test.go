package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/cruisebooking/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testConfig() config.S3Config {
	return config.S3Config{
		Endpoint:       "http://localhost:9000",
		Bucket:         "cruises",
		MaxImageWidth:  160,
		MaxImageHeight: 90,
	}
}

func TestImageStore_Upload(t *testing.T) {
	putter := &fakePutter{}
	store := newImageStore(putter, testConfig())
	store.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }

	url, err := store.Upload(context.Background(), 7, bytes.NewReader(pngImage(t, 800, 600)))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/cruises/cruises/7/2025/03/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))
	assert.Equal(t, "cruises", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "image/jpeg", aws.ToString(putter.input.ContentType))

	stored, err := imaging.Decode(bytes.NewReader(putter.body))
	require.NoError(t, err)
	assert.LessOrEqual(t, stored.Bounds().Dx(), 160)
	assert.LessOrEqual(t, stored.Bounds().Dy(), 90)
}

func TestImageStore_Upload_PublicBaseURL(t *testing.T) {
	cfg := testConfig()
	cfg.PublicBaseURL = "https://cdn.example.com/"
	store := newImageStore(&fakePutter{}, cfg)

	url, err := store.Upload(context.Background(), 1, bytes.NewReader(pngImage(t, 10, 10)))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/cruises/1/"))
}

func TestImageStore_Upload_InvalidImage(t *testing.T) {
	putter := &fakePutter{}
	store := newImageStore(putter, testConfig())

	_, err := store.Upload(context.Background(), 1, strings.NewReader("definitely not an image"))

	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.Nil(t, putter.input)
}

func TestImageStore_Upload_PutError(t *testing.T) {
	store := newImageStore(&fakePutter{err: errors.New("access denied")}, testConfig())

	_, err := store.Upload(context.Background(), 1, bytes.NewReader(pngImage(t, 10, 10)))

	assert.ErrorContains(t, err, "access denied")
}

func TestFit_KeepsSmallImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 40))

	assert.Same(t, image.Image(img), fit(img, 160, 90))
	assert.Equal(t, 160, fit(image.NewRGBA(image.Rect(0, 0, 1600, 900)), 160, 90).Bounds().Dx())
}
