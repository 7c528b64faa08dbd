package utils

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrImagesDisabled is returned when uploads arrive but no image store is
// configured.
var ErrImagesDisabled = errors.New("image uploads are not configured")

// ImageStore keeps product images and hands back public URLs.
type ImageStore interface {
	UploadProductImages(ctx context.Context, productSlug string, files []*multipart.FileHeader) ([]string, error)
	DeleteImages(ctx context.Context, urls []string) error
}

// NoImageStore rejects uploads and ignores deletes; products then carry
// image URLs typed in by the admin.
type NoImageStore struct{}

func (NoImageStore) UploadProductImages(_ context.Context, _ string, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	return nil, ErrImagesDisabled
}

func (NoImageStore) DeleteImages(context.Context, []string) error { return nil }

type R2Config struct {
	Bucket       string
	AccessKey    string
	SecretKey    string
	Endpoint     string // https://<account-id>.r2.cloudflarestorage.com
	PublicDomain string
}

// R2Client stores images in a Cloudflare R2 bucket through the S3 API.
type R2Client struct {
	S3     *s3.Client
	Bucket string
	domain string
}

func NewR2Client(ctx context.Context, c R2Config) (*R2Client, error) {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" || c.Endpoint == "" {
		return nil, fmt.Errorf("missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.Endpoint)
		o.UsePathStyle = true // required for R2
	})

	return &R2Client{S3: client, Bucket: c.Bucket, domain: strings.TrimRight(c.PublicDomain, "/")}, nil
}

func (r2 *R2Client) UploadProductImages(ctx context.Context, productSlug string, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		objectName := productObjectName(productSlug, fh.Filename)
		ct := contentType(fh)

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		_, err = r2.S3.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(r2.Bucket),
			Key:         aws.String(objectName),
			Body:        f,
			ContentType: aws.String(ct),
		})
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", fh.Filename, err)
		}
		urls = append(urls, r2.publicURL(objectName))
	}
	return urls, nil
}

func (r2 *R2Client) DeleteImages(ctx context.Context, urls []string) error {
	var firstErr error
	for _, raw := range urls {
		obj, err := r2.objectName(raw)
		if err != nil {
			continue
		}
		_, err = r2.S3.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(r2.Bucket),
			Key:    aws.String(obj),
		})
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", obj, err)
		}
	}
	return firstErr
}

func (r2 *R2Client) publicURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", r2.domain, r2.Bucket, objectName)
}

func (r2 *R2Client) objectName(raw string) (string, error) {
	prefix := r2.domain + "/" + r2.Bucket + "/"
	if r2.domain != "" && strings.HasPrefix(raw, prefix) {
		return strings.TrimPrefix(raw, prefix), nil
	}
	return "", fmt.Errorf("not a recognised R2 public url")
}

func productObjectName(productSlug, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("products/%s/%d%s", productSlug, time.Now().UnixNano(), ext)
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
