package s3

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const scheme = "s3://"

var ErrNotS3Locator = errors.New("locator is not an s3:// url")

// ItfS3 hands out time limited links to files kept in a bucket, such as the
// résumé PDF. It satisfies resolver.Linker.
type ItfS3 interface {
	PresignUrl(locator string) (string, error)
	Link(locator string) (string, error)
}

type Options struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Expiry          time.Duration
	Endpoint        string
}

type s3Client struct {
	client     *s3.S3
	bucketName string
	expiry     time.Duration
}

func New(opts Options) (ItfS3, error) {
	sess, err := newSession(opts)
	if err != nil {
		return nil, err
	}

	expiry := opts.Expiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &s3Client{
		client:     s3.New(sess),
		bucketName: opts.Bucket,
		expiry:     expiry,
	}, nil
}

// Link presigns s3:// locators and returns every other locator unchanged.
func (s *s3Client) Link(locator string) (string, error) {
	if !strings.HasPrefix(locator, scheme) {
		return locator, nil
	}
	return s.PresignUrl(locator)
}

func (s *s3Client) PresignUrl(locator string) (string, error) {
	bucket, key, err := ParseLocator(locator)
	if err != nil {
		return "", err
	}
	if bucket == "" {
		bucket = s.bucketName
	}

	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})

	urlStr, err := req.Presign(s.expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", locator, err)
	}

	return urlStr, nil
}

// ParseLocator splits s3://bucket/key. "s3:///key" leaves the bucket empty
// so the configured one is used.
func ParseLocator(locator string) (bucket, key string, err error) {
	if !strings.HasPrefix(locator, scheme) {
		return "", "", ErrNotS3Locator
	}

	rest := strings.TrimPrefix(locator, scheme)
	bucket, key, _ = strings.Cut(rest, "/")

	key, err = url.PathUnescape(key)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode S3 key: %w", err)
	}
	if key == "" {
		return "", "", fmt.Errorf("s3 locator %q has no key", locator)
	}
	return bucket, key, nil
}

func newSession(opts Options) (*session.Session, error) {
	cfg := &aws.Config{
		Region: aws.String(opts.Region),
		Credentials: credentials.NewStaticCredentials(
			opts.AccessKeyID,
			opts.SecretAccessKey,
			"",
		),
	}
	if opts.Endpoint != "" {
		cfg.Endpoint = aws.String(opts.Endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}

	return sess, nil
}
