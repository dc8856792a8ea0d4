package s3

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestParseLocator(t *testing.T) {
	tests := []struct {
		locator string
		bucket  string
		key     string
		wantErr bool
	}{
		{"s3://portfolio/assets/Resume.pdf", "portfolio", "assets/Resume.pdf", false},
		{"s3:///Resume%20v2.pdf", "", "Resume v2.pdf", false},
		{"s3://portfolio/", "", "", true},
		{"./assets/Resume.pdf", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.locator, func(t *testing.T) {
			bucket, key, err := ParseLocator(tt.locator)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLocator() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if bucket != tt.bucket || key != tt.key {
				t.Errorf("ParseLocator() = %q, %q; want %q, %q", bucket, key, tt.bucket, tt.key)
			}
		})
	}

	if _, _, err := ParseLocator("https://x"); !errors.Is(err, ErrNotS3Locator) {
		t.Errorf("ParseLocator(https) error = %v, want ErrNotS3Locator", err)
	}
}

func TestLink(t *testing.T) {
	client, err := New(Options{
		Region:          "us-east-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Bucket:          "portfolio",
		Expiry:          5 * time.Minute,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got, err := client.Link("./assets/Resume.pdf"); err != nil || got != "./assets/Resume.pdf" {
		t.Errorf("Link(relative) = %q, %v; want unchanged", got, err)
	}

	got, err := client.Link("s3:///assets/Resume.pdf")
	if err != nil {
		t.Fatalf("Link(s3) error = %v", err)
	}

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("presigned url %q does not parse: %v", got, err)
	}
	if !strings.Contains(u.Host+u.Path, "portfolio") || !strings.HasSuffix(u.Path, "/assets/Resume.pdf") {
		t.Errorf("presigned url = %q", got)
	}
	if u.Query().Get("X-Amz-Signature") == "" {
		t.Errorf("presigned url has no signature: %q", got)
	}
	if u.Query().Get("X-Amz-Expires") != "300" {
		t.Errorf("X-Amz-Expires = %q, want 300", u.Query().Get("X-Amz-Expires"))
	}
}
