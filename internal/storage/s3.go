// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage publishes assembled landing pages to S3-compatible object
// storage. It wraps the AWS SDK v2 and is configured for path-style access
// so it works against CEPH, MinIO and similar gateways.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"lpmanager/internal/slug"
)

// Client uploads objects to one public bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for public files
	now       func() time.Time
}

// Config holds the connection settings.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

// New creates a storage client with path-style addressing. Returns
// (nil, nil) if endpoint, credentials or bucket are empty, allowing the app
// to start without publishing.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, nil
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")

	// Checksums only when required: older S3 gateways reject the SDK's
	// default trailing checksums.
	s3Client := s3.New(s3.Options{
		Region:                     region,
		BaseEndpoint:               aws.String(endpoint),
		Credentials:                credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle:               true,
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
	})

	return &Client{
		s3:        s3Client,
		bucket:    cfg.Bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		now:       time.Now,
	}, nil
}

// Upload stores an object with public-read ACL and returns its URL.
func (c *Client) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return c.FileURL(key), nil
}

// Delete removes an object.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// FileURL returns the public URL of an object. Uses the configured public
// URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// Published lists the URLs of one published page.
type Published struct {
	PageURL   string `json:"page_url"`
	ConfigURL string `json:"config_url"`
}

// PublishPage uploads an assembled page and its configuration document
// under pages/<name>/<timestamp>/.
func (c *Client) PublishPage(ctx context.Context, name string, page, config []byte) (*Published, error) {
	prefix := PageKeyPrefix(name, c.now())
	pageURL, err := c.Upload(ctx, prefix+"index.html", "text/html; charset=utf-8", page)
	if err != nil {
		return nil, fmt.Errorf("publish page: %w", err)
	}
	configURL, err := c.Upload(ctx, prefix+"config.json", "application/json", config)
	if err != nil {
		// A page without its config is not a usable publication.
		if derr := c.Delete(ctx, prefix+"index.html"); derr != nil {
			slog.Warn("publish rollback failed", "key", prefix+"index.html", "error", derr)
		}
		return nil, fmt.Errorf("publish page config: %w", err)
	}
	return &Published{PageURL: pageURL, ConfigURL: configURL}, nil
}

// PageKeyPrefix builds the object key prefix of a published page. The
// name is slugged so titles never add path segments to the key.
func PageKeyPrefix(name string, at time.Time) string {
	return "pages/" + slug.Or(name, "landing-page") + "/" + at.UTC().Format("20060102-150405") + "/"
}
