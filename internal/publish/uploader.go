// Package publish uploads filled UTR workbooks and their test logs to S3.
package publish

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	log "github.com/sirupsen/logrus"
)

// Uploader is the subset of s3manager.Uploader used to publish files.
type Uploader interface {
	Upload(input *s3manager.UploadInput, options ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// Config describes the destination of published files.
type Config struct {
	Bucket string
	Region string
	Prefix string
	DryRun bool

	uploader Uploader
}

// ObjectKey returns the key a local file is stored under.
func (c *Config) ObjectKey(filePath string) string {
	return path.Join(c.Prefix, filepath.Base(filePath))
}

func (c *Config) ObjectURI(filePath string) string {
	return "s3://" + c.Bucket + "/" + c.ObjectKey(filePath)
}

// connect creates the S3 uploader and validates the bucket, unless one was
// already set.
func (c *Config) connect() error {
	if c.uploader != nil {
		return nil
	}
	svc, uploader, err := newS3Uploader(c.Region)
	if err != nil {
		return err
	}
	if err := checkBucket(svc, c.Bucket); err != nil {
		return err
	}
	c.uploader = uploader
	return nil
}

// Upload publishes the files to the bucket, attaching meta to every object.
func (c *Config) Upload(files []string, meta map[string]string) ([]string, error) {
	uris := []string{}
	if !c.DryRun {
		if err := c.connect(); err != nil {
			return nil, err
		}
	}
	for _, filePath := range files {
		uri := c.ObjectURI(filePath)
		if c.DryRun {
			log.Warnf("DRY-RUN mode: skipping upload of %s to %s", filePath, uri)
			uris = append(uris, uri)
			continue
		}
		log.Debugf("Upload(): uploading %s to %s", filePath, uri)
		if err := c.uploadFile(filePath, meta); err != nil {
			return uris, err
		}
		log.Infof("%s published successfully to %s", filepath.Base(filePath), uri)
		uris = append(uris, uri)
	}
	return uris, nil
}

func (c *Config) uploadFile(filePath string, meta map[string]string) error {
	fd, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer fd.Close()

	input := &s3manager.UploadInput{
		Bucket: aws.String(c.Bucket),
		Key:    aws.String(c.ObjectKey(filePath)),
		Body:   fd,
	}
	if len(meta) > 0 {
		input.Metadata = aws.StringMap(meta)
	}
	if _, err := c.uploader.Upload(input); err != nil {
		return fmt.Errorf("failed to upload file %s to bucket %s: %w", filePath, c.Bucket, err)
	}
	return nil
}
