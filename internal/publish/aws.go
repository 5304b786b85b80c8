package publish

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
)

// newS3Uploader opens an AWS session on region and returns the S3 client
// used to check the bucket together with the uploader sharing its session.
func newS3Uploader(region string) (*s3.S3, *s3manager.Uploader, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to open AWS session in %s", region)
	}
	return s3.New(sess), s3manager.NewUploader(sess), nil
}

// checkBucket fails when the bucket is missing or not reachable with the
// current credentials.
func checkBucket(svc *s3.S3, bucket string) error {
	if _, err := svc.HeadBucket(&s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return errors.Wrapf(err, "bucket %s is not available", bucket)
	}
	return nil
}
