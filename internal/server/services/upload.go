package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/feepo/feepo/internal/common"
	sc "github.com/feepo/feepo/internal/server/config"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignPostObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignPostOptions)) (*s3.PresignedPostRequest, error) {
		return pc.PresignPostObject(ctx, in, optFns...)
	}
)

// UploadService hands out short-lived presigned S3 requests so clients
// upload image files straight to the bucket without the server ever
// touching the bytes.
type UploadService struct {
	config *sc.Config
}

func NewUploadService(config *sc.Config) *UploadService {
	return &UploadService{config: config}
}

// PutObjectKey prefixes the client-chosen file name with the current
// unix-millisecond timestamp so repeated uploads of the same name never
// collide in the bucket.
func PutObjectKey(fileName string) string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), fileName)
}

// postKeyBytes is the entropy behind keys for browser form uploads;
// the key itself is twice as long in hex.
const postKeyBytes = 16

// PostObjectKey builds a random key for browser form uploads.
func PostObjectKey() (string, error) {
	return common.MakeRandHexString(postKeyBytes)
}

func (s *UploadService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(s.config.AWSRegion)}
	if s.config.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKeyID,
			s.config.S3SecretAccessKey,
			"",
		)))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		}
	})

	return newS3PresignClient(client), nil
}

// GetPresignedPutURL returns a presigned PUT URL for fileName together
// with the object key the upload will land under.
func (s *UploadService) GetPresignedPutURL(ctx context.Context, fileName string) (string, string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := PutObjectKey(fileName)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignExpiry))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// GetPresignedPostData returns the URL and form fields for a presigned
// POST upload, plus the object key.
func (s *UploadService) GetPresignedPostData(ctx context.Context) (string, string, map[string]string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", nil, err
	}

	bucket := s.config.S3Bucket
	key, err := PostObjectKey()
	if err != nil {
		return "", "", nil, err
	}

	req, err := presignPostObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, func(o *s3.PresignPostOptions) {
		o.Expires = s.config.PresignExpiry
	})
	if err != nil {
		return "", "", nil, err
	}

	return key, req.URL, req.Values, nil
}
