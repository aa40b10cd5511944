package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"docvault/internal/config"
	apperrors "docvault/pkg/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

const (
	emptyAWSSessionToken  = ""
	deleteScopeBatchSize  = 1000
	headNotFoundErrorCode = "NotFound"

	errFailedCreateAWSSessionFmt    = "failed to create AWS session: %w"
	errFailedPutObjectFmt           = "failed to put object: %w"
	errFailedGetObjectFmt           = "failed to get object: %w"
	errFailedReadObjectBodyFmt      = "failed to read object body: %w"
	errFailedDeleteObjectFmt        = "failed to delete object: %w"
	errFailedHeadObjectFmt          = "failed to head object: %w"
	errFailedListScopeObjectsFmt    = "failed to list scope objects: %w"
	errFailedDeleteScopeObjectsFmt  = "failed to delete scope objects: %w"
	errBlobNotFoundMsg              = "blob not found"
)

// S3Store keeps blobs in a single bucket, keyed by the generated object path.
type S3Store struct {
	svc    *s3.S3
	bucket string
}

func NewS3Store(cfg *config.AWSConfig) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		),
	})

	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	return &S3Store{
		svc:    s3.New(sess),
		bucket: cfg.Bucket,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, scopeID uuid.UUID, originalName string, data []byte) (string, error) {
	objectPath := ObjectPath(scopeID, originalName)

	_, err := s.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectPath),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf(errFailedPutObjectFmt, err)
	}

	return objectPath, nil
}

func (s *S3Store) Get(ctx context.Context, path string) ([]byte, error) {
	out, err := s.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, apperrors.NotFound(errBlobNotFoundMsg)
		}
		return nil, fmt.Errorf(errFailedGetObjectFmt, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf(errFailedReadObjectBodyFmt, err)
	}

	return data, nil
}

func (s *S3Store) Delete(ctx context.Context, path string) error {
	_, err := s.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf(errFailedDeleteObjectFmt, err)
	}

	return nil
}

func (s *S3Store) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf(errFailedHeadObjectFmt, err)
	}

	return true, nil
}

func (s *S3Store) DeleteScope(ctx context.Context, scopeID uuid.UUID) error {
	prefix := ScopePrefix(scopeID)

	for {
		result, err := s.svc.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
			Bucket:  aws.String(s.bucket),
			Prefix:  aws.String(prefix),
			MaxKeys: aws.Int64(deleteScopeBatchSize),
		})
		if err != nil {
			return fmt.Errorf(errFailedListScopeObjectsFmt, err)
		}

		if len(result.Contents) == 0 {
			return nil
		}

		var objectsToDelete []*s3.ObjectIdentifier
		for _, obj := range result.Contents {
			objectsToDelete = append(objectsToDelete, &s3.ObjectIdentifier{
				Key: obj.Key,
			})
		}

		_, err = s.svc.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &s3.Delete{
				Objects: objectsToDelete,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf(errFailedDeleteScopeObjectsFmt, err)
		}

		if !aws.BoolValue(result.IsTruncated) {
			return nil
		}
	}
}

func isNoSuchKey(err error) bool {
	var awsErr awserr.Error
	if errors.As(err, &awsErr) {
		code := awsErr.Code()
		return code == s3.ErrCodeNoSuchKey || code == headNotFoundErrorCode
	}
	return false
}
