package lib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var s3Client *s3.Client
var s3ClientLock sync.Mutex

func S3Client() *s3.Client {
	s3ClientLock.Lock()
	defer s3ClientLock.Unlock()
	if s3Client == nil {
		s3Client = s3.NewFromConfig(*Session())
	}
	return s3Client
}

// S3EnsureBucket creates a private encrypted bucket if it does not exist.
func S3EnsureBucket(ctx context.Context, bucket string, preview bool) error {
	_, err := S3Client().HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err == nil {
		return nil
	}
	var notFound *s3types.NotFound
	if !errors.As(err, &notFound) {
		Logger.Println("error:", err)
		return err
	}
	if !preview {
		input := &s3.CreateBucketInput{
			Bucket: aws.String(bucket),
		}
		if Region() != "us-east-1" {
			input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
				LocationConstraint: s3types.BucketLocationConstraint(Region()),
			}
		}
		_, err := S3Client().CreateBucket(ctx, input)
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		_, err = S3Client().PutPublicAccessBlock(ctx, &s3.PutPublicAccessBlockInput{
			Bucket: aws.String(bucket),
			PublicAccessBlockConfiguration: &s3types.PublicAccessBlockConfiguration{
				BlockPublicAcls:       aws.Bool(true),
				BlockPublicPolicy:     aws.Bool(true),
				IgnorePublicAcls:      aws.Bool(true),
				RestrictPublicBuckets: aws.Bool(true),
			},
		})
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		_, err = S3Client().PutBucketEncryption(ctx, &s3.PutBucketEncryptionInput{
			Bucket: aws.String(bucket),
			ServerSideEncryptionConfiguration: &s3types.ServerSideEncryptionConfiguration{
				Rules: []s3types.ServerSideEncryptionRule{{
					ApplyServerSideEncryptionByDefault: &s3types.ServerSideEncryptionByDefault{
						SSEAlgorithm: s3types.ServerSideEncryptionAes256,
					},
				}},
			},
		})
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
	}
	Logger.Println(PreviewString(preview)+"created bucket:", bucket)
	return nil
}

func S3PutFile(ctx context.Context, bucket, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = S3Client().PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	return nil
}

func S3Get(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := S3Client().GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	defer func() { _ = out.Body.Close() }()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return data, nil
}

func S3Head(ctx context.Context, bucket, key string) (*s3.HeadObjectOutput, error) {
	out, err := S3Client().HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func S3Ls(ctx context.Context, bucket, prefix string) ([]s3types.Object, error) {
	var objects []s3types.Object
	var token *string
	for {
		out, err := S3Client().ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		objects = append(objects, out.Contents...)
		if out.NextContinuationToken == nil {
			break
		}
		token = out.NextContinuationToken
	}
	return objects, nil
}

// S3Presign returns a time-limited GET url, for pulling an installer onto a
// host outside the instance profile's reach.
func S3Presign(ctx context.Context, bucket, key string, expire time.Duration) (string, error) {
	presigner := s3.NewPresignClient(S3Client())
	out, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expire))
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	return out.URL, nil
}

func S3Rm(ctx context.Context, bucket, key string) error {
	_, err := S3Client().DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	Logger.Println("deleted:", fmt.Sprintf("s3://%s/%s", bucket, key))
	return nil
}
