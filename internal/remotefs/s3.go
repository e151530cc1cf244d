package remotefs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// S3Config names the options SQL Service startup reads from the
// configuration surface's `[remote_fs]` section.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, for S3-compatible stores (e.g. Minio)
	AccessKeyID     string
	SecretAccessKey string
	SubPath         string
	LocalRoot       string
}

// S3 is the S3-compatible object-store backend. Upload/download/delete
// failures carry the underlying HTTP status in their messages.
type S3 struct {
	mirror  *mirror
	client  *s3.Client
	bucket  string
	subPath string
}

// NewS3 builds an S3 backend from cfg. ctx is used only to resolve the AWS
// SDK's default credential/config chain; no network I/O happens here.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading S3 client configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{
		mirror:  newMirror(cfg.LocalRoot),
		client:  client,
		bucket:  cfg.Bucket,
		subPath: cfg.SubPath,
	}, nil
}

// s3Key builds `<sub_path>/<path>`.
func (b *S3) s3Key(relPath string) string {
	if b.subPath == "" {
		return relPath
	}
	return strings.TrimSuffix(b.subPath, "/") + "/" + relPath
}

func (b *S3) Upload(ctx context.Context, relPath string) error {
	local := b.mirror.derive(relPath)
	f, err := openForRead(local)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.s3Key(relPath)),
		Body:   f,
	})
	if err != nil {
		// The SDK surfaces transport failures as an error rather than a raw
		// status code; a non-nil error here always means the object was not
		// durably stored, so it maps to the same "non OK" family as a
		// non-200 response.
		return fmt.Errorf("S3 upload returned non OK status: %d", statusFromErr(err, http.StatusInternalServerError))
	}
	return nil
}

func (b *S3) Download(ctx context.Context, relPath string) (string, error) {
	return b.mirror.dedupeDownload(relPath, func() (string, error) {
		local, err := b.mirror.localFile(relPath)
		if err != nil {
			return "", err
		}
		if b.mirror.exists(relPath) {
			return local, nil
		}

		resp, err := b.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(b.bucket),
			Key:    aws.String(b.s3Key(relPath)),
		})
		if err != nil {
			return "", fmt.Errorf("S3 download returned non OK status: %d", statusFromErr(err, http.StatusNotFound))
		}
		defer resp.Body.Close()

		if err := writeAllThenFlush(local, resp.Body); err != nil {
			return "", fmt.Errorf("S3 download returned non OK status: %d", http.StatusInternalServerError)
		}
		return local, nil
	})
}

func (b *S3) Delete(ctx context.Context, relPath string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.s3Key(relPath)),
	})
	if err != nil {
		return fmt.Errorf("S3 delete returned non OK status: %d", statusFromErr(err, http.StatusInternalServerError))
	}
	return b.mirror.removeAndPrune(relPath)
}

func (b *S3) List(ctx context.Context, prefix string) ([]string, error) {
	files, err := b.ListWithMetadata(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.RemotePath)
	}
	return out, nil
}

func (b *S3) ListWithMetadata(ctx context.Context, prefix string) ([]File, error) {
	var out []File
	var token *string
	fullPrefix := b.s3Key(prefix)
	stripPrefix := b.s3Key("")

	for {
		page, err := b.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(b.bucket),
			Prefix:            aws.String(fullPrefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("listing S3 objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := *obj.Key
			out = append(out, File{
				RemotePath:   strings.TrimPrefix(key, stripPrefix),
				LastModified: *obj.LastModified,
			})
		}
		if page.NextContinuationToken == nil {
			break
		}
		token = page.NextContinuationToken
	}
	return out, nil
}

func (b *S3) LocalPath(ctx context.Context) (string, error) {
	return b.mirror.localPath(), nil
}

func (b *S3) LocalFile(ctx context.Context, relPath string) (string, error) {
	return b.mirror.localFile(relPath)
}

func statusFromErr(err error, fallback int) int {
	// The SDK wraps the transport-level status code inside a smithy
	// response error; fallback covers failures that never reached HTTP
	// (connection refused, credential resolution).
	var re *smithyhttp.ResponseError
	if errors.As(err, &re) {
		return re.HTTPStatusCode()
	}
	return fallback
}
