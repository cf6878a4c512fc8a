package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"alfredoptarigan/resume-matcher/internal/models"
)

// ResumeFile is a resume read from a batch source, before extraction.
type ResumeFile struct {
	Name string
	Data []byte
}

// ResumeSource lists the resumes of a batch in a stable order.
type ResumeSource interface {
	Fetch(ctx context.Context) ([]ResumeFile, error)
}

type dirSource struct {
	dir string
}

// NewDirSource reads every PDF and DOCX file directly inside dir.
func NewDirSource(dir string) ResumeSource {
	return &dirSource{dir: dir}
}

// Fetch implements ResumeSource.
func (s *dirSource) Fetch(ctx context.Context) ([]ResumeFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume directory: %w", err)
	}

	var files []ResumeFile
	for _, entry := range entries {
		if entry.IsDir() || KindFromFilename(entry.Name()) == models.KindUnsupported {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		files = append(files, ResumeFile{Name: entry.Name(), Data: data})
	}

	return files, nil
}

// S3API is the subset of the S3 client used to read resumes.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client builds a client for AWS S3 or an S3-compatible endpoint such
// as Cloudflare R2 or MinIO.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

type s3Source struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Source reads every PDF and DOCX object under prefix in bucket.
func NewS3Source(client S3API, bucket, prefix string) ResumeSource {
	return &s3Source{client: client, bucket: bucket, prefix: prefix}
}

// Fetch implements ResumeSource. Objects are returned sorted by key.
func (s *s3Source) Fetch(ctx context.Context) ([]ResumeFile, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if KindFromFilename(key) != models.KindUnsupported {
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)

	files := make([]ResumeFile, 0, len(keys))
	for _, key := range keys {
		data, err := s.download(ctx, key)
		if err != nil {
			return nil, err
		}
		files = append(files, ResumeFile{Name: path.Base(key), Data: data})
	}

	return files, nil
}

func (s *s3Source) download(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return buf.Bytes(), nil
}
