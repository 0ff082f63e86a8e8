package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/coachlink/pkg/config"
)

// Archive keeps the raw transcript text of a meeting.
type Archive interface {
	PutTranscript(ctx context.Context, meetingID int64, content string) (string, error)
}

var (
	_ Archive = (*TranscriptArchive)(nil)
	_ Archive = NoopArchive{}
)

// TranscriptArchive stores transcripts in a MinIO bucket
type TranscriptArchive struct {
	client *minio.Client
	bucket string
}

// NewTranscriptArchive creates a MinIO client and makes sure the bucket exists
func NewTranscriptArchive(cfg *config.StorageConfig) (*TranscriptArchive, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	a := &TranscriptArchive{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return a, nil
}

// ensureBucket creates the bucket when missing. Objects stay private.
func (a *TranscriptArchive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// TranscriptObjectName returns the object key of a meeting transcript
func TranscriptObjectName(meetingID int64) string {
	return fmt.Sprintf("meetings/%d/transcript.txt", meetingID)
}

// PutTranscript uploads the transcript and returns its object key
func (a *TranscriptArchive) PutTranscript(ctx context.Context, meetingID int64, content string) (string, error) {
	name := TranscriptObjectName(meetingID)
	reader := bytes.NewReader([]byte(content))
	_, err := a.client.PutObject(ctx, a.bucket, name, reader, int64(len(content)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload transcript: %w", err)
	}
	return name, nil
}

// PresignedURL returns a temporary download link for an archived object
func (a *TranscriptArchive) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	u, err := a.client.PresignedGetObject(ctx, a.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return u.String(), nil
}

// NoopArchive is used when object storage is disabled
type NoopArchive struct{}

// PutTranscript implements Archive
func (NoopArchive) PutTranscript(context.Context, int64, string) (string, error) {
	return "", nil
}
