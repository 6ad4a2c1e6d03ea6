// Package reporting ships diagnostic reports about entitlement failures to
// an S3-compatible bucket. Reporting is fire-and-forget: a failed upload is
// logged and never propagated to the caller.
package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/wirescope/internal/logging"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

const uploadTimeout = 10 * time.Second

// Config holds the bucket coordinates for diagnostic uploads.
type Config struct {
	BaseEndpoint string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
}

// report is the uploaded JSON document.
type report struct {
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	Error      string    `json:"error"`
}

// S3Reporter uploads one JSON object per reported error under reports/.
type S3Reporter struct {
	config Config
	log    logging.Logger
}

func NewS3Reporter(cfg Config, log logging.Logger) *S3Reporter {
	return &S3Reporter{config: cfg, log: log}
}

func (r *S3Reporter) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(r.config.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			r.config.AccessKey,
			r.config.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if r.config.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(r.config.BaseEndpoint)
		}
	}), nil
}

// Report uploads err asynchronously. It returns immediately; the upload runs
// on its own goroutine with its own timeout so a slow bucket cannot stall
// the caller, and the caller's ctx cancelling does not abandon the upload.
func (r *S3Reporter) Report(ctx context.Context, err error) {
	go func() {
		uploadCtx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
		defer cancel()

		if uploadErr := r.upload(uploadCtx, err); uploadErr != nil {
			r.log.Warn(uploadCtx, "failed to upload diagnostic report", "error", uploadErr)
		}
	}()
}

func (r *S3Reporter) upload(ctx context.Context, reported error) error {
	client, err := r.getClient()
	if err != nil {
		return err
	}

	doc := report{
		ID:         uuid.New().String(),
		OccurredAt: time.Now().UTC(),
		Error:      reported.Error(),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("reports/%s.json", doc.ID)
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return err
	}

	r.log.Debug(ctx, "diagnostic report uploaded", "key", key)
	return nil
}
