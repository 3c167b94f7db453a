package writer

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"log"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/outofoffice3/tag-check/internal/shared"
)

const defaultTmpDir = "/tmp"

// PutObjectAPI is the part of the S3 client used to upload execution logs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Writer defines the interface for writing execution logs in AWS Lambda.
type Writer interface {
	// Write data to s3 bucket
	ExportToS3(ctx context.Context, bucket, key, prefix string, data []byte) error
	// Write csv file to the temp directory
	WriteCSV(filename string, header []string, records [][]string) (string, error)
	// Deletes file
	DeleteTempFile(filename string) error
	// Write entry to csv and upload it to the execution log bucket.  Returns the object key
	ExportExecutionLog(ctx context.Context, entry shared.ExecutionLogEntry) (string, error)
}

type _Writer struct {
	client PutObjectAPI
	bucket string
	prefix string
	tmpDir string
}

type WriterInitConfig struct {
	Client PutObjectAPI
	Bucket string
	Prefix string
	TmpDir string
}

func Init(config WriterInitConfig) (Writer, error) {
	if config.Client == nil || config.Bucket == "" {
		return nil, errors.New("s3 client or bucket is not set")
	}
	if config.Prefix == "" {
		config.Prefix = string(shared.DefaultExecutionLogPrefix)
	}
	if config.TmpDir == "" {
		config.TmpDir = defaultTmpDir
	}
	return &_Writer{
		client: config.Client,
		bucket: config.Bucket,
		prefix: config.Prefix,
		tmpDir: config.TmpDir,
	}, nil
}

// DeleteTempFile deletes a file from the temp directory.
func (w *_Writer) DeleteTempFile(filename string) error {
	fullPath := filepath.Join(w.tmpDir, filename)
	return os.Remove(fullPath)
}

// WriteCSV writes CSV records to a file in the temp directory.
func (w *_Writer) WriteCSV(filename string, header []string, records [][]string) (string, error) {
	fullPath := filepath.Join(w.tmpDir, filename)

	file, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return "", err
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return "", err
		}
	}
	writer.Flush()

	// Check for errors from the CSV writer
	if err := writer.Error(); err != nil {
		return "", err
	}

	return fullPath, nil
}

// ExportToS3 uploads data to an S3 bucket.
func (w *_Writer) ExportToS3(ctx context.Context, bucket, key, prefix string, data []byte) error {
	fullKey := path.Join(prefix, key)
	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(fullKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	return err
}

func (w *_Writer) ExportExecutionLog(ctx context.Context, entry shared.ExecutionLogEntry) (string, error) {
	ruleName := entry.ConfigRuleName
	if ruleName == "" {
		ruleName = string(shared.DefaultExecutionLogPrefix)
	}
	filename := ruleName + "-" + uuid.NewString() + ".csv"

	fullPath, err := w.WriteCSV(filename, entry.Header(), [][]string{entry.Record()})
	if err != nil {
		return "", err
	}
	defer w.cleanupTempFile(filename)

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", err
	}

	key := path.Join(time.Now().UTC().Format("2006-01-02"), filename)
	if err := w.ExportToS3(ctx, w.bucket, key, w.prefix, data); err != nil {
		return "", err
	}
	return path.Join(w.prefix, key), nil
}

// delete temp file, logging any failure
func (w *_Writer) cleanupTempFile(filename string) error {
	err := w.DeleteTempFile(filename)
	if err != nil {
		log.Printf("failed to delete temp file [%s] : %v\n", filename, err)
	}
	return err
}
