package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Mirror uploads renamed output files to a GCS bucket so each run leaves an
// audit trail. Uploads are conditional on the object not existing, which
// keeps re-runs idempotent.
type Mirror struct {
	client     *storage.Client
	bucket     *storage.BucketHandle
	bucketName string
}

// NewMirror creates a Mirror for the given bucket. credentialsFile may be
// empty, in which case application default credentials are used.
func NewMirror(ctx context.Context, bucketName, credentialsFile string) (*Mirror, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("NewMirror: bucketName cannot be empty")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Mirror{
		client:     client,
		bucket:     client.Bucket(bucketName),
		bucketName: bucketName,
	}, nil
}

// UploadRun mirrors the given local files under runs/<runID>/ in the bucket.
func (m *Mirror) UploadRun(ctx context.Context, runID string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	logCtx := slog.With("runId", runID, "bucket", m.bucketName)
	logCtx.Info("Starting concurrent mirror of renamed files.", "fileCount", len(paths))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(10)

	for _, path := range paths {
		localPath := path
		destObject := fmt.Sprintf("runs/%s/%s", runID, filepath.Base(localPath))

		eg.Go(func() error {
			if err := m.uploadFile(gctx, localPath, destObject); err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(localPath), err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("one or more files failed to mirror: %w", err)
	}
	logCtx.Info("All files mirrored successfully.")
	return nil
}

func (m *Mirror) uploadFile(ctx context.Context, localPath, destObject string) error {
	const maxRetries = 4
	var backoff = 1 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := func() error {
			localFileReader, err := os.Open(localPath)
			if err != nil {
				return fmt.Errorf("could not open local file %s: %w", localPath, err)
			}
			defer localFileReader.Close()

			writeCtx, cancel := context.WithTimeout(ctx, time.Second*50)
			defer cancel()

			gcsWriter := m.bucket.Object(destObject).If(storage.Conditions{DoesNotExist: true}).NewWriter(writeCtx)

			if _, err := io.Copy(gcsWriter, localFileReader); err != nil {
				_ = gcsWriter.Close()
				return fmt.Errorf("io.Copy to GCS failed: %w", err)
			}

			if err := gcsWriter.Close(); err != nil {
				return fmt.Errorf("failed to close GCS writer (finalize upload): %w", err)
			}
			return nil
		}()

		if err == nil {
			return nil // Success!
		}
		if isPreconditionFailed(err) {
			slog.Info("Object already exists. Skipping.", "gcsObject", destObject)
			return nil // Not a failure in an idempotent workflow.
		}

		lastErr = err
		slog.Warn(
			"Mirror upload failed, will retry.",
			"gcsObject", destObject,
			"attempt", i+1,
			"maxRetries", maxRetries,
			"backoff", backoff.String(),
			"error", err,
		)

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			slog.Error("Context cancelled during backoff. Aborting retries.", "gcsObject", destObject, "error", ctx.Err())
			return ctx.Err()
		}
	}
	slog.Error("Mirror upload failed after all retries.", "gcsObject", destObject, "error", lastErr)
	return fmt.Errorf("upload for %s failed after all retries: %w", destObject, lastErr)
}

func (m *Mirror) Close() error {
	return m.client.Close()
}

// isPreconditionFailed reports whether err is the GCS 412 returned when a
// DoesNotExist conditional write hits an existing object.
func isPreconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == 412
}
