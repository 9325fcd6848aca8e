package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/breckhall/finsight/internal/ledger"
	"github.com/breckhall/finsight/internal/logger"
)

// BucketSource reads snapshot files from a GCS bucket, optionally under a
// prefix.
type BucketSource struct {
	bucket string
	prefix string
	opts   []option.ClientOption
}

// NewBucketSource returns a source reading from bucket under prefix. A
// non-empty credentialsFile overrides application default credentials, which
// work automatically on Cloud Run. The literal value "anonymous" skips
// authentication entirely, for snapshots in public buckets.
func NewBucketSource(bucket, prefix, credentialsFile string) *BucketSource {
	var opts []option.ClientOption
	switch credentialsFile {
	case "":
	case "anonymous":
		opts = append(opts, option.WithoutAuthentication())
	default:
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	return &BucketSource{bucket: bucket, prefix: prefix, opts: opts}
}

// Fetch downloads every snapshot object into memory. A missing budgets.csv
// object leaves the budgets reader nil; any other missing object is an
// error.
func (s *BucketSource) Fetch(ctx context.Context) (ledger.SnapshotFiles, error) {
	log := logger.FromContext(ctx)
	log.Debug().Str("bucket", s.bucket).Str("prefix", s.prefix).Msg("downloading snapshot objects")

	client, err := storage.NewClient(ctx, s.opts...)
	if err != nil {
		return ledger.SnapshotFiles{}, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	var files ledger.SnapshotFiles
	if files.Customers, err = s.download(ctx, client, CustomersFile); err != nil {
		return ledger.SnapshotFiles{}, err
	}
	if files.Accounts, err = s.download(ctx, client, AccountsFile); err != nil {
		return ledger.SnapshotFiles{}, err
	}
	if files.Transactions, err = s.download(ctx, client, TransactionsFile); err != nil {
		return ledger.SnapshotFiles{}, err
	}
	if files.Categories, err = s.download(ctx, client, CategoriesFile); err != nil {
		return ledger.SnapshotFiles{}, err
	}
	if files.Goals, err = s.download(ctx, client, GoalsFile); err != nil {
		return ledger.SnapshotFiles{}, err
	}

	files.Budgets, err = s.download(ctx, client, BudgetsFile)
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotExist) {
			return ledger.SnapshotFiles{}, err
		}
		files.Budgets = nil
	}
	return files, nil
}

func (s *BucketSource) download(ctx context.Context, client *storage.Client, name string) (io.Reader, error) {
	object := path.Join(s.prefix, name)
	r, err := client.Bucket(s.bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open gs://%s/%s: %w", s.bucket, object, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read gs://%s/%s: %w", s.bucket, object, err)
	}
	return bytes.NewReader(data), nil
}

func (s *BucketSource) Describe() string {
	if s.prefix != "" {
		return fmt.Sprintf("gs://%s/%s", s.bucket, s.prefix)
	}
	return "gs://" + s.bucket
}
