package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/breckhall/finsight/internal/ledger"
)

// DirSource reads snapshot files from a local directory.
type DirSource struct {
	dir string
}

// NewDirSource returns a source reading from dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Fetch reads every snapshot file into memory. A missing budgets.csv leaves
// the budgets reader nil; any other missing file is an error.
func (s *DirSource) Fetch(ctx context.Context) (ledger.SnapshotFiles, error) {
	var files ledger.SnapshotFiles
	var err error

	if files.Customers, err = s.read(CustomersFile); err != nil {
		return ledger.SnapshotFiles{}, err
	}
	if files.Accounts, err = s.read(AccountsFile); err != nil {
		return ledger.SnapshotFiles{}, err
	}
	if files.Transactions, err = s.read(TransactionsFile); err != nil {
		return ledger.SnapshotFiles{}, err
	}
	if files.Categories, err = s.read(CategoriesFile); err != nil {
		return ledger.SnapshotFiles{}, err
	}
	if files.Goals, err = s.read(GoalsFile); err != nil {
		return ledger.SnapshotFiles{}, err
	}

	files.Budgets, err = s.read(BudgetsFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return ledger.SnapshotFiles{}, err
		}
		files.Budgets = nil
	}
	return files, nil
}

func (s *DirSource) read(name string) (io.Reader, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return bytes.NewReader(data), nil
}

func (s *DirSource) Describe() string {
	return "dir:" + s.dir
}
