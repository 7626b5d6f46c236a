package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/whoAngeel/proshooter-backend-sub000/internal/utils"
	"github.com/whoAngeel/proshooter-backend-sub000/pkg/storage"
)

// openDB resolves the configured database path, takes the cross-process
// file lock and opens the store. The returned cleanup releases both.
func openDB(cmd *cobra.Command, write bool) (*storage.DB, func(), error) {
	dbPath, _ := cmd.Flags().GetString("dbpath")
	absPath, err := utils.GetAbsDBPath(dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, nil, err
	}

	var lock *utils.DBLock
	if write {
		lock, err = utils.NewDBLock(dbPath)
		if err != nil {
			return nil, nil, err
		}
		if err := lock.Lock(); err != nil {
			return nil, nil, err
		}
	}

	db, err := storage.Open(absPath)
	if err != nil {
		if lock != nil {
			_ = lock.Unlock()
		}
		return nil, nil, fmt.Errorf("opening database %s: %w", absPath, err)
	}

	cleanup := func() {
		_ = db.Close()
		if lock != nil {
			_ = lock.Unlock()
		}
	}
	return db, cleanup, nil
}
