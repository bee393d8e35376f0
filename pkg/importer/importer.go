// Package importer loads browsing history from browser profile databases
// into the hindsight store. Browsers keep their databases locked while
// running, so each import copies the database to a temp directory and opens
// the copy read-only.
package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hindsight-tools/hindsight/pkg/log"
)

var logger = log.ForComponent("importer")

// Report summarizes what one import run wrote.
type Report struct {
	Pages     int
	Visits    int
	Bookmarks int
}

// openCopy copies the database at src into a fresh temp directory and opens
// the copy read-only. The returned cleanup closes the handle and removes the
// temp directory.
func openCopy(src string) (*sql.DB, func(), error) {
	tempDir, err := os.MkdirTemp("", "hindsight_import_*")
	if err != nil {
		return nil, nil, fmt.Errorf("creating temp directory: %w", err)
	}

	tmpDB := filepath.Join(tempDir, filepath.Base(src))
	if err := copyFile(src, tmpDB); err != nil {
		os.RemoveAll(tempDir)
		return nil, nil, err
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", tmpDB))
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, nil, fmt.Errorf("opening database in read-only mode: %w", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Warnf("failed to close database: %v", err)
		}
		if err := os.RemoveAll(tempDir); err != nil {
			logger.Warnf("failed to remove temp directory: %v", err)
		}
	}
	return db, cleanup, nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source file: %w", err)
	}
	defer func() {
		if err := sourceFile.Close(); err != nil {
			logger.Warnf("failed to close source file: %v", err)
		}
	}()

	destFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating destination file: %w", err)
	}
	defer func() {
		if err := destFile.Close(); err != nil {
			logger.Warnf("failed to close destination file: %v", err)
		}
	}()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return nil
}

func tableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx,
		"SELECT 1 FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s table existence: %w", name, err)
	}
	return true, nil
}
