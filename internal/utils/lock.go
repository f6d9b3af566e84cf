package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	homedir "github.com/mitchellh/go-homedir"
)

const (
	lockFileSuffix = ".lock"
)

// StoreLock manages a file-based lock for the SQLite store, so the CLI and a
// running server never write the same file at once.
type StoreLock struct {
	lock *flock.Flock
	path string
}

// NewStoreLock creates a new lock for the given store path.
func NewStoreLock(storePath string) (*StoreLock, error) {
	absPath, err := GetAbsStorePath(storePath)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute store path: %w", err)
	}
	lockPath := absPath + lockFileSuffix
	return &StoreLock{
		lock: flock.New(lockPath),
		path: lockPath,
	}, nil
}

// Lock acquires the store lock, waiting if necessary.
func (l *StoreLock) Lock() error {
	locked, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}

	if !locked {
		Log.Info("Another immodash process is writing to the store, waiting for it to finish...")
		if err := l.lock.Lock(); err != nil {
			return fmt.Errorf("failed to acquire lock on %s after waiting: %w", l.path, err)
		}
	}
	return nil
}

// Unlock releases the store lock.
func (l *StoreLock) Unlock() error {
	if err := l.lock.Unlock(); err != nil {
		// Suppress error if the lock file doesn't exist, as it means we don't hold the lock.
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}

// GetAbsStorePath resolves the store path, defaulting to the user config dir.
// A leading ~ is expanded.
func GetAbsStorePath(storePath string) (string, error) {
	if storePath == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "immodash", "immodash.sqlite"), nil
	}
	expanded, err := homedir.Expand(storePath)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}
