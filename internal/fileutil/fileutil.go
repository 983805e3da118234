package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// WriteFileAtomic writes data to a temp file in the destination directory and
// renames it into place, so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// backupStampLayout orders backups of the same file chronologically.
const backupStampLayout = "20060102T150405Z"

// BackupFile copies path to path.<UTC stamp>.bak and returns the backup
// location. A SQLite write-ahead log next to path is copied alongside so the
// backup opens with every committed row. A missing source is not an error;
// the returned path is empty in that case.
func BackupFile(path string, now time.Time) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("stat source: %w", err)
	}
	dst := path + "." + now.UTC().Format(backupStampLayout) + ".bak"
	if err := copyVerified(path, dst); err != nil {
		return "", err
	}
	if _, err := os.Stat(path + "-wal"); err == nil {
		if err := copyVerified(path+"-wal", dst+"-wal"); err != nil {
			_ = os.Remove(dst)
			return "", err
		}
	}
	return dst, nil
}

// copyVerified streams src to dst and compares SHA-256 digests of both
// sides. dst is removed on mismatch.
func copyVerified(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}

	read := sha256.New()
	wrote := sha256.New()
	_, copyErr := io.Copy(io.MultiWriter(out, wrote), io.TeeReader(in, read))
	closeErr := out.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(dst)
		return fmt.Errorf("copy %s: %w", filepath.Base(src), copyErr)
	case closeErr != nil:
		_ = os.Remove(dst)
		return fmt.Errorf("close backup: %w", closeErr)
	case !bytes.Equal(read.Sum(nil), wrote.Sum(nil)):
		_ = os.Remove(dst)
		return fmt.Errorf("backup of %s does not match source", filepath.Base(src))
	}
	return nil
}
