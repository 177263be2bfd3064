package importers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrlokans/journo/internal/cache"
	"github.com/mrlokans/journo/internal/utils"
)

// FilePrefix keeps copied files apart from API artifacts.
const FilePrefix = "file-"

// ImportFile copies a local file into the import folder and returns the
// destination path. Copied files are stored as-is and are not read when
// building thoughts.
func ImportFile(store *cache.Store, src string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", src, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	dst := filepath.Join(store.Dir(), FilePrefix+utils.SanitizeFilename(filepath.Base(src)))

	tmpFile, err := os.CreateTemp(store.Dir(), ".import-*")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, in); err != nil {
		return "", fmt.Errorf("copy %s: %w", src, err)
	}
	if err := tmpFile.Chmod(cache.FileMode); err != nil {
		return "", err
	}
	if err := tmpFile.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return "", err
	}
	return dst, nil
}
