package filestorage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/mentorhub/internal/pkg/logger"
)

// FileStorage stores generated documents and returns the URL they are served at
type FileStorage interface {
	// SaveBytes writes data under subPath with a generated name ending in ext
	SaveBytes(subPath, ext string, data []byte) (string, error)

	// GetFullPath returns the filesystem path for a URL returned by SaveBytes
	GetFullPath(fileURL string) string
}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // Prefix for returned URLs; "/uploads" when empty
}

// NewLocalStorage creates a new LocalStorage instance.
// basePath is the required directory path on the server.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// cleanSubPath keeps subPath inside the storage root.
func cleanSubPath(subPath string) (string, error) {
	if subPath == "" {
		return "", nil
	}
	cleaned := path.Clean("/" + filepath.ToSlash(subPath))[1:]
	if strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid storage path %q", subPath)
	}
	return cleaned, nil
}

// SaveBytes writes data to a uniquely named file and returns its URL
func (ls *LocalStorage) SaveBytes(subPath, ext string, data []byte) (string, error) {
	subPath, err := cleanSubPath(subPath)
	if err != nil {
		return "", err
	}

	fullDirPath := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write file")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	accessiblePath := ls.baseURL + "/" + uniqueFilename
	if subPath != "" {
		accessiblePath = ls.baseURL + "/" + subPath + "/" + uniqueFilename
	}

	logger.Info().Str("saved_as", dstPath).Str("accessible_path", accessiblePath).Int("bytes", len(data)).Msg("File saved successfully")
	return accessiblePath, nil
}

// GetFullPath returns the full filesystem path for a given file URL.
func (ls *LocalStorage) GetFullPath(fileURL string) string {
	rel := strings.TrimPrefix(fileURL, ls.baseURL)
	rel, err := cleanSubPath(strings.TrimPrefix(rel, "/"))
	if err != nil || rel == "" {
		return ""
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(rel))
}

var _ FileStorage = (*LocalStorage)(nil)
