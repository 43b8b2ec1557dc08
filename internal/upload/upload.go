package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/PauloHFS/goth-blog/internal/validator"
	"github.com/google/uuid"
)

// URLPrefix is where the storage root is served from.
const URLPrefix = "/storage/"

type Config struct {
	MaxSize   int64
	Directory string
}

var PostImageConfig = Config{
	MaxSize:   10 * 1024 * 1024, // 10MB
	Directory: "posts",
}

type Result struct {
	Path     string
	Filename string
	Size     int64
	MIMEType string
	URL      string
}

type UploadError struct {
	Code    string
	Message string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func IsUploadError(err error) bool {
	var ue *UploadError
	return errors.As(err, &ue)
}

// IsNoFile reports whether err means the form simply had no file attached.
func IsNoFile(err error) bool {
	var ue *UploadError
	return errors.As(err, &ue) && ue.Code == "NO_FILE"
}

// Store writes uploads below Root, which is served at URLPrefix.
type Store struct {
	Root string
}

func NewStore(root string) *Store {
	return &Store{Root: root}
}

func (s *Store) SaveFile(r *http.Request, fieldName string, cfg Config) (*Result, error) {
	file, header, err := r.FormFile(fieldName)
	if err != nil {
		return nil, &UploadError{Code: "NO_FILE", Message: "no file uploaded"}
	}
	defer file.Close()

	if header.Size > cfg.MaxSize {
		return nil, &UploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("file exceeds the %dMB limit", cfg.MaxSize/1024/1024),
		}
	}

	contentType := header.Header.Get("Content-Type")
	if err := validator.ValidateUpload(header.Filename, contentType, cfg.MaxSize, header.Size); err != nil {
		return nil, &UploadError{Code: "INVALID_FILE", Message: err.Error()}
	}

	dir := filepath.Join(s.Root, cfg.Directory)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &UploadError{
			Code:    "DIRECTORY_ERROR",
			Message: "failed to create upload directory",
		}
	}

	filename := generateFilename(header.Filename)
	dstPath := filepath.Join(dir, filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, &UploadError{
			Code:    "CREATE_ERROR",
			Message: "failed to create file",
		}
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(dstPath)
		return nil, &UploadError{
			Code:    "WRITE_ERROR",
			Message: "failed to save file",
		}
	}

	return &Result{
		Path:     dstPath,
		Filename: filename,
		Size:     written,
		MIMEType: contentType,
		URL:      URLPrefix + cfg.Directory + "/" + filename,
	}, nil
}

// DeleteURL removes the file a URL returned by SaveFile points to. URLs
// outside the storage root are ignored.
func (s *Store) DeleteURL(url string) error {
	rel, ok := strings.CutPrefix(url, URLPrefix)
	if !ok || rel == "" {
		return nil
	}
	path := filepath.Join(s.Root, filepath.FromSlash(rel))
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return nil
	}
	if !FileExists(abs) {
		return nil
	}
	return DeleteFile(abs)
}

func generateFilename(original string) string {
	unique := uuid.New().String()[:8]
	return unique + "_" + validator.SanitizeFilename(original)
}

func DeleteFile(path string) error {
	return os.Remove(path)
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
