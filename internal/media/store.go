// Package media stores uploaded post images on local disk.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"yatube/internal/models"

	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// PostsDir is the subdirectory of the media root that holds post images.
const PostsDir = "posts"

const invalidImageMessage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

var allowedMIME = map[string]string{
	"image/gif":  "gif",
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/webp": "webp",
}

var formatExt = map[string]string{
	"gif":  ".gif",
	"jpeg": ".jpg",
	"png":  ".png",
	"webp": ".webp",
}

// Store writes images below root and serves them under urlPrefix.
type Store struct {
	root      string
	urlPrefix string
	maxBytes  int64
}

func NewStore(root, urlPrefix string, maxBytes int64) *Store {
	return &Store{
		root:      root,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		maxBytes:  maxBytes,
	}
}

// Root is the directory images are written to.
func (s *Store) Root() string {
	return s.root
}

// URLPrefix is the path images are served under.
func (s *Store) URLPrefix() string {
	return s.urlPrefix
}

// URL returns the public path of a stored image name.
func (s *Store) URL(name string) string {
	if name == "" {
		return ""
	}
	return path.Join(s.urlPrefix, name)
}

// Save stores an uploaded file and returns its name relative to the media root.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.maxBytes {
		return "", s.tooLarge()
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return s.SaveBytes(content)
}

// SaveBytes checks that content is a supported image and writes it under a random name.
func (s *Store) SaveBytes(content []byte) (string, error) {
	if len(content) == 0 {
		return "", models.NewValidationError("The submitted file is empty.")
	}
	if int64(len(content)) > s.maxBytes {
		return "", s.tooLarge()
	}

	if _, ok := allowedMIME[http.DetectContentType(content)]; !ok {
		return "", models.NewValidationError(invalidImageMessage)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return "", models.NewValidationError(invalidImageMessage)
	}
	ext, ok := formatExt[format]
	if !ok {
		return "", models.NewValidationError(invalidImageMessage)
	}

	name := path.Join(PostsDir, uuid.NewString()+ext)
	dst := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return name, nil
}

// Delete removes a stored image. Names outside the posts directory are refused.
func (s *Store) Delete(name string) error {
	clean := path.Clean(name)
	if path.Dir(clean) != PostsDir {
		return fmt.Errorf("refusing to delete %q", name)
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

func (s *Store) tooLarge() error {
	return models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxBytes/(1024*1024)))
}
