// Package uploads stores contact photos on local disk.
//
// Files are accepted as-is: there is no content-type or size check beyond
// the multipart memory limit of the HTTP layer.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// FieldName is the multipart field carrying the photo.
const FieldName = "photo"

var ErrInvalidName = errors.New("invalid photo filename")

type Store struct {
	dir string
	now func() time.Time
}

// NewStore returns a store writing into dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save writes the uploaded file as <unix millis><original extension> and
// returns the stored filename. On a name collision the timestamp is bumped.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ext := filepath.Ext(filepath.Base(fh.Filename))
	stamp := s.now().UnixMilli()
	for {
		name := strconv.FormatInt(stamp, 10) + ext
		dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			stamp++
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create photo: %w", err)
		}

		_, err = io.Copy(dst, src)
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(dst.Name())
			return "", fmt.Errorf("write photo: %w", err)
		}
		return name, nil
	}
}

// Remove deletes a stored photo. Only plain filenames inside the upload
// directory are accepted.
func (s *Store) Remove(name string) error {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return ErrInvalidName
	}
	return os.Remove(filepath.Join(s.dir, name))
}
