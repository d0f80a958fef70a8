package media

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"malldepot/config"
)

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

const thumbWidth = 200

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store writes item pictures under a media directory and derives a webp
// thumbnail next to each original. File names are item codes, so one
// picture per item and re-uploads overwrite.
type Store struct {
	dir string
}

func NewStore(cfg *config.Config) *Store {
	return &Store{dir: cfg.MediaDir}
}

// SavePicture persists the uploaded picture for an item and returns the
// relative path to store on the item record.
func (s *Store) SavePicture(itemCode string, file *multipart.FileHeader) (string, error) {
	if file.Size > maxUploadSizeBytes {
		return "", fmt.Errorf("picture exceeds %d byte limit", maxUploadSizeBytes)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		return "", fmt.Errorf("unsupported picture type %q", ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	name := itemCode + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}
	if err := s.writeThumbnail(itemCode, data); err != nil {
		return "", err
	}
	return name, nil
}

// writeThumbnail renders a fixed-width webp preview used by listing pages.
func (s *Store) writeThumbnail(itemCode string, data []byte) error {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode picture: %w", err)
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, thumb, &webp.Options{Quality: 80}); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return os.WriteFile(s.thumbPath(itemCode), buf.Bytes(), 0o644)
}

// RemovePicture deletes the original and the thumbnail. Missing files are
// not an error; the item may never have had a picture.
func (s *Store) RemovePicture(itemCode, pictureName string) error {
	if pictureName != "" {
		if err := os.Remove(filepath.Join(s.dir, pictureName)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	if err := os.Remove(s.thumbPath(itemCode)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// PicturePath resolves a stored picture name to a path on disk.
func (s *Store) PicturePath(pictureName string) string {
	return filepath.Join(s.dir, pictureName)
}

func (s *Store) thumbPath(itemCode string) string {
	return filepath.Join(s.dir, itemCode+"_thumb.webp")
}
