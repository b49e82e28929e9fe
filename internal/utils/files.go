package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var ErrUnsupportedFileType = errors.New("unsupported file type")

// Расширения, которые принимаем от мобильного клиента.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".mp4":  true,
	".mov":  true,
	".m4a":  true,
	".mp3":  true,
	".wav":  true,
}

// FileStore кладёт загруженные файлы под root/<subdir>/ со случайным
// именем, чтобы не доверять имени файла клиента.
type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Save сохраняет файл и возвращает путь относительно корня хранилища,
// например "community/3f1c....jpg".
func (fs *FileStore) Save(c *gin.Context, file *multipart.FileHeader, subdir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedFileType
	}

	dir := filepath.Join(fs.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("files: mkdir: %w", err)
	}

	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("files: save: %w", err)
	}
	return filepath.ToSlash(filepath.Join(subdir, name)), nil
}
