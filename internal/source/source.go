// Package source validates user-supplied files before they enter the
// pipeline.
package source

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/meeting-brief/internal/models"
)

// MaxFileSize is the hard ceiling for any accepted file.
const MaxFileSize = 25 * 1024 * 1024

var (
	ErrValidation  = errors.New("invalid file")
	ErrUnsupported = fmt.Errorf("%w: unsupported format, use MP3, WAV, M4A, OGG, TXT, PDF or DOCX", ErrValidation)
	ErrTooLarge    = fmt.Errorf("%w: file too large, maximum 25MB", ErrValidation)
	ErrEmpty       = fmt.Errorf("%w: file is empty", ErrValidation)
)

var extensionKinds = map[string]models.FileKind{
	".mp3":  models.KindAudio,
	".wav":  models.KindAudio,
	".m4a":  models.KindAudio,
	".ogg":  models.KindAudio,
	".txt":  models.KindText,
	".pdf":  models.KindPDF,
	".doc":  models.KindWord,
	".docx": models.KindWord,
}

var mimeKinds = map[string]models.FileKind{
	"audio/mp3":          models.KindAudio,
	"audio/mpeg":         models.KindAudio,
	"audio/wav":          models.KindAudio,
	"audio/x-m4a":        models.KindAudio,
	"audio/ogg":          models.KindAudio,
	"text/plain":         models.KindText,
	"application/pdf":    models.KindPDF,
	"application/msword": models.KindWord,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": models.KindWord,
}

// Validate checks the type allow-list and the size ceiling. A file passes
// the type check when either its declared MIME type or its extension is
// allowed.
func Validate(f models.SourceFile) error {
	if KindOf(f) == models.KindUnknown {
		return fmt.Errorf("%s: %w", f.Name, ErrUnsupported)
	}
	if f.Size > MaxFileSize {
		return fmt.Errorf("%s (%d bytes): %w", f.Name, f.Size, ErrTooLarge)
	}
	if f.Size == 0 {
		return fmt.Errorf("%s: %w", f.Name, ErrEmpty)
	}
	return nil
}

// KindOf classifies f by extension first, then by declared MIME type.
// Sniffed content never admits a file.
func KindOf(f models.SourceFile) models.FileKind {
	if k, ok := extensionKinds[strings.ToLower(filepath.Ext(f.Name))]; ok {
		return k
	}
	if k, ok := mimeKinds[baseMediaType(f.DeclaredType)]; ok {
		return k
	}
	return models.KindUnknown
}

// IsSupported reports whether path carries an accepted extension.
func IsSupported(path string) bool {
	_, ok := extensionKinds[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions lists accepted extensions for log output.
func Extensions() []string {
	return []string{".mp3", ".wav", ".m4a", ".ogg", ".txt", ".pdf", ".doc", ".docx"}
}

// FromBytes builds a SourceFile from an in-memory upload.
func FromBytes(name, declaredType string, data []byte) models.SourceFile {
	return models.SourceFile{
		Name:         filepath.Base(name),
		Size:         int64(len(data)),
		DeclaredType: declaredType,
		SniffedType:  http.DetectContentType(data),
		Data:         data,
	}
}

// FromPath reads a file from disk. Files above the ceiling are not read;
// the returned SourceFile carries only the size so Validate rejects it.
func FromPath(path string) (models.SourceFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.SourceFile{}, fmt.Errorf("stat %s: %w", path, err)
	}

	f := models.SourceFile{
		Name:         filepath.Base(path),
		Size:         info.Size(),
		DeclaredType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
	}
	if info.Size() > MaxFileSize {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.SourceFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	f.Data = data
	f.Size = int64(len(data))
	f.SniffedType = http.DetectContentType(data)
	return f, nil
}

func baseMediaType(t string) string {
	if t == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(t)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(t))
	}
	return mt
}
