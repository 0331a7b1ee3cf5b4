package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrFileNotFound         = errors.New("file not found")
	ErrFileTooLarge         = errors.New("file too large")
)

// ValidationKind names the check that rejected a file.
type ValidationKind int

const (
	UnsupportedExtension ValidationKind = iota + 1
	FileNotFound
	FileTooLarge
)

func (k ValidationKind) sentinel() error {
	switch k {
	case UnsupportedExtension:
		return ErrUnsupportedExtension
	case FileNotFound:
		return ErrFileNotFound
	case FileTooLarge:
		return ErrFileTooLarge
	}
	return nil
}

// ValidationError is a local, user-facing rejection. It never reaches the
// network and is not retried.
type ValidationError struct {
	Kind     ValidationKind
	Category Category
	Message  string
	Err      error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrFileTooLarge) and friends match by kind.
func (e *ValidationError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// CheckExtension runs only the whitelist half of ValidateFile.
func CheckExtension(category Category, filename string) error {
	if !category.Valid() {
		return &ValidationError{
			Kind:    UnsupportedExtension,
			Message: fmt.Sprintf("unknown media category %q", category),
		}
	}
	if category.Allows(Extension(filename)) {
		return nil
	}
	return &ValidationError{
		Kind:     UnsupportedExtension,
		Category: category,
		Message: fmt.Sprintf("%s files must be one of: %s",
			strings.ToLower(string(category)), strings.Join(category.AllowedExtensions(), ", ")),
	}
}

// CheckSize compares an already measured size against the category limit.
func CheckSize(category Category, size int64) error {
	if size <= category.MaxSize() {
		return nil
	}
	return &ValidationError{
		Kind:     FileTooLarge,
		Category: category,
		Message: fmt.Sprintf("%s files may not exceed %d MB",
			strings.ToLower(string(category)), category.MaxSize()/mb),
	}
}

// ValidateFile checks that filename has a whitelisted extension for category
// and that the file at path is no larger than the category limit. When
// filename is empty the base name of path is used.
func ValidateFile(path string, category Category, filename string) error {
	if filename == "" {
		filename = filepath.Base(path)
	}
	if err := CheckExtension(category, filename); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{
			Kind:     FileNotFound,
			Category: category,
			Message:  fmt.Sprintf("cannot read %s", filename),
			Err:      err,
		}
	}
	if info.IsDir() {
		return &ValidationError{
			Kind:     FileNotFound,
			Category: category,
			Message:  fmt.Sprintf("%s is a directory", filename),
		}
	}

	return CheckSize(category, info.Size())
}
