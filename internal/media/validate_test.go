package media

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sizedFile creates a sparse file of the given size.
func sizedFile(t *testing.T, name string, size int64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(size))
	require.NoError(t, f.Close())
	return path
}

func TestValidateFile_UnsupportedExtension(t *testing.T) {
	path := sizedFile(t, "photo.bmp", 1024)

	err := ValidateFile(path, Image, "photo.bmp")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedExtension)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, UnsupportedExtension, verr.Kind)
	assert.Contains(t, verr.Message, "jpeg")
}

func TestValidateFile_ImageTooLarge(t *testing.T) {
	path := sizedFile(t, "big.jpg", 6*1024*1024)

	err := ValidateFile(path, Image, "big.jpg")

	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Contains(t, err.Error(), "5 MB")
}

func TestValidateFile_FileNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.mp4")

	err := ValidateFile(path, Video, "")

	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateFile_Matrix(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		filename string
		size     int64
		wantErr  error
	}{
		{"image at limit", Image, "a.png", 5 * 1024 * 1024, nil},
		{"image over limit", Image, "a.png", 5*1024*1024 + 1, ErrFileTooLarge},
		{"heic allowed", Image, "a.heic", 10, nil},
		{"video mov", Video, "a.mov", 100 * 1024 * 1024, nil},
		{"video over limit", Video, "a.mp4", 200*1024*1024 + 1, ErrFileTooLarge},
		{"video as image rejected", Image, "a.mp4", 10, ErrUnsupportedExtension},
		{"music wav", Music, "a.wav", 20 * 1024 * 1024, nil},
		{"music over limit", Music, "a.mp3", 21 * 1024 * 1024, ErrFileTooLarge},
		{"music flac rejected", Music, "a.flac", 10, ErrUnsupportedExtension},
		{"no extension", Music, "track", 10, ErrUnsupportedExtension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := sizedFile(t, "upload.bin", tt.size)
			err := ValidateFile(path, tt.category, tt.filename)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateFile_ExtensionCheckedBeforeDisk(t *testing.T) {
	err := ValidateFile(filepath.Join(t.TempDir(), "nope.bmp"), Image, "")
	assert.ErrorIs(t, err, ErrUnsupportedExtension)
}

func TestValidateFile_UnknownCategory(t *testing.T) {
	path := sizedFile(t, "a.jpg", 1)
	err := ValidateFile(path, Category("DOC"), "")
	assert.ErrorIs(t, err, ErrUnsupportedExtension)
}
