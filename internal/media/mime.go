package media

import (
	"strings"

	"github.com/dmitrijs2005/timecapsule/internal/common"
)

var mimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"heic": "image/heic",
	"heif": "image/heif",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"mp4":  "video/mp4",
	"mov":  "video/quicktime",
	"m4v":  "video/x-m4v",
	"mp3":  "audio/mpeg",
	"mpeg": "audio/mpeg",
	"m4a":  "audio/mp4",
	"aac":  "audio/aac",
	"wav":  "audio/wav",
}

// Extension returns the lowercase text after the final '.', or "" if the
// name has none.
func Extension(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 || i == len(filename)-1 {
		return ""
	}
	ext := filename[i+1:]
	if strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return strings.ToLower(ext)
}

// InferMimeType maps the file extension to a MIME type. Unknown or missing
// extensions give application/octet-stream.
func InferMimeType(filename string) string {
	if t, ok := mimeTypes[Extension(filename)]; ok {
		return t
	}
	return common.OctetStream
}
