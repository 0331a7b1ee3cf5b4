// Package media decides whether a local file may be attached to a capsule:
// category parsing, MIME inference, whitelist and size validation, and the
// image downscale applied before upload.
package media

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is the kind of attachment. Only one canonical spelling exists;
// legacy aliases are folded into it by ParseCategory.
type Category string

const (
	Image Category = "IMAGE"
	Video Category = "VIDEO"
	Music Category = "MUSIC"
)

const mb = 1024 * 1024

type rule struct {
	extensions []string
	maxSize    int64
}

var rules = map[Category]rule{
	Image: {extensions: []string{"jpg", "jpeg", "png", "webp", "heic", "heif", "gif"}, maxSize: 5 * mb},
	Video: {extensions: []string{"mp4", "mov", "m4v"}, maxSize: 200 * mb},
	Music: {extensions: []string{"mp3", "mpeg", "m4a", "aac", "wav"}, maxSize: 20 * mb},
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{Image, Video, Music}
}

// ParseCategory accepts the canonical names and the aliases that older
// callers used (photo, image, video, music, audio), case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image", "photo", "picture":
		return Image, nil
	case "video":
		return Video, nil
	case "music", "audio", "sound":
		return Music, nil
	}
	return "", fmt.Errorf("unknown media category %q", s)
}

func (c Category) Valid() bool {
	_, ok := rules[c]
	return ok
}

func (c Category) String() string {
	return string(c)
}

// AllowedExtensions returns a copy of the whitelist for c.
func (c Category) AllowedExtensions() []string {
	return append([]string(nil), rules[c].extensions...)
}

// MaxSize is the largest accepted file for c, in bytes.
func (c Category) MaxSize() int64 {
	return rules[c].maxSize
}

// Allows reports whether ext (with or without the leading dot) is whitelisted.
func (c Category) Allows(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, e := range rules[c].extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
