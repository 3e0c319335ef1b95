package imagestore

import (
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	MaxSize = 5 * 1024 * 1024
	MinSize = 1

	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeGIF  = "image/gif"
)

// Allowed type sets for the upload endpoints.
var (
	ProfileTypes = []string{MimePNG, MimeJPEG, MimeGIF}
	BannerTypes  = []string{MimeJPEG, MimePNG}
	PostTypes    = []string{MimePNG, MimeJPEG, MimeGIF}
)

var extensions = map[string]string{
	MimePNG:  "png",
	MimeJPEG: "jpg",
	MimeGIF:  "gif",
}

// ValidationError explains why an upload was rejected.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Image is a validated upload ready to be stored.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// Validate checks size and type of an upload and assigns it a fresh name.
// The declared content type must be allowed and must match what the magic
// number says the bytes are.
func Validate(declared string, data []byte, allowed []string) (Image, error) {
	declared = strings.ToLower(strings.TrimSpace(strings.SplitN(declared, ";", 2)[0]))
	if !contains(allowed, declared) {
		return Image{}, &ValidationError{Reason: "Invalid mimetype"}
	}
	if len(data) > MaxSize {
		return Image{}, &ValidationError{Reason: "File too large"}
	}
	if len(data) < MinSize {
		return Image{}, &ValidationError{Reason: "File too small"}
	}

	detected := mimetype.Detect(data)
	if !contains(allowed, detected.String()) {
		return Image{}, &ValidationError{Reason: "Invalid mimetype"}
	}
	if !detected.Is(declared) {
		return Image{}, &ValidationError{Reason: "Invalid mimetype, mimetype does not match header"}
	}

	return Image{
		Name:        fmt.Sprintf("%s.%s", uuid.NewString(), extensions[declared]),
		ContentType: declared,
		Data:        data,
	}, nil
}

// ContentTypeOf guesses a stored image's type from its extension.
func ContentTypeOf(name string) string {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	for mime, e := range extensions {
		if e == ext {
			return mime
		}
	}
	return "application/octet-stream"
}

// IsPlaceholder reports whether name is one of the default pictures, which
// are never deleted.
func IsPlaceholder(name string) bool {
	return name == "placeholder-profile.jpg" || name == "placeholder-banner.jpg"
}

// safeName rejects anything that could escape the kind folder.
func safeName(name string) bool {
	return name != "" && name == path.Base(name) && !strings.Contains(name, "..") && !strings.ContainsAny(name, `/\`)
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
