package validation

import (
	"fmt"
)

// MaxUploadSize is the inclusive ceiling for a single image: exactly
// 5 MiB passes, one byte over fails.
const MaxUploadSize = 5 * 1024 * 1024

// UploadPolicy configures the upload rules. WebP support differs between
// call sites of the original admin surface, so it stays a switch.
type UploadPolicy struct {
	MaxSize   int64
	AllowWebP bool
}

func DefaultUploadPolicy() UploadPolicy {
	return UploadPolicy{MaxSize: MaxUploadSize}
}

var rasterTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
}

// CheckUpload validates a candidate file's declared MIME type and byte
// size against the policy. Pure: no I/O, no side effects.
func CheckUpload(mimeType string, size int64, policy UploadPolicy) error {
	if policy.MaxSize <= 0 {
		policy.MaxSize = MaxUploadSize
	}

	if !rasterTypes[mimeType] && !(policy.AllowWebP && mimeType == "image/webp") {
		allowed := "PNG, JPEG and GIF"
		if policy.AllowWebP {
			allowed = "PNG, JPEG, GIF and WebP"
		}
		return newError(fmt.Sprintf("unsupported file type %q: only %s images are allowed", mimeType, allowed))
	}

	if size > policy.MaxSize {
		return newError(fmt.Sprintf("file too large: %d bytes exceeds the %d byte limit", size, policy.MaxSize))
	}

	return nil
}
