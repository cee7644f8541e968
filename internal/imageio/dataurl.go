// internal/imageio/dataurl.go
package imageio

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// mimeByExt maps image file extensions to MIME types for data URLs.
var mimeByExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
}

// MIMEForPath returns the image MIME type for a file path, defaulting to
// application/octet-stream for unknown extensions.
func MIMEForPath(path string) string {
	if mime, ok := mimeByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsImagePath reports whether the path has a known raster image extension.
func IsImagePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext != ".svg" && mimeByExt[ext] != ""
}

// LoadDataURL reads an image file and returns it as a base64 data URL for
// the frontend canvas. Decoding the pixels is the webview's job.
func LoadDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return fmt.Sprintf("data:%s;base64,%s", MIMEForPath(path), base64.StdEncoding.EncodeToString(data)), nil
}

// SaveDataURL decodes a data URL (or bare base64 payload) and writes it to
// a file, creating parent directories as needed.
func SaveDataURL(path, dataURL string) error {
	payload := dataURL
	if comma := strings.IndexByte(dataURL, ','); comma >= 0 {
		payload = dataURL[comma+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("decode image data: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	if err := os.WriteFile(path, decoded, 0644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}
