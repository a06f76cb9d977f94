package storage

import (
	"path/filepath"
	"strings"
)

var contentTypes = map[string]string{
	".webm": "audio/webm",
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
}

// ContentTypeForName maps an audio file name to its MIME type. Unknown
// extensions fall back to application/octet-stream.
func ContentTypeForName(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
