package dlna

import (
	"path"
	"strings"
)

var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".flac": "audio/flac",
	".wma":  "audio/x-ms-wma",
	".wav":  "audio/x-wav",
	".pcm":  "audio/L16",
	".ogg":  "application/ogg",
	".oga":  "audio/ogg",
	".avi":  "video/x-msvideo",
	".mpg":  "video/mpeg",
	".mpeg": "video/mpeg",
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".ts":   "video/mp2t",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".mov":  "video/quicktime",
	".3gp":  "video/3gpp",
}

// MimeType returns the MIME type for a file name or URL path based on its
// extension, or "application/octet-stream" if unknown.
func MimeType(name string) string {
	if m, ok := mimeTypes[strings.ToLower(path.Ext(name))]; ok {
		return m
	}
	return "application/octet-stream"
}
