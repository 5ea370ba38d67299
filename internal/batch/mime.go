package batch

import (
	"path/filepath"
	"strings"
)

// defaultFileType is reported when a file's extension is unknown.
const defaultFileType = "application/octet-stream"

var fileTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".bmp":  "image/bmp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".mp4":  "video/mp4",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".mkv":  "video/x-matroska",
}

// FileTypeFromName maps a file name to its MIME type by extension,
// falling back to application/octet-stream.
func FileTypeFromName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mt, ok := fileTypes[ext]; ok {
		return mt
	}
	return defaultFileType
}
