package models

import (
	"path"
	"strconv"
	"strings"
	"time"
)

// FileRecord is a stored file as listed by GET /files/.
//
// File is the backend-provided retrieval URL; FileURL holds the object key
// when the file was uploaded directly to object storage.
type FileRecord struct {
	ID         int64     `json:"id"`
	File       string    `json:"file"`
	Filename   string    `json:"filename"`
	FileSize   int64     `json:"file_size"`
	UploadDate time.Time `json:"upload_date"`
	FileURL    string    `json:"file_url"`
}

// Type is the display type derived from the filename extension.
func (f FileRecord) Type() string {
	return FileType(f.Filename)
}

// FileType maps a filename to a display type.
func FileType(name string) string {
	if name == "" {
		return "Unknown"
	}

	ext := strings.TrimPrefix(path.Ext(name), ".")
	if ext == "" {
		// a name with no dot is its own extension
		ext = name
	}

	switch strings.ToLower(ext) {
	case "pdf":
		return "PDF"
	case "doc", "docx":
		return "Word"
	case "xls", "xlsx":
		return "Excel"
	case "txt":
		return "Text"
	default:
		return strings.ToUpper(ext)
	}
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatFileSize renders a byte count with base-1024 units and at most two
// decimals, e.g. "1.5 KB".
func FormatFileSize(size int64) string {
	if size <= 0 {
		return "0 Bytes"
	}

	v := float64(size)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}

	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")

	return s + " " + sizeUnits[i]
}
