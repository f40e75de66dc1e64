package utils

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrNotVideo is returned when an upload does not sniff as a video container.
var ErrNotVideo = errors.New("file is not a video")

// NewFileKey builds a unique object key that keeps the upload's extension.
func NewFileKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\ ") {
		ext = ""
	}
	return uuid.NewString() + ext
}

// DetectVideo sniffs the first bytes of file and returns its MIME type. The
// reader is rewound so the whole file can be uploaded afterwards.
func DetectVideo(file io.ReadSeeker) (string, error) {
	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	if !strings.HasPrefix(mtype.String(), "video/") {
		return mtype.String(), ErrNotVideo
	}
	return mtype.String(), nil
}
