package intake

import (
	"bytes"
	"errors"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// ole2Signature opens every compound document, including legacy .doc files.
var ole2Signature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

var allowedMimeTypes = []string{MimePDF, MimeDOC, MimeDOCX}

var mimeExtensions = map[string]string{
	MimePDF:  "pdf",
	MimeDOC:  "doc",
	MimeDOCX: "docx",
}

// FileValidator classifies uploads by their magic bytes.
type FileValidator struct {
	MaxSize int64
}

// Validate returns the detected MIME type of data, ignoring any declared type.
func (v FileValidator) Validate(data []byte) (string, error) {
	if int64(len(data)) > v.MaxSize {
		return "", ErrFileTooLarge
	}

	if len(data) >= len(ole2Signature) && bytes.Equal(data[:len(ole2Signature)], ole2Signature) {
		return MimeDOC, nil
	}

	detected := mimetype.Detect(data)
	for _, allowed := range allowedMimeTypes {
		if detected.Is(allowed) {
			return allowed, nil
		}
	}
	return "", ErrUnsupportedFileType
}

// ExtensionFor maps an accepted MIME type to a storage extension.
func ExtensionFor(mimeType string) string {
	if ext, ok := mimeExtensions[mimeType]; ok {
		return ext
	}
	return "bin"
}
