package antispam

import (
	"fmt"
	"mime/multipart"
	"slices"
	"strings"

	"github.com/mccastellazzob/motoclub/internal/util"
)

// Attachment limits
const (
	MaxFileSize = 5 * 1024 * 1024
	MaxFiles    = 3
)

// AllowedExtensions lists the accepted attachment extensions.
var AllowedExtensions = []string{".pdf", ".jpg", ".jpeg", ".png", ".doc", ".docx", ".txt"}

// Attachment error codes
const (
	CodeTooManyFiles    = "too_many_files"
	CodeFileType        = "file_type"
	CodeFileTooLarge    = "file_too_large"
	CodeInvalidFileName = "invalid_file_name"
)

// AttachmentLimits configures ValidateAttachments.
type AttachmentLimits struct {
	MaxFiles          int
	MaxFileSize       int64
	AllowedExtensions []string
}

// DefaultAttachmentLimits returns the contact form limits.
func DefaultAttachmentLimits() AttachmentLimits {
	return AttachmentLimits{
		MaxFiles:          MaxFiles,
		MaxFileSize:       MaxFileSize,
		AllowedExtensions: AllowedExtensions,
	}
}

// AttachmentError describes one rejected file, or the count overflow when
// Filename is empty.
type AttachmentError struct {
	Code     string
	Filename string
	Message  string
}

func (e AttachmentError) Error() string {
	return e.Message
}

// ValidateAttachments returns the files that pass the limits and one error
// per rejection. Empty uploads are ignored. Files beyond MaxFiles are dropped with a single error entry
// and the remaining files are still checked.
func ValidateAttachments(files []*multipart.FileHeader, limits AttachmentLimits) ([]*multipart.FileHeader, []AttachmentError) {
	var (
		valid []*multipart.FileHeader
		errs  []AttachmentError
	)

	if limits.MaxFiles > 0 && len(files) > limits.MaxFiles {
		errs = append(errs, AttachmentError{
			Code:    CodeTooManyFiles,
			Message: fmt.Sprintf("at most %d files may be attached", limits.MaxFiles),
		})
		files = files[:limits.MaxFiles]
	}

	for _, f := range files {
		if f == nil || f.Filename == "" || f.Size == 0 {
			continue
		}

		name, err := util.SanitizeFilename(f.Filename)
		if err != nil {
			errs = append(errs, AttachmentError{
				Code:     CodeInvalidFileName,
				Filename: f.Filename,
				Message:  fmt.Sprintf("invalid file name: %q", f.Filename),
			})
			continue
		}

		ext := util.FileExtension(name)
		if !slices.Contains(limits.AllowedExtensions, ext) {
			errs = append(errs, AttachmentError{
				Code:     CodeFileType,
				Filename: name,
				Message: fmt.Sprintf("file type not allowed: %s (use %s)",
					name, strings.Join(limits.AllowedExtensions, ", ")),
			})
			continue
		}

		if limits.MaxFileSize > 0 && f.Size > limits.MaxFileSize {
			errs = append(errs, AttachmentError{
				Code:     CodeFileTooLarge,
				Filename: name,
				Message:  fmt.Sprintf("file too large: %s (max %d MB)", name, limits.MaxFileSize/(1024*1024)),
			})
			continue
		}

		valid = append(valid, f)
	}

	return valid, errs
}
