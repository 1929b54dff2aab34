package sanitize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultMaxBytes is the size ceiling for pasted documents.
const DefaultMaxBytes = 1 << 20

var (
	ErrEmptyDocument    = errors.New("document is empty")
	ErrNotHTMLDocument  = errors.New("document has no <!DOCTYPE html> or <html> tag")
	ErrDocumentTooLarge = errors.New("document exceeds size limit")
)

var base64Image = regexp.MustCompile(`data:image/[^;]+;base64,`)

// Report describes a document that passed Check.
type Report struct {
	Size         int      `json:"size"`
	Base64Images int      `json:"base64_images"`
	Warnings     []string `json:"warnings,omitempty"`
}

// Check validates a pasted document before it is sanitized and stored. Size
// and structure problems are errors; embedded base64 images only warn.
func Check(doc string, maxBytes int) (Report, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	r := Report{Size: len(doc)}
	if strings.TrimSpace(doc) == "" {
		return r, ErrEmptyDocument
	}
	if r.Size > maxBytes {
		return r, fmt.Errorf("%w: %d bytes, limit %d", ErrDocumentTooLarge, r.Size, maxBytes)
	}
	lower := strings.ToLower(doc)
	if !strings.Contains(lower, "<!doctype html") && !strings.Contains(lower, "<html") {
		return r, ErrNotHTMLDocument
	}
	if n := len(base64Image.FindAllStringIndex(doc, -1)); n > 0 {
		r.Base64Images = n
		r.Warnings = append(r.Warnings, fmt.Sprintf("document embeds %d base64 image(s); hosting them externally keeps it small", n))
	}
	return r, nil
}
