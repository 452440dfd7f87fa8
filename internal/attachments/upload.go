// Package attachments stores the image and PDF files referenced by projects.
package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const DefaultMaxBytes int64 = 10 << 20

type Kind string

const (
	KindImage Kind = "image"
	KindPDF   Kind = "pdf"
)

var (
	ErrUnsupportedKind = errors.New("kind must be image or pdf")
	ErrContentType     = errors.New("file content does not match kind")
	ErrTooLarge        = errors.New("file exceeds the upload limit")
	ErrEmptyFile       = errors.New("file is empty")
)

// ParseKind accepts the kind names used by the upload form.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindImage:
		return KindImage, nil
	case KindPDF:
		return KindPDF, nil
	}
	return "", ErrUnsupportedKind
}

// Attachment describes a stored file.
type Attachment struct {
	Kind        Kind   `json:"kind"`
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Uploader checks uploaded content and hands it to an ObjectStore.
type Uploader struct {
	store    ObjectStore
	maxBytes int64
	newID    func() string
}

func NewUploader(store ObjectStore, maxBytes int64) *Uploader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Uploader{
		store:    store,
		maxBytes: maxBytes,
		newID:    uuid.NewString,
	}
}

// Upload sniffs r, rejects content that does not match kind and stores it
// under projects/<kind>/<uuid><ext>.
func (u *Uploader) Upload(ctx context.Context, kind Kind, r io.Reader) (Attachment, error) {
	data, err := io.ReadAll(io.LimitReader(r, u.maxBytes+1))
	if err != nil {
		return Attachment{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return Attachment{}, ErrEmptyFile
	}
	if int64(len(data)) > u.maxBytes {
		return Attachment{}, ErrTooLarge
	}

	mt := mimetype.Detect(data)
	if !matches(kind, mt) {
		return Attachment{}, fmt.Errorf("%w: got %s", ErrContentType, mt.String())
	}

	contentType := mt.String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}

	key := fmt.Sprintf("projects/%s/%s%s", kind, u.newID(), mt.Extension())
	url, err := u.store.Put(ctx, key, contentType, data)
	if err != nil {
		return Attachment{}, err
	}

	return Attachment{
		Kind:        kind,
		Key:         key,
		URL:         url,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

func matches(kind Kind, mt *mimetype.MIME) bool {
	switch kind {
	case KindImage:
		return strings.HasPrefix(mt.String(), "image/")
	case KindPDF:
		return mt.Is("application/pdf")
	}
	return false
}
