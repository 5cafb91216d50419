// Package storage keeps uploaded recipe images either in an S3 bucket or on
// the local disk and hands back the public link that is stored on the recipe.
package storage

import (
	"context"
	"encoding/base64"
	"regexp"
	"slices"
	"strings"

	"foodgram/domain"

	"github.com/gabriel-vasile/mimetype"
)

var AllowImage = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
}

var dataURIPattern = regexp.MustCompile(`^data:([\w/+.-]+);base64,(.+)$`)

type Storage interface {
	// UploadFile stores data under folder/fileName and returns the object key.
	UploadFile(ctx context.Context, fileName string, data []byte, folder string, allowTypes ...string) (string, error)
	DeleteFile(ctx context.Context, objectKey string) error
	GetPublicLinkKey(objectKey string) string
	GetObjectKeyFromLink(link string) string
}

// Image is a decoded data URI.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// DecodeDataURI parses "data:image/<ext>;base64,<payload>". The declared type
// must agree with the sniffed content and be one of AllowImage.
func DecodeDataURI(uri string) (*Image, error) {
	m := dataURIPattern.FindStringSubmatch(strings.TrimSpace(uri))
	if m == nil {
		return nil, domain.ErrInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil || len(data) == 0 {
		return nil, domain.ErrInvalidImage
	}

	detected := mimetype.Detect(data)
	if !detected.Is(m[1]) || !slices.Contains(AllowImage, detected.String()) {
		return nil, domain.ErrInvalidImage
	}

	return &Image{
		Data:        data,
		ContentType: detected.String(),
		Extension:   detected.Extension(),
	}, nil
}

func checkType(data []byte, allowTypes []string) (string, error) {
	detected := mimetype.Detect(data).String()
	if len(allowTypes) > 0 && !slices.Contains(allowTypes, detected) {
		return "", domain.ErrInvalidImage
	}
	return detected, nil
}

func objectKey(folder, fileName string) string {
	if folder == "" {
		return fileName
	}
	return strings.Trim(folder, "/") + "/" + fileName
}
