package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// MediaPrefix is the URL path the local media directory is served under.
const MediaPrefix = "/media/"

type localStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(root, appURL string) (Storage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &localStorage{
		root:    root,
		baseURL: strings.TrimRight(appURL, "/") + MediaPrefix,
	}, nil
}

func (l *localStorage) UploadFile(_ context.Context, fileName string, data []byte, folder string, allowTypes ...string) (string, error) {
	if _, err := checkType(data, allowTypes); err != nil {
		return "", err
	}

	key := objectKey(folder, fileName)
	path := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return key, nil
}

func (l *localStorage) DeleteFile(_ context.Context, objectKey string) error {
	if objectKey == "" || strings.Contains(objectKey, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(l.root, filepath.FromSlash(objectKey)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (l *localStorage) GetPublicLinkKey(objectKey string) string {
	return l.baseURL + objectKey
}

func (l *localStorage) GetObjectKeyFromLink(link string) string {
	if !strings.HasPrefix(link, l.baseURL) {
		return ""
	}
	return strings.TrimPrefix(link, l.baseURL)
}
