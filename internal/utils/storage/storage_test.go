package storage

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"foodgram/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func TestDecodeDataURI(t *testing.T) {
	img, err := DecodeDataURI(dataURI("image/png", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Extension)
	assert.Equal(t, pngBytes, img.Data)

	cases := map[string]string{
		"not a data uri":  "https://example.com/cat.png",
		"bad base64":      "data:image/png;base64,@@@",
		"declared as gif": dataURI("image/gif", pngBytes),
		"not an image":    dataURI("text/plain", []byte("hello world")),
		"empty payload":   "data:image/png;base64,",
	}
	for name, uri := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeDataURI(uri)
			assert.ErrorIs(t, err, domain.ErrInvalidImage)
		})
	}
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocalStorage(root, "http://localhost:8080/")
	require.NoError(t, err)

	key, err := store.UploadFile(ctx, "pie.png", pngBytes, "recipes", AllowImage...)
	require.NoError(t, err)
	assert.Equal(t, "recipes/pie.png", key)

	written, err := os.ReadFile(filepath.Join(root, "recipes", "pie.png"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, written)

	link := store.GetPublicLinkKey(key)
	assert.Equal(t, "http://localhost:8080/media/recipes/pie.png", link)
	assert.Equal(t, key, store.GetObjectKeyFromLink(link))
	assert.Empty(t, store.GetObjectKeyFromLink("https://elsewhere/recipes/pie.png"))

	require.NoError(t, store.DeleteFile(ctx, key))
	_, err = os.Stat(filepath.Join(root, "recipes", "pie.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	require.NoError(t, store.DeleteFile(ctx, key))

	_, err = store.UploadFile(ctx, "notes.txt", []byte("plain text"), "recipes", AllowImage...)
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}

type fakeS3 struct {
	put     []*s3.PutObjectInput
	deleted []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = append(f.put, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestAwsS3(t *testing.T) {
	ctx := context.Background()
	client := &fakeS3{}
	store := &awsS3{client: client, bucket: "foodgram", region: "eu-central-1"}

	key, err := store.UploadFile(ctx, "pie.png", pngBytes, "recipes", AllowImage...)
	require.NoError(t, err)
	require.Len(t, client.put, 1)
	assert.Equal(t, "foodgram", aws.ToString(client.put[0].Bucket))
	assert.Equal(t, "recipes/pie.png", aws.ToString(client.put[0].Key))
	assert.Equal(t, "image/png", aws.ToString(client.put[0].ContentType))

	link := store.GetPublicLinkKey(key)
	assert.Equal(t, "https://foodgram.s3.eu-central-1.amazonaws.com/recipes/pie.png", link)
	assert.Equal(t, key, store.GetObjectKeyFromLink(link))

	require.NoError(t, store.DeleteFile(ctx, key))
	assert.Equal(t, []string{"recipes/pie.png"}, client.deleted)
}
