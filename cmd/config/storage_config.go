package config

import (
	"context"

	"foodgram/internal/utils"
	"foodgram/internal/utils/storage"
)

// NewStorage picks S3 when a bucket is configured and the local media
// directory otherwise.
func NewStorage(ctx context.Context) (storage.Storage, error) {
	if bucket := utils.GetConfig("AWS_S3_BUCKET"); bucket != "" {
		return storage.NewAwsS3(ctx,
			bucket,
			utils.GetConfig("AWS_S3_REGION"),
			utils.GetConfig("AWS_ACCESS_KEY"),
			utils.GetConfig("AWS_SECRET_KEY"),
		)
	}
	return storage.NewLocalStorage(utils.GetConfig("MEDIA_DIR"), utils.GetConfig("APP_URL"))
}
