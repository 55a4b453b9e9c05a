package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"

	filestorage "case-flow-backend/lib/file-storage"
	s3client "case-flow-backend/s3"
)

func InitS3() {
	minioClient, err := s3client.NewClient()
	if err != nil {
		log.WithError(err).Error("failed to initialize the S3 client")
		return
	}

	filestorage.NewInstance(minioClient)
	if err = filestorage.Instance.EnsureBucket(context.Background()); err != nil {
		log.WithError(err).Error("failed to ensure the BOM bucket")
	}
	log.Info("S3 client initialized")
}
