package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"case-flow-backend/config"
)

// Provider keeps BOM attachments in object storage, one prefix per case.
type Provider interface {
	EnsureBucket(ctx context.Context) error
	UploadBomFile(ctx context.Context, caseID, fileName string, fileReader io.Reader, fileSize int64) error
	GetBomFile(ctx context.Context, caseID, fileName string) ([]byte, error)
	ListBomFiles(ctx context.Context, caseID string) ([]string, error)
}

var Instance Provider

func NewInstance(s3client *minio.Client) {
	Instance = &impl{
		s3client: s3client,
	}
}

type impl struct {
	s3client *minio.Client
}

func (i impl) EnsureBucket(ctx context.Context) error {
	bucketName := config.Conf.S3.BucketName
	exists, err := i.s3client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return i.s3client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: "us-east-1"})
}

func (i impl) UploadBomFile(ctx context.Context, caseID, fileName string, fileReader io.Reader, fileSize int64) error {
	_, err := i.s3client.PutObject(ctx, config.Conf.S3.BucketName, objectName(caseID, fileName),
		fileReader, fileSize, minio.PutObjectOptions{ContentType: "application/octet-stream"})
	return err
}

func (i impl) GetBomFile(ctx context.Context, caseID, fileName string) ([]byte, error) {
	object, err := i.s3client.GetObject(ctx, config.Conf.S3.BucketName, objectName(caseID, fileName), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer object.Close()
	buf := bytes.Buffer{}
	if _, err = io.Copy(&buf, object); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (i impl) ListBomFiles(ctx context.Context, caseID string) ([]string, error) {
	prefix := fmt.Sprintf("cases/%s/", caseID)
	names := []string{}
	for object := range i.s3client.ListObjects(ctx, config.Conf.S3.BucketName, minio.ListObjectsOptions{Prefix: prefix}) {
		if object.Err != nil {
			return nil, object.Err
		}
		names = append(names, object.Key[len(prefix):])
	}
	return names, nil
}

func objectName(caseID, fileName string) string {
	return fmt.Sprintf("cases/%s/%s", caseID, fileName)
}
