package minio

import (
	"bytes"
	"context"
	"path"

	"github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// SnapshotRepo хранит CSV-выгрузки каталога в MinIO.
type SnapshotRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewSnapshotRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *SnapshotRepo {
	return &SnapshotRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Upload загружает выгрузку и возвращает ключ объекта.
func (s *SnapshotRepo) Upload(ctx context.Context, req *usecase.UploadSnapshotReq) (string, error) {
	key := objectKey(s.cfg.ExportPrefix, req.Name)

	info, err := s.mc.PutObject(ctx, s.cfg.BucketName, key, bytes.NewReader(req.Data), int64(len(req.Data)), minio.PutObjectOptions{
		ContentType: req.ContentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

func objectKey(prefix, name string) string {
	return path.Join(prefix, name)
}
