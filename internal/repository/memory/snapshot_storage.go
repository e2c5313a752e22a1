package memory

import (
	"context"
	"path"
	"sync"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
)

// SnapshotStorage держит выгрузки каталога в памяти процесса.
type SnapshotStorage struct {
	mu      sync.RWMutex
	prefix  string
	objects map[string][]byte
}

func NewSnapshotStorage(prefix string) *SnapshotStorage {
	return &SnapshotStorage{prefix: prefix, objects: make(map[string][]byte)}
}

func (s *SnapshotStorage) Upload(_ context.Context, req *usecase.UploadSnapshotReq) (string, error) {
	key := path.Join(s.prefix, req.Name)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), req.Data...)

	return key, nil
}

// Object возвращает сохранённую выгрузку по ключу.
func (s *SnapshotStorage) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[key]
	return data, ok
}
