//go:generate mockgen -source=infrastructure.go -destination=mocks/mock_infrastructure.go -package=mocks

package usecase

import "context"

// MessageProducer публикует события изменений товаров в брокер.
type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// SnapshotStorage сохраняет выгрузки каталога и возвращает ключ объекта.
type SnapshotStorage interface {
	Upload(ctx context.Context, req *UploadSnapshotReq) (string, error)
}

// Confirmer спрашивает у пользователя подтверждение перед переходом жизненного цикла.
// false без ошибки означает отказ: действие не выполняется.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc позволяет использовать функцию как Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// StaticConfirmer всегда возвращает заранее известный ответ (флаг confirm в HTTP/gRPC запросе).
type StaticConfirmer bool

func (s StaticConfirmer) Confirm(context.Context, string) (bool, error) {
	return bool(s), nil
}
