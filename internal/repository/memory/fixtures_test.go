package memory

import "github.com/DRSN-tech/inventory-backend/internal/usecase"

var (
	usecaseEvent = usecase.OutboxEvent{
		EventID:   "7f1c7d1e-1111-4a4a-9c9c-000000000001",
		EventType: usecase.EventProductCreated,
		ProductID: 1,
		Payload:   []byte(`{}`),
	}

	snapshotReq = usecase.UploadSnapshotReq{
		Name:        "products.csv",
		ContentType: "text/csv",
		Data:        []byte("id\n"),
	}
)
