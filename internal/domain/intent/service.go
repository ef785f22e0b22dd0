package intent

import "context"

// IntentService defines the interface for intent business logic
type IntentService interface {
	Create(ctx context.Context, req CreateRequest) (IntentResponse, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	GetByID(ctx context.Context, id string) (IntentResponse, error)
	Approve(ctx context.Context, req ReviewRequest) (ApproveResponse, error)
	Reject(ctx context.Context, req ReviewRequest) (IntentResponse, error)
}
