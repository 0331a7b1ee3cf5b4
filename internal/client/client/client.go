package client

import "context"

// TokenProvider supplies the bearer token attached to every request.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// MediaAPI is the part of the backend used by the upload pipeline.
type MediaAPI interface {
	Presign(ctx context.Context, req PresignRequest) (*PresignResponse, error)
	CompleteUpload(ctx context.Context, req CompleteRequest) (*CompleteResponse, error)
}

// PaymentAPI is the part of the backend used by the payment and room steps.
type PaymentAPI interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error)
	KakaoReady(ctx context.Context, req KakaoReadyRequest) (*KakaoReadyResponse, error)
	KakaoApprove(ctx context.Context, req KakaoApproveRequest) (*KakaoApproveResponse, error)
	GetRoom(ctx context.Context, roomID string) (*Room, error)
	FinalizeRoom(ctx context.Context, roomID string) (*Room, error)
}

type Client interface {
	MediaAPI
	PaymentAPI
	MediaURL(ctx context.Context, mediaID string) (string, error)
	CreateCapsule(ctx context.Context, req CapsuleRequest) (*CapsuleResponse, error)
}
