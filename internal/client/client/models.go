package client

import (
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/capsule"
	"github.com/dmitrijs2005/timecapsule/internal/media"
)

type PresignRequest struct {
	Type        media.Category `json:"type"`
	Filename    string         `json:"filename"`
	ContentType string         `json:"content_type"`
	Size        int64          `json:"size"`
}

type PresignResponse struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
}

type CompleteRequest struct {
	ObjectKey   string `json:"object_key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type CompleteResponse struct {
	MediaID string `json:"media_id"`
}

type mediaURLResponse struct {
	URL string `json:"url"`
}

// CapsuleRequest creates a capsule directly from already uploaded media.
type CapsuleRequest struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	MediaURLs  []string   `json:"media_urls"`
	MediaTypes []string   `json:"media_types"`
	OpenAt     *time.Time `json:"open_at,omitempty"`
	ViewLimit  *int       `json:"view_limit,omitempty"`
	ProductID  *string    `json:"product_id,omitempty"`
}

type CapsuleResponse struct {
	ID     string    `json:"id"`
	OpenAt time.Time `json:"open_at"`
}

// OrderRequest is the wire form of a frozen capsule form. The client never
// sends its own price estimate.
type OrderRequest struct {
	Name       string             `json:"name"`
	Content    string             `json:"content"`
	DateOption capsule.DateOption `json:"date_option"`
	OpenAt     time.Time          `json:"open_at"`
	Personnel  int                `json:"personnel"`
	Storage    int                `json:"storage"`
	Music      bool               `json:"music"`
	Video      bool               `json:"video"`
	MediaIDs   []string           `json:"media_ids"`
}

// NewOrderRequest maps a form onto an order request, resolving the open
// date against now.
func NewOrderRequest(form capsule.FormData, now time.Time) (OrderRequest, error) {
	openAt, err := capsule.ResolveOpenAt(form.DateOption, form.CustomDate, now)
	if err != nil {
		return OrderRequest{}, err
	}
	ids := form.MediaIDs()
	if ids == nil {
		ids = []string{}
	}
	return OrderRequest{
		Name:       form.Name,
		Content:    form.Content,
		DateOption: form.DateOption,
		OpenAt:     openAt.UTC(),
		Personnel:  form.Personnel,
		Storage:    form.Storage,
		Music:      form.Music,
		Video:      form.Video,
		MediaIDs:   ids,
	}, nil
}

// OrderResponse carries the authoritative total computed by the backend.
type OrderResponse struct {
	OrderID    string `json:"order_id"`
	TotalPrice int64  `json:"total_price"`
}

type KakaoReadyRequest struct {
	OrderID string `json:"order_id"`
}

type KakaoReadyResponse struct {
	TID         string `json:"tid"`
	RedirectURL string `json:"next_redirect_url"`
}

type KakaoApproveRequest struct {
	OrderID string `json:"order_id"`
	TID     string `json:"tid"`
	PGToken string `json:"pg_token"`
}

type KakaoApproveResponse struct {
	OrderID    string    `json:"order_id"`
	RoomID     string    `json:"room_id"`
	Amount     int64     `json:"amount"`
	ApprovedAt time.Time `json:"approved_at"`
}

const (
	ParticipantPending   = "pending"
	ParticipantCompleted = "completed"
)

type Participant struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Status   string `json:"status"`
}

func (p Participant) Completed() bool {
	return p.Status == ParticipantCompleted
}

// Room is the waiting room shown after payment.
type Room struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	IsHost       bool          `json:"is_host"`
	OpenAt       time.Time     `json:"open_at"`
	Finalized    bool          `json:"finalized"`
	Participants []Participant `json:"participants"`
}

// AllCompleted reports whether every participant has completed. An empty
// room is never complete.
func (r Room) AllCompleted() bool {
	if len(r.Participants) == 0 {
		return false
	}
	for _, p := range r.Participants {
		if !p.Completed() {
			return false
		}
	}
	return true
}
