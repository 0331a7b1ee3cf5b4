package service

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/client/client"
	"github.com/dmitrijs2005/timecapsule/internal/media"
)

// Media is an object that was presigned, uploaded and confirmed.
type Media struct {
	ID          string
	OwnerID     string
	ObjectKey   string
	Category    media.Category
	ContentType string
	Size        int64
	CreatedAt   time.Time
}

// pendingUpload is a presigned slot not yet confirmed by complete.
type pendingUpload struct {
	OwnerID     string
	Category    media.Category
	ContentType string
	Size        int64
	ExpiresAt   time.Time
}

const (
	OrderCreated  = "created"
	OrderReady    = "ready"
	OrderApproved = "approved"
)

type Order struct {
	ID        string
	OwnerID   string
	Nickname  string
	Request   client.OrderRequest
	Total     int64
	Status    string
	TID       string
	PGToken   string
	RoomID    string
	CreatedAt time.Time
}

type Room struct {
	ID           string
	OrderID      string
	HostID       string
	Name         string
	OpenAt       time.Time
	Capacity     int
	Finalized    bool
	Participants []client.Participant
}

type Capsule struct {
	ID         string
	OwnerID    string
	Title      string
	Content    string
	MediaURLs  []string
	MediaTypes []string
	OpenAt     time.Time
	ViewLimit  *int
	ProductID  *string
	CreatedAt  time.Time
}

// memoryStore keeps every record in maps. All access goes through Service,
// which holds mu for the duration of each operation.
type memoryStore struct {
	mu       sync.Mutex
	pending  map[string]pendingUpload
	media    map[string]*Media
	orders   map[string]*Order
	rooms    map[string]*Room
	capsules map[string]*Capsule
	tids     map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		pending:  make(map[string]pendingUpload),
		media:    make(map[string]*Media),
		orders:   make(map[string]*Order),
		rooms:    make(map[string]*Room),
		capsules: make(map[string]*Capsule),
		tids:     make(map[string]string),
	}
}
