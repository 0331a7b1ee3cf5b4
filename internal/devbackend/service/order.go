package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/timecapsule/internal/capsule"
	"github.com/dmitrijs2005/timecapsule/internal/client/client"
	"github.com/dmitrijs2005/timecapsule/internal/common"
	"github.com/dmitrijs2005/timecapsule/internal/pricing"
)

// CreateOrder validates a frozen form and prices it. The client's own
// estimate is never trusted; the total comes from the configured table.
func (s *Service) CreateOrder(ctx context.Context, u User, req client.OrderRequest) (*client.OrderResponse, error) {
	now := s.now()
	if err := s.validateOrder(u, req, now); err != nil {
		return nil, err
	}

	form := capsule.FormData{
		Name:       strings.TrimSpace(req.Name),
		Content:    req.Content,
		DateOption: req.DateOption,
		Personnel:  req.Personnel,
		Storage:    req.Storage,
		Music:      req.Music,
		Video:      req.Video,
	}
	if req.DateOption == capsule.OpenOnCustom {
		openAt := req.OpenAt
		form.CustomDate = &openAt
	}
	total := pricing.Estimate(form, s.table, now).TotalPrice

	req.Name = form.Name
	o := &Order{
		ID:        newID(),
		OwnerID:   u.ID,
		Nickname:  u.Nickname,
		Request:   req,
		Total:     total,
		Status:    OrderCreated,
		CreatedAt: now,
	}

	s.store.mu.Lock()
	s.store.orders[o.ID] = o
	s.store.mu.Unlock()

	s.log.Info(ctx, "order created", "user", u.ID, "order_id", o.ID, "total", total)

	return &client.OrderResponse{OrderID: o.ID, TotalPrice: total}, nil
}

func (s *Service) validateOrder(u User, req client.OrderRequest, now time.Time) error {
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return invalid("name is required")
	case utf8.RuneCountInString(name) > s.limits.NameMaxLen:
		return invalid(fmt.Sprintf("name may not exceed %d characters", s.limits.NameMaxLen))
	case !req.DateOption.Valid():
		return invalid(fmt.Sprintf("unknown open date option %q", req.DateOption))
	case !req.OpenAt.After(now):
		return invalid("open date must be in the future")
	case req.Personnel < s.limits.PersonnelMin || req.Personnel > s.limits.PersonnelMax:
		return invalid(fmt.Sprintf("participants must be between %d and %d", s.limits.PersonnelMin, s.limits.PersonnelMax))
	case req.Storage < s.limits.StorageMin || req.Storage > s.limits.StorageMax:
		return invalid(fmt.Sprintf("photo slots must be between %d and %d", s.limits.StorageMin, s.limits.StorageMax))
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, id := range req.MediaIDs {
		m, ok := s.store.media[id]
		if !ok || m.OwnerID != u.ID {
			return invalid(fmt.Sprintf("unknown media %s", id))
		}
	}
	return nil
}

// KakaoReady opens a payment session for an unpaid order. Calling it again
// replaces the previous session.
func (s *Service) KakaoReady(ctx context.Context, u User, req client.KakaoReadyRequest) (*client.KakaoReadyResponse, error) {
	pgToken, err := common.MakeRandHexString(8)
	if err != nil {
		return nil, err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	o, ok := s.store.orders[req.OrderID]
	if !ok || o.OwnerID != u.ID {
		return nil, ErrNotFound
	}
	if o.Status == OrderApproved {
		return nil, invalid("order is already paid")
	}

	if o.TID != "" {
		delete(s.store.tids, o.TID)
	}
	o.TID = "T" + strings.ReplaceAll(newID(), "-", "")
	o.PGToken = pgToken
	o.Status = OrderReady
	s.store.tids[o.TID] = o.ID

	s.log.Info(ctx, "payment ready", "order_id", o.ID, "tid", o.TID)

	return &client.KakaoReadyResponse{
		TID:         o.TID,
		RedirectURL: s.publicURL + "/dev/pay/" + o.TID,
	}, nil
}

// PaymentPage stands in for the payment provider's hosted page: it reveals
// the pg_token the user would get after confirming the payment.
type PaymentPage struct {
	OrderID string
	TID     string
	Amount  int64
	PGToken string
}

func (s *Service) PaymentPage(_ context.Context, tid string) (*PaymentPage, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	o, ok := s.store.orders[s.store.tids[tid]]
	if !ok || o.Status != OrderReady {
		return nil, ErrNotFound
	}
	return &PaymentPage{OrderID: o.ID, TID: o.TID, Amount: o.Total, PGToken: o.PGToken}, nil
}

// KakaoApprove checks the pg_token, marks the order paid and opens its
// waiting room with the payer as host.
func (s *Service) KakaoApprove(ctx context.Context, u User, req client.KakaoApproveRequest) (*client.KakaoApproveResponse, error) {
	now := s.now()

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	o, ok := s.store.orders[req.OrderID]
	if !ok || o.OwnerID != u.ID {
		return nil, ErrNotFound
	}
	switch {
	case o.Status == OrderApproved:
		return nil, invalid("order is already paid")
	case o.Status != OrderReady || o.TID != req.TID:
		return nil, invalid("payment session does not match the order")
	case strings.TrimSpace(req.PGToken) != o.PGToken:
		return nil, invalid("payment was not confirmed")
	}

	r := &Room{
		ID:       newID(),
		OrderID:  o.ID,
		HostID:   u.ID,
		Name:     o.Request.Name,
		OpenAt:   o.Request.OpenAt,
		Capacity: o.Request.Personnel,
		Participants: []client.Participant{
			{UserID: u.ID, Nickname: u.Nickname, Status: client.ParticipantCompleted},
		},
	}
	s.store.rooms[r.ID] = r

	delete(s.store.tids, o.TID)
	o.Status = OrderApproved
	o.RoomID = r.ID

	s.log.Info(ctx, "payment approved", "order_id", o.ID, "room_id", r.ID, "amount", o.Total)

	return &client.KakaoApproveResponse{
		OrderID:    o.ID,
		RoomID:     r.ID,
		Amount:     o.Total,
		ApprovedAt: now,
	}, nil
}
