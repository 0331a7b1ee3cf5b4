package service

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/timecapsule/internal/client/client"
)

func (s *Service) GetRoom(_ context.Context, u User, roomID string) (*client.Room, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	r, err := s.participantRoom(u, roomID)
	if err != nil {
		return nil, err
	}
	return roomView(r, u), nil
}

// JoinRoom adds u as a pending participant. Joining twice is a no-op.
func (s *Service) JoinRoom(ctx context.Context, u User, roomID string) (*client.Room, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	r, ok := s.store.rooms[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	if r.Finalized {
		return nil, invalid("capsule is already sealed")
	}
	if participantIndex(r, u.ID) >= 0 {
		return roomView(r, u), nil
	}
	if len(r.Participants) >= r.Capacity {
		return nil, ErrNoSlots
	}

	r.Participants = append(r.Participants, client.Participant{
		UserID:   u.ID,
		Nickname: u.Nickname,
		Status:   client.ParticipantPending,
	})
	s.log.Info(ctx, "participant joined", "room_id", r.ID, "user", u.ID)

	return roomView(r, u), nil
}

// CompleteParticipant marks u's part of the capsule as done.
func (s *Service) CompleteParticipant(ctx context.Context, u User, roomID string) (*client.Room, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	r, err := s.participantRoom(u, roomID)
	if err != nil {
		return nil, err
	}
	if r.Finalized {
		return nil, invalid("capsule is already sealed")
	}

	r.Participants[participantIndex(r, u.ID)].Status = client.ParticipantCompleted
	s.log.Debug(ctx, "participant completed", "room_id", r.ID, "user", u.ID)

	return roomView(r, u), nil
}

// FinalizeRoom seals the capsule. Only the host may do it and only once
// every participant has completed; sealing a sealed room returns it as is.
func (s *Service) FinalizeRoom(ctx context.Context, u User, roomID string) (*client.Room, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	r, err := s.participantRoom(u, roomID)
	if err != nil {
		return nil, err
	}
	if r.HostID != u.ID {
		return nil, ErrForbidden
	}
	if !r.Finalized {
		if !roomView(r, u).AllCompleted() {
			return nil, invalid("not every participant has completed")
		}
		r.Finalized = true
		s.log.Info(ctx, "room finalized", "room_id", r.ID)
	}

	return roomView(r, u), nil
}

// participantRoom must be called with the store locked.
func (s *Service) participantRoom(u User, roomID string) (*Room, error) {
	r, ok := s.store.rooms[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	if participantIndex(r, u.ID) < 0 {
		return nil, ErrForbidden
	}
	return r, nil
}

func participantIndex(r *Room, userID string) int {
	return slices.IndexFunc(r.Participants, func(p client.Participant) bool {
		return p.UserID == userID
	})
}

func roomView(r *Room, u User) *client.Room {
	return &client.Room{
		ID:           r.ID,
		Name:         r.Name,
		IsHost:       r.HostID == u.ID,
		OpenAt:       r.OpenAt,
		Finalized:    r.Finalized,
		Participants: slices.Clone(r.Participants),
	}
}
