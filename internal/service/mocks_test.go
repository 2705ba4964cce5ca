package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MohammadTashkandi/task-manager-app/internal/avatar"
	"github.com/MohammadTashkandi/task-manager-app/internal/model"
)

// In-memory fakes shared by the service tests.

const (
	testWait = 500 * time.Millisecond
	testTick = 10 * time.Millisecond
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]*model.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	stored := *user
	stored.ID = id
	r.users[id] = &stored
	return id, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return sql.ErrNoRows
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

type memTokenRepo struct {
	mu     sync.Mutex
	tokens map[uuid.UUID][]string
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: map[uuid.UUID][]string{}}
}

func (r *memTokenRepo) Create(ctx context.Context, userID uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[userID] = append(r.tokens[userID], token)
	return nil
}

func (r *memTokenRepo) Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens[userID] {
		if t == token {
			return true, nil
		}
	}
	return false, nil
}

func (r *memTokenRepo) Delete(ctx context.Context, userID uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.tokens[userID][:0]
	for _, t := range r.tokens[userID] {
		if t != token {
			kept = append(kept, t)
		}
	}
	r.tokens[userID] = kept
	return nil
}

func (r *memTokenRepo) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, userID)
	return nil
}

type recordingPublisher struct {
	mu         sync.Mutex
	registered []uuid.UUID
	deleted    []uuid.UUID
}

func (p *recordingPublisher) PublishUserRegistered(user *model.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered = append(p.registered, user.ID)
	return nil
}

func (p *recordingPublisher) PublishUserDeleted(user *model.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, user.ID)
	return nil
}

func (p *recordingPublisher) deletedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.deleted)
}

func (p *recordingPublisher) registeredCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.registered)
}

type memAvatarStore struct {
	mu    sync.Mutex
	blobs map[uuid.UUID][]byte
}

func newMemAvatarStore() *memAvatarStore {
	return &memAvatarStore{blobs: map[uuid.UUID][]byte{}}
}

func (s *memAvatarStore) Put(ctx context.Context, userID uuid.UUID, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[userID] = data
	return nil
}

func (s *memAvatarStore) Get(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[userID]
	if !ok || len(data) == 0 {
		return nil, avatar.ErrNoAvatar
	}
	return data, nil
}

func (s *memAvatarStore) Delete(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, userID)
	return nil
}
