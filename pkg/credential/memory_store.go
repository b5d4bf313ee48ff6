package credential

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// MemoryStore keeps credentials for the lifetime of the process.
//
// Each call is atomic on its own, but the store is not linearizable across
// calls: a request that already passed Get keeps using a credential that a
// concurrent request deletes or overwrites afterwards. That is acceptable for
// a single operator. Use PostgresStore, or wrap the store with a per-user lock,
// when concurrent requests for the same user matter.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Credential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]Credential{}}
}

func (s *MemoryStore) Put(_ context.Context, userId string, credential Credential) error {
	credential.UserId = userId
	s.mu.Lock()
	s.data[userId] = credential
	s.mu.Unlock()
	log.Debugf("stored credential for user %s", userId)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, userId string) (Credential, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	credential, ok := s.data[userId]
	return credential, ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, userId string) error {
	s.mu.Lock()
	delete(s.data, userId)
	s.mu.Unlock()
	log.Debugf("removed credential for user %s", userId)
	return nil
}

func (s *MemoryStore) Has(_ context.Context, userId string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[userId]
	return ok, nil
}
