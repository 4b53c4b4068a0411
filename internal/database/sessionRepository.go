package database

import (
	"time"

	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/session"
)

// NewSessionRepository keeps sessions in process memory only.
func NewSessionRepository() SessionRepository {
	return &memorySessionRepository{sessions: make(map[string]*session.Session)}
}

func (r *memorySessionRepository) Save(s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID()] = s
	return nil
}

func (r *memorySessionRepository) FindByID(id string) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return s, nil
}

func (r *memorySessionRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return entity.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// IdleSince lists sessions whose last activity is before cutoff.
func (r *memorySessionRepository) IdleSince(cutoff time.Time) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, s := range r.sessions {
		if s.LastActive().Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (r *memorySessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
