package database

import (
	"sync"
	"time"

	"github.com/ds124wfegd/WB_L3/memestudio/internal/session"
)

type SessionRepository interface {
	Save(s *session.Session) error
	FindByID(id string) (*session.Session, error)
	Delete(id string) error
	IdleSince(cutoff time.Time) []string
	Count() int
}

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}
