package auth

import (
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/logto-io/go/v2/client"
)

// SessionStorage keeps Logto client state in the gin cookie session.
type SessionStorage struct {
	session sessions.Session
}

func NewSessionStorage(session sessions.Session) client.Storage {
	return &SessionStorage{session: session}
}

func (s *SessionStorage) GetItem(key string) string {
	value, ok := s.session.Get(key).(string)
	if !ok {
		return ""
	}
	return value
}

func (s *SessionStorage) SetItem(key, value string) {
	if value == "" {
		s.session.Delete(key)
	} else {
		s.session.Set(key, value)
	}
	if err := s.session.Save(); err != nil {
		log.Printf("[SessionStorage] Failed to save session key %s: %v", key, err)
	}
}
