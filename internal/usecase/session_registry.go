package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/nguyentranbao-ct/storefront/internal/models"
)

// Session is one logged-in user and its cart.
type Session struct {
	Username string
	UserID   int
	Cart     *CartSynchronizer
}

// SessionRegistry maps auth tokens to live sessions. Tokens are stored hashed.
type SessionRegistry interface {
	Get(token string) (*Session, error)
	// Put stores session under token and returns the session it replaced, if any.
	Put(token string, session *Session) *Session
	Delete(token string) (*Session, bool)
	// Close drains and stops every session's background pushes.
	Close()
}

type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionRegistry() SessionRegistry {
	return &sessionRegistry{
		sessions: make(map[string]*Session),
	}
}

func (r *sessionRegistry) Get(token string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[hashToken(token)]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return session, nil
}

func (r *sessionRegistry) Put(token string, session *Session) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := hashToken(token)
	prev := r.sessions[key]
	r.sessions[key] = session
	return prev
}

func (r *sessionRegistry) Delete(token string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := hashToken(token)
	session, ok := r.sessions[key]
	if ok {
		delete(r.sessions, key)
	}
	return session, ok
}

func (r *sessionRegistry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	var wg sync.WaitGroup
	for _, session := range sessions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session.Cart.Close()
		}()
	}
	wg.Wait()
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
