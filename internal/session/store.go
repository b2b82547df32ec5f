package session

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/2beens/fitbuddy/internal/keyval"
	"github.com/2beens/fitbuddy/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	tokenKey = "fitbuddy_token"
	userKey  = "fitbuddy_user"

	tokenLength = 35
)

// sessionMarker is the persisted credential marker. The secret never lands
// in the store in clear - only its hash, and nothing ever verifies it:
// the login gate stays mocked.
type sessionMarker struct {
	Token      string    `json:"token"`
	SecretHash string    `json:"secretHash,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Store owns the current session: the authenticated user profile and its
// credential marker, both mirrored to the key-value store on every change.
type Store struct {
	kv keyval.Store

	mutex     sync.Mutex
	user      *UserProfile
	token     string
	isLoading bool

	// artificial delay simulating network latency on login/register
	loginDelay time.Duration

	// injectable for unit and dev testing
	RandStringFunc func(s int) (string, error)
	HashFunc       func(secret string) (string, error)
	IDFunc         func() string
}

func NewStore(kv keyval.Store, loginDelay time.Duration) *Store {
	return &Store{
		kv:             kv,
		isLoading:      true,
		loginDelay:     loginDelay,
		RandStringFunc: pkg.GenerateRandomString,
		HashFunc:       pkg.HashPassword,
		IDFunc:         uuid.NewString,
	}
}

// Restore loads the persisted marker and profile. It is the single
// initialization path and must resolve before the HTTP surface serves.
// A missing or malformed blob means an unauthenticated start, never an error.
func (s *Store) Restore(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	defer func() {
		s.isLoading = false
	}()

	markerBlob, err := s.kv.Get(ctx, tokenKey)
	if err != nil {
		if err == keyval.ErrKeyNotFound {
			log.Debugln("session restore: no credential marker, starting unauthenticated")
			return nil
		}
		return err
	}

	userBlob, err := s.kv.Get(ctx, userKey)
	if err != nil {
		if err == keyval.ErrKeyNotFound {
			log.Warnln("session restore: marker present but profile missing, starting unauthenticated")
			return nil
		}
		return err
	}

	var marker sessionMarker
	if err := json.Unmarshal([]byte(markerBlob), &marker); err != nil {
		log.Warnf("session restore: malformed marker blob, starting unauthenticated: %s", err)
		return nil
	}

	var user UserProfile
	if err := json.Unmarshal([]byte(userBlob), &user); err != nil {
		log.Warnf("session restore: malformed profile blob, starting unauthenticated: %s", err)
		return nil
	}

	s.token = marker.Token
	s.user = &user
	log.Debugf("session restored for user [%s]", user.Email)
	return nil
}

// Login is a mocked gate: any non-empty email/password pair succeeds and
// fabricates a profile from the email. No real credential check happens.
func (s *Store) Login(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	// simulate network latency
	time.Sleep(s.loginDelay)

	user := &UserProfile{
		ID:     "1",
		Email:  email,
		Name:   emailLocalPart(email),
		Age:    25,
		Weight: 70,
		Height: 175,
		Goal:   GoalLoseWeight,
		Gender: "male",
	}

	if err := s.activate(ctx, user, password); err != nil {
		return false, err
	}
	return true, nil
}

// Register always succeeds; the draft gets a fresh unique id and becomes
// the active profile.
func (s *Store) Register(ctx context.Context, draft UserProfile) (bool, error) {
	// simulate network latency
	time.Sleep(s.loginDelay)

	draft.ID = s.IDFunc()
	if err := s.activate(ctx, &draft, ""); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) activate(ctx context.Context, user *UserProfile, secret string) error {
	token, err := s.RandStringFunc(tokenLength)
	if err != nil {
		return err
	}

	marker := sessionMarker{
		Token:     token,
		CreatedAt: time.Now(),
	}
	if secret != "" {
		secretHash, err := s.HashFunc(secret)
		if err != nil {
			return err
		}
		marker.SecretHash = secretHash
	}

	markerJson, err := json.Marshal(marker)
	if err != nil {
		return err
	}
	userJson, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	// in-memory state and persistence move together, no rollback: on a
	// persistence error the optimistic in-memory session is kept
	s.token = token
	s.user = user

	if err := s.kv.Set(ctx, tokenKey, string(markerJson)); err != nil {
		log.Errorf("session: persist marker: %s", err)
		return err
	}
	if err := s.kv.Set(ctx, userKey, string(userJson)); err != nil {
		log.Errorf("session: persist profile: %s", err)
		return err
	}

	return nil
}

// Logout clears the marker and profile, both persisted and in-memory.
// Idempotent.
func (s *Store) Logout(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = ""
	s.user = nil

	if err := s.kv.Del(ctx, tokenKey, userKey); err != nil {
		log.Errorf("session: clear persisted session: %s", err)
		return err
	}
	return nil
}

// UpdateProfile shallow-merges the update into the current profile and
// re-persists it. A no-op when unauthenticated.
func (s *Store) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.user == nil {
		log.Debugln("session: update profile skipped, not authenticated")
		return nil
	}

	update.applyTo(s.user)

	userJson, err := json.Marshal(s.user)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, userKey, string(userJson)); err != nil {
		log.Errorf("session: persist updated profile: %s", err)
		return err
	}
	return nil
}

// CurrentUser returns a copy of the active profile, or nil when
// unauthenticated
func (s *Store) CurrentUser() *UserProfile {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.user == nil {
		return nil
	}
	userCopy := *s.user
	return &userCopy
}

func (s *Store) Token() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.token
}

func (s *Store) IsLoading() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.isLoading
}

// IsLogged reports whether the given token matches the persisted
// credential marker
func (s *Store) IsLogged(ctx context.Context, token string) (bool, error) {
	markerBlob, err := s.kv.Get(ctx, tokenKey)
	if err != nil {
		if err == keyval.ErrKeyNotFound {
			return false, nil
		}
		return false, err
	}

	var marker sessionMarker
	if err := json.Unmarshal([]byte(markerBlob), &marker); err != nil {
		return false, nil
	}

	return marker.Token != "" && marker.Token == token, nil
}

func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}
