package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"clinicconnect/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps sessions keyed by their opaque token.
type SessionStore interface {
	Get(ctx context.Context, token string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session, ttl time.Duration) error
	Touch(ctx context.Context, token string, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}

// OpenRedisPool initializes a Redis connection pool
func OpenRedisPool(ctx context.Context, dsn string) (*redis.Client, error) {
	opt, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opt.PoolSize = 100
	opt.MinIdleConns = 2
	opt.DialTimeout = 5 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	if err = client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(token string) string {
	return "session:" + token
}

// Save replaces the session hash and resets its expiry.
func (s *RedisSessionStore) Save(ctx context.Context, session *models.Session, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	success, err := json.Marshal(session.Success)
	if err != nil {
		return err
	}
	failures, err := json.Marshal(session.Error)
	if err != nil {
		return err
	}

	sessionMap := map[string]any{
		"created_at":    session.CreatedAt.Format(time.RFC3339),
		"last_activity": session.LastActivity.Format(time.RFC3339),
		"user_agent":    session.UserAgent,
		"ip_address":    session.IPAddress,
		"success":       string(success),
		"error":         string(failures),
	}
	if u := session.User; u != nil {
		sessionMap["user_id"] = strconv.FormatInt(u.ID, 10)
		sessionMap["username"] = u.Username
		sessionMap["first_name"] = u.FirstName
		sessionMap["last_name"] = u.LastName
		sessionMap["email"] = u.Email
	}

	key := sessionKey(session.Token)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, sessionMap)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

// Get retrieves session details from Redis
func (s *RedisSessionStore) Get(ctx context.Context, token string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := s.client.HGetAll(ctx, sessionKey(token)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrSessionNotFound
	}

	session := &models.Session{
		Token:     token,
		UserAgent: data["user_agent"],
		IPAddress: data["ip_address"],
	}
	session.CreatedAt, _ = time.Parse(time.RFC3339, data["created_at"])
	session.LastActivity, _ = time.Parse(time.RFC3339, data["last_activity"])

	if raw := data["success"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &session.Success); err != nil {
			return nil, fmt.Errorf("decoding success flash: %w", err)
		}
	}
	if raw := data["error"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &session.Error); err != nil {
			return nil, fmt.Errorf("decoding error flash: %w", err)
		}
	}

	if raw, ok := data["user_id"]; ok {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decoding session user id: %w", err)
		}
		session.User = &models.SessionUser{
			ID:        id,
			Username:  data["username"],
			FirstName: data["first_name"],
			LastName:  data["last_name"],
			Email:     data["email"],
		}
	}

	return session, nil
}

// Touch updates the last activity timestamp and pushes the expiry out.
func (s *RedisSessionStore) Touch(ctx context.Context, token string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	key := sessionKey(token)
	// EXPIRE is a no-op on a missing key, so it doubles as the existence check
	ok, err := s.client.Expire(ctx, key, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrSessionNotFound
	}
	return s.client.HSet(ctx, key, "last_activity", time.Now().Format(time.RFC3339)).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.client.Del(ctx, sessionKey(token)).Err()
}

func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// MemorySessionStore keeps sessions in process. Used when no Redis is configured.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	session   models.Session
	expiresAt time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Get(_ context.Context, token string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.sessions, token)
		return nil, ErrSessionNotFound
	}
	return copySession(entry.session), nil
}

func (s *MemorySessionStore) Save(_ context.Context, session *models.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.Token] = memorySession{
		session:   *copySession(*session),
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemorySessionStore) Touch(_ context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[token]
	if !ok {
		return ErrSessionNotFound
	}
	entry.session.LastActivity = s.now()
	entry.expiresAt = s.now().Add(ttl)
	s.sessions[token] = entry
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

func (s *MemorySessionStore) Ping(context.Context) error { return nil }

func copySession(src models.Session) *models.Session {
	dst := src
	if src.User != nil {
		u := *src.User
		dst.User = &u
	}
	dst.Success = append([]string(nil), src.Success...)
	dst.Error = append([]string(nil), src.Error...)
	return &dst
}
