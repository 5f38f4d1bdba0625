package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

var (
	ErrChannelNotFound = errors.New("channel-not-found")
	ErrRateLimited     = errors.New("too-many-messages")
)

type Message struct {
	Id        int64     `json:"id"`
	UserId    string    `json:"userId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type channel struct {
	mu       sync.Mutex
	messages []Message
	limiters map[string]*rate.Limiter
}

// Service owns the in-memory message channels created alongside games.
// The game core only ever holds a channel id; posting, ordering and
// read consistency live here, under each channel's own lock.
type Service struct {
	mu       sync.RWMutex
	channels map[string]*channel
}

func NewService() *Service {
	return &Service{channels: make(map[string]*channel)}
}

// Create allocates a fresh channel and returns its id.
func (s *Service) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.channels[id] = &channel{limiters: make(map[string]*rate.Limiter)}
	s.mu.Unlock()
	return id
}

// Release drops a channel once its game is gone.
func (s *Service) Release(channelId string) {
	s.mu.Lock()
	delete(s.channels, channelId)
	s.mu.Unlock()
}

// Post appends a message, subject to a per-user token bucket of one
// message per second with a burst of five.
func (s *Service) Post(channelId, userId, username, text string) (Message, error) {
	ch, err := s.lookup(channelId)
	if err != nil {
		return Message{}, err
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	limiter, ok := ch.limiters[userId]
	if !ok {
		limiter = rate.NewLimiter(1, 5)
		ch.limiters[userId] = limiter
	}
	if !limiter.Allow() {
		return Message{}, ErrRateLimited
	}

	msg := Message{
		Id:        int64(len(ch.messages)) + 1,
		UserId:    userId,
		Username:  username,
		Text:      text,
		Timestamp: time.Now(),
	}
	ch.messages = append(ch.messages, msg)
	return msg, nil
}

// MessagesSince returns all messages with an id greater than afterId,
// oldest first.
func (s *Service) MessagesSince(channelId string, afterId int64) ([]Message, error) {
	ch, err := s.lookup(channelId)
	if err != nil {
		return nil, err
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	if afterId < 0 {
		afterId = 0
	}
	if afterId >= int64(len(ch.messages)) {
		return []Message{}, nil
	}
	out := make([]Message, len(ch.messages[afterId:]))
	copy(out, ch.messages[afterId:])
	return out, nil
}

func (s *Service) lookup(channelId string) (*channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.channels[channelId]
	if !ok {
		return nil, ErrChannelNotFound
	}
	return ch, nil
}
