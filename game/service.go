package game

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sopra-fs21-group-4/sopra-server/domain"
)

type UserGetter interface {
	GetUserById(ctx context.Context, id string) (domain.User, error)
}

// ChannelProvider hands out a chat channel for each new game and takes
// it back if the game never materializes. The core only holds the
// channel id; message routing is the chat collaborator's business.
type ChannelProvider interface {
	Create() string
	Release(channelId string)
}

// Service is the command layer: it resolves games through the registry,
// enforces master-only operations and keeps each user's current-game
// pointer so a user is enrolled in at most one game at a time.
type Service struct {
	registry *Registry
	users    UserGetter
	channels ChannelProvider

	mu          sync.Mutex
	currentGame map[string]int64
}

func NewService(registry *Registry, users UserGetter, channels ChannelProvider) *Service {
	return &Service{
		registry:    registry,
		users:       users,
		channels:    channels,
		currentGame: make(map[string]int64),
	}
}

func (s *Service) CreateGame(ctx context.Context, userId string, settings Settings) (*Game, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	user, err := s.users.GetUserById(ctx, userId)
	if err != nil {
		return nil, err
	}

	chatId := s.channels.Create()
	g, err := s.registry.Create(ctx, user, chatId, settings)
	if err != nil {
		s.channels.Release(chatId)
		return nil, err
	}

	s.dismissFromCurrent(user.Id, g.Id())
	s.setCurrent(user.Id, g.Id())
	log.Info().Int64("game_id", g.Id()).Str("master", user.Username).Msg("game created")
	return g, nil
}

// JoinGame enrolls the user in the target game. Dismissal from the
// user's previous game happens only after enrollment succeeds, so a
// rejected join leaves them exactly where they were.
func (s *Service) JoinGame(ctx context.Context, gameId int64, userId, password string) (*Game, error) {
	g, err := s.registry.Lookup(gameId)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUserById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if err := g.Enroll(user, password); err != nil {
		return nil, err
	}
	s.dismissFromCurrent(user.Id, gameId)
	s.setCurrent(user.Id, gameId)
	return g, nil
}

func (s *Service) LeaveGame(gameId int64, userId string) error {
	g, err := s.registry.Lookup(gameId)
	if err != nil {
		return err
	}
	g.Dismiss(userId)
	s.clearCurrent(userId, gameId)
	return nil
}

func (s *Service) StartGame(gameId int64, userId string, force bool) error {
	g, err := s.verifyGameMaster(gameId, userId)
	if err != nil {
		return err
	}
	return g.CloseLobby(force)
}

func (s *Service) SetReady(gameId int64, userId string, ready bool) error {
	g, err := s.registry.Lookup(gameId)
	if err != nil {
		return err
	}
	return g.SetReady(userId, ready)
}

func (s *Service) AdaptSettings(gameId int64, userId string, settings Settings) error {
	g, err := s.verifyGameMaster(gameId, userId)
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	return g.AdaptSettings(settings)
}

func (s *Service) PutSuggestion(gameId int64, userId, text string) error {
	g, err := s.registry.Lookup(gameId)
	if err != nil {
		return err
	}
	return g.PutSuggestion(userId, text)
}

func (s *Service) PutVote(gameId int64, userId, target string) error {
	g, err := s.registry.Lookup(gameId)
	if err != nil {
		return err
	}
	return g.PutVote(userId, target)
}

// RunMasterCommand parses a master chat command. Recognized:
// "/start", "/ban <username>", "/forgive <username>".
func (s *Service) RunMasterCommand(gameId int64, userId, text string) error {
	g, err := s.verifyGameMaster(gameId, userId)
	if err != nil {
		return err
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ErrUnknownCommand
	}
	switch fields[0] {
	case "/start":
		return g.CloseLobby(true)
	case "/ban":
		if len(fields) < 2 {
			return ErrMissingTarget
		}
		targetId, ok := g.FindByUsername(fields[1])
		if !ok {
			return ErrInvalidTarget
		}
		g.Ban(targetId)
		s.clearCurrent(targetId, gameId)
		log.Info().Int64("game_id", gameId).Str("target", fields[1]).Msg("player banned")
		return nil
	case "/forgive":
		if len(fields) < 2 {
			return ErrMissingTarget
		}
		targetId, ok := g.FindByUsername(fields[1])
		if !ok {
			return ErrInvalidTarget
		}
		g.Forgive(targetId)
		return nil
	default:
		return ErrUnknownCommand
	}
}

func (s *Service) Game(gameId int64) (*Game, error) {
	return s.registry.Lookup(gameId)
}

func (s *Service) Descriptions() []Description {
	games := s.registry.Games()
	descs := make([]Description, 0, len(games))
	for _, g := range games {
		descs = append(descs, g.Description())
	}
	return descs
}

func (s *Service) verifyGameMaster(gameId int64, userId string) (*Game, error) {
	g, err := s.registry.Lookup(gameId)
	if err != nil {
		return nil, err
	}
	if !g.IsPromoted(userId) {
		return nil, ErrForbidden
	}
	return g, nil
}

// dismissFromCurrent makes the user's previous game, if any and not the
// one being joined, dismiss them first.
func (s *Service) dismissFromCurrent(userId string, joining int64) {
	s.mu.Lock()
	previous, ok := s.currentGame[userId]
	s.mu.Unlock()
	if !ok || previous == joining {
		return
	}
	if g, err := s.registry.Lookup(previous); err == nil {
		g.Dismiss(userId)
	}
}

func (s *Service) setCurrent(userId string, gameId int64) {
	s.mu.Lock()
	s.currentGame[userId] = gameId
	s.mu.Unlock()
}

func (s *Service) clearCurrent(userId string, gameId int64) {
	s.mu.Lock()
	if s.currentGame[userId] == gameId {
		delete(s.currentGame, userId)
	}
	s.mu.Unlock()
}

// forgetGame drops every current-game pointer into a dead game.
func (s *Service) forgetGame(gameId int64) {
	s.mu.Lock()
	for userId, id := range s.currentGame {
		if id == gameId {
			delete(s.currentGame, userId)
		}
	}
	s.mu.Unlock()
}
