package game

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sopra-fs21-group-4/sopra-server/domain"
)

// --- SummaryChecker / SummaryWriter ---

type MockSummaryStore struct {
	mock.Mock
}

func (m *MockSummaryStore) SummaryExists(ctx context.Context, gameId int64) (bool, error) {
	args := m.Called(ctx, gameId)
	return args.Bool(0), args.Error(1)
}

func (m *MockSummaryStore) SaveGameSummary(ctx context.Context, summary domain.GameSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockSummaryStore) GetGameSummary(ctx context.Context, gameId int64) (domain.GameSummary, error) {
	args := m.Called(ctx, gameId)
	return args.Get(0).(domain.GameSummary), args.Error(1)
}

// --- UserGetter ---

type MockUserGetter struct {
	mock.Mock
}

func (m *MockUserGetter) GetUserById(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

// --- ChannelProvider ---

type MockChannels struct {
	mock.Mock
}

func (m *MockChannels) Create() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockChannels) Release(channelId string) {
	m.Called(channelId)
}

// --- GameCommands ---

type MockGameCommands struct {
	mock.Mock
}

func (m *MockGameCommands) CreateGame(ctx context.Context, userId string, settings Settings) (*Game, error) {
	args := m.Called(ctx, userId, settings)
	g, _ := args.Get(0).(*Game)
	return g, args.Error(1)
}

func (m *MockGameCommands) JoinGame(ctx context.Context, gameId int64, userId, password string) (*Game, error) {
	args := m.Called(ctx, gameId, userId, password)
	g, _ := args.Get(0).(*Game)
	return g, args.Error(1)
}

func (m *MockGameCommands) LeaveGame(gameId int64, userId string) error {
	args := m.Called(gameId, userId)
	return args.Error(0)
}

func (m *MockGameCommands) StartGame(gameId int64, userId string, force bool) error {
	args := m.Called(gameId, userId, force)
	return args.Error(0)
}

func (m *MockGameCommands) SetReady(gameId int64, userId string, ready bool) error {
	args := m.Called(gameId, userId, ready)
	return args.Error(0)
}

func (m *MockGameCommands) AdaptSettings(gameId int64, userId string, settings Settings) error {
	args := m.Called(gameId, userId, settings)
	return args.Error(0)
}

func (m *MockGameCommands) PutSuggestion(gameId int64, userId, text string) error {
	args := m.Called(gameId, userId, text)
	return args.Error(0)
}

func (m *MockGameCommands) PutVote(gameId int64, userId, target string) error {
	args := m.Called(gameId, userId, target)
	return args.Error(0)
}

func (m *MockGameCommands) RunMasterCommand(gameId int64, userId, text string) error {
	args := m.Called(gameId, userId, text)
	return args.Error(0)
}

func (m *MockGameCommands) Game(gameId int64) (*Game, error) {
	args := m.Called(gameId)
	g, _ := args.Get(0).(*Game)
	return g, args.Error(1)
}

func (m *MockGameCommands) Descriptions() []Description {
	args := m.Called()
	return args.Get(0).([]Description)
}
