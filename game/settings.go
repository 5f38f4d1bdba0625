package game

import (
	"errors"
	"time"

	"github.com/sopra-fs21-group-4/sopra-server/domain"
)

const (
	MinPlayers       = 2
	MaxPlayersLimit  = 20
	MaxRounds        = 16
	MinWindowSeconds = 5
	MaxWindowSeconds = 600
)

// Settings is a game's configuration. It is mutable only while the game
// is in the lobby phase and frozen the moment the lobby closes.
type Settings struct {
	Name              string `json:"name"`
	RoundCount        int    `json:"roundCount"`
	SuggestionSeconds int    `json:"suggestionSeconds"`
	VotingSeconds     int    `json:"votingSeconds"`
	MaxPlayers        int    `json:"maxPlayers"`
	Password          string `json:"password"`
}

func (s Settings) Validate() error {
	if s.MaxPlayers < MinPlayers {
		return errors.New("maxPlayers must be at least 2")
	}
	if s.MaxPlayers > MaxPlayersLimit {
		return errors.New("maxPlayers cannot exceed 20")
	}
	if s.RoundCount < 1 {
		return errors.New("roundCount must be at least 1")
	}
	if s.RoundCount > MaxRounds {
		return errors.New("roundCount cannot exceed 16")
	}
	if s.SuggestionSeconds < MinWindowSeconds || s.SuggestionSeconds > MaxWindowSeconds {
		return errors.New("suggestionSeconds must be between 5 and 600")
	}
	if s.VotingSeconds < MinWindowSeconds || s.VotingSeconds > MaxWindowSeconds {
		return errors.New("votingSeconds must be between 5 and 600")
	}
	return nil
}

func (s Settings) suggestionWindow() time.Duration {
	return time.Duration(s.SuggestionSeconds) * time.Second
}

func (s Settings) votingWindow() time.Duration {
	return time.Duration(s.VotingSeconds) * time.Second
}

func (s Settings) snapshot() domain.SettingsSnapshot {
	return domain.SettingsSnapshot{
		Name:              s.Name,
		RoundCount:        s.RoundCount,
		SuggestionSeconds: s.SuggestionSeconds,
		VotingSeconds:     s.VotingSeconds,
		MaxPlayers:        s.MaxPlayers,
		PasswordProtected: s.Password != "",
	}
}
