package domain

import "time"

// GameSummary is the immutable record of a finished game. It is built
// exactly once when the game dies and handed to the summary store; the
// game core never touches it afterwards.
type GameSummary struct {
	GameId     int64            `json:"gameId"`
	Settings   SettingsSnapshot `json:"settings"`
	Rounds     []RoundSummary   `json:"rounds"`
	FinishedAt time.Time        `json:"finishedAt"`
}

// SettingsSnapshot freezes the configuration the game ran with. The
// password itself is never persisted, only whether one was set.
type SettingsSnapshot struct {
	Name              string `json:"name"`
	RoundCount        int    `json:"roundCount"`
	SuggestionSeconds int    `json:"suggestionSeconds"`
	VotingSeconds     int    `json:"votingSeconds"`
	MaxPlayers        int    `json:"maxPlayers"`
	PasswordProtected bool   `json:"passwordProtected"`
}

type RoundSummary struct {
	Index       int               `json:"index"`
	Suggestions map[string]string `json:"suggestions"`
	Votes       map[string]string `json:"votes"`
	Tally       map[string]int    `json:"tally"`
	Winner      string            `json:"winner"`
}
