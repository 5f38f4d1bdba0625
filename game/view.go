package game

import (
	"sort"
	"time"
)

// Description is the lobby-list entry for a game.
type Description struct {
	Id                int64  `json:"id"`
	Name              string `json:"name"`
	PlayersCount      int    `json:"playersCount"`
	MaxPlayers        int    `json:"maxPlayers"`
	Started           bool   `json:"started"`
	PasswordProtected bool   `json:"passwordProtected"`
}

type SettingsView struct {
	Name              string `json:"name"`
	RoundCount        int    `json:"roundCount"`
	SuggestionSeconds int    `json:"suggestionSeconds"`
	VotingSeconds     int    `json:"votingSeconds"`
	MaxPlayers        int    `json:"maxPlayers"`
	PasswordProtected bool   `json:"passwordProtected"`
}

type PlayerView struct {
	UserId   string `json:"userId"`
	Username string `json:"username"`
	Promoted bool   `json:"promoted"`
	Ready    bool   `json:"ready"`
}

type RoundView struct {
	Index              int               `json:"index"`
	SuggestionDeadline time.Time         `json:"suggestionDeadline"`
	VotingDeadline     *time.Time        `json:"votingDeadline,omitempty"`
	Suggestions        map[string]string `json:"suggestions,omitempty"`
	Tally              map[string]int    `json:"tally,omitempty"`
	Winner             string            `json:"winner,omitempty"`
}

// GameView is the state snapshot served to pollers and pushed over the
// websocket. Suggestions of the current round stay hidden until voting
// opens; votes are never exposed on live games, only their tallies.
type GameView struct {
	Id           int64        `json:"id"`
	ChatId       string       `json:"chatId"`
	Phase        string       `json:"phase"`
	Settings     SettingsView `json:"settings"`
	Players      []PlayerView `json:"players"`
	CurrentRound int          `json:"currentRound"`
	Rounds       []RoundView  `json:"rounds"`
}

func (g *Game) Description() Description {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Description{
		Id:                g.id,
		Name:              g.settings.Name,
		PlayersCount:      g.enrolledCountLocked(),
		MaxPlayers:        g.settings.MaxPlayers,
		Started:           g.phase != PhaseLobby,
		PasswordProtected: g.settings.Password != "",
	}
}

func (g *Game) View() GameView {
	g.mu.Lock()
	defer g.mu.Unlock()

	players := make([]PlayerView, 0, len(g.roster))
	for _, ps := range g.roster {
		if !ps.Enrolled {
			continue
		}
		players = append(players, PlayerView{
			UserId:   ps.UserId,
			Username: ps.Username,
			Promoted: ps.Promoted,
			Ready:    ps.Ready,
		})
	}
	sort.Slice(players, func(i, j int) bool { return players[i].UserId < players[j].UserId })

	rounds := make([]RoundView, 0, len(g.rounds))
	for i, r := range g.rounds {
		rv := RoundView{
			Index:              r.index,
			SuggestionDeadline: r.suggestionDeadline,
		}
		if !r.votingDeadline.IsZero() {
			deadline := r.votingDeadline
			rv.VotingDeadline = &deadline
		}
		votingOpen := i == g.current && g.phase == PhaseVoting
		if votingOpen || r.closed {
			suggestions := make(map[string]string, len(r.suggestions))
			for k, v := range r.suggestions {
				suggestions[k] = v
			}
			rv.Suggestions = suggestions
		}
		if r.closed {
			tally := make(map[string]int, len(r.tally))
			for k, v := range r.tally {
				tally[k] = v
			}
			rv.Tally = tally
			rv.Winner = r.winner
		}
		rounds = append(rounds, rv)
	}

	currentRound := 0
	if len(g.rounds) > 0 {
		currentRound = g.current + 1
	}

	return GameView{
		Id:     g.id,
		ChatId: g.chatId,
		Phase:  g.phase.String(),
		Settings: SettingsView{
			Name:              g.settings.Name,
			RoundCount:        g.settings.RoundCount,
			SuggestionSeconds: g.settings.SuggestionSeconds,
			VotingSeconds:     g.settings.VotingSeconds,
			MaxPlayers:        g.settings.MaxPlayers,
			PasswordProtected: g.settings.Password != "",
		},
		Players:      players,
		CurrentRound: currentRound,
		Rounds:       rounds,
	}
}
