package game

import (
	"time"

	"github.com/sopra-fs21-group-4/sopra-server/domain"
)

// Round holds one suggestion-then-voting cycle. All access happens
// under the owning Game's lock.
type Round struct {
	index              int
	suggestions        map[string]string
	votes              map[string]string
	suggestionDeadline time.Time
	votingDeadline     time.Time
	tally              map[string]int
	winner             string
	closed             bool
}

func newRound(index int, suggestionDeadline time.Time) *Round {
	return &Round{
		index:              index,
		suggestions:        make(map[string]string),
		votes:              make(map[string]string),
		suggestionDeadline: suggestionDeadline,
	}
}

// putSuggestion upserts a player's suggestion. Last write wins until
// the suggestion deadline; the deadline itself is checked by the Game.
func (r *Round) putSuggestion(userId, text string) {
	r.suggestions[userId] = text
}

// putVote upserts a vote. Self-votes and votes for users who submitted
// no suggestion this round are rejected.
func (r *Round) putVote(voter, target string) error {
	if voter == target {
		return ErrInvalidTarget
	}
	if _, ok := r.suggestions[target]; !ok {
		return ErrInvalidTarget
	}
	r.votes[voter] = target
	return nil
}

// closeVoting freezes the tally exactly once.
func (r *Round) closeVoting() {
	if r.closed {
		return
	}
	r.closed = true
	r.tally, r.winner = r.computeResult()
}

// computeResult tallies without touching round state. Every suggestion
// author appears in the tally, with zero if nobody voted for them. The
// winner is the max-vote author; ties break on the lexicographically
// smallest user id so the ranking is deterministic.
func (r *Round) computeResult() (map[string]int, string) {
	tally := make(map[string]int, len(r.suggestions))
	for author := range r.suggestions {
		tally[author] = 0
	}
	for _, target := range r.votes {
		tally[target]++
	}

	winner := ""
	for author, count := range tally {
		if winner == "" || count > tally[winner] || (count == tally[winner] && author < winner) {
			winner = author
		}
	}
	return tally, winner
}

// summary copies the round into its durable record. An open round gets
// a tally computed on the fly so a mid-round snapshot never closes it.
func (r *Round) summary() domain.RoundSummary {
	suggestions := make(map[string]string, len(r.suggestions))
	for k, v := range r.suggestions {
		suggestions[k] = v
	}
	votes := make(map[string]string, len(r.votes))
	for k, v := range r.votes {
		votes[k] = v
	}

	tallySrc, winner := r.tally, r.winner
	if !r.closed {
		tallySrc, winner = r.computeResult()
	}
	tally := make(map[string]int, len(tallySrc))
	for k, v := range tallySrc {
		tally[k] = v
	}
	return domain.RoundSummary{
		Index:       r.index,
		Suggestions: suggestions,
		Votes:       votes,
		Tally:       tally,
		Winner:      winner,
	}
}
