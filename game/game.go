package game

import (
	"sync"
	"time"

	"github.com/sopra-fs21-group-4/sopra-server/domain"
)

type Phase int

const (
	PhaseLobby Phase = iota
	PhaseSuggestion
	PhaseVoting
	PhaseFinished
	PhaseDead
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseSuggestion:
		return "suggestion"
	case PhaseVoting:
		return "voting"
	case PhaseFinished:
		return "finished"
	case PhaseDead:
		return "dead"
	}
	return "unknown"
}

type TickResult int

const (
	TickNoChange TickResult = iota
	TickUpdated
	TickDead
)

// Game is the aggregate: settings, roster, rounds and the current
// phase, all guarded by a single mutex. Commands arrive from request
// handlers, Tick from the scheduler; both run under the same lock, so
// the sequence of observed states is exactly the lock acquisition
// order. Deadlines are always compared against current time, never
// against tick cadence.
type Game struct {
	mu sync.Mutex

	id     int64
	chatId string
	clock  func() time.Time

	settings Settings
	phase    Phase
	roster   map[string]*PlayerState
	rounds   []*Round
	current  int

	summary *domain.GameSummary
}

func NewGame(id int64, chatId string, master domain.User, settings Settings) *Game {
	g := &Game{
		id:       id,
		chatId:   chatId,
		clock:    time.Now,
		settings: settings,
		phase:    PhaseLobby,
		roster:   make(map[string]*PlayerState),
	}
	g.roster[master.Id] = &PlayerState{
		UserId:   master.Id,
		Username: master.Username,
		Enrolled: true,
		Promoted: true,
	}
	return g
}

func (g *Game) Id() int64 {
	return g.id
}

func (g *Game) ChatId() string {
	return g.chatId
}

func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

func (g *Game) IsPromoted(userId string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	ps, ok := g.roster[userId]
	return ok && ps.Promoted
}

// Enroll adds a user to the roster. Enrolling twice is a no-op.
func (g *Game) Enroll(user domain.User, password string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if ps, ok := g.roster[user.Id]; ok && ps.Enrolled {
		return nil
	}
	if g.settings.Password != "" && password != g.settings.Password {
		return ErrWrongPassword
	}
	if ps, ok := g.roster[user.Id]; ok && ps.Banned {
		return ErrBanned
	}
	if g.phase != PhaseLobby {
		return ErrAlreadyRunning
	}
	if g.enrolledCountLocked() >= g.settings.MaxPlayers {
		return ErrGameFull
	}

	ps, ok := g.roster[user.Id]
	if !ok {
		ps = &PlayerState{UserId: user.Id, Username: user.Username}
		g.roster[user.Id] = ps
	}
	ps.Enrolled = true
	ps.Ready = false
	return nil
}

// Dismiss removes a user's enrollment. If the dismissed user was the
// game master, mastership moves to the enrolled non-banned player with
// the smallest user id; with nobody left the game dies on the next tick.
func (g *Game) Dismiss(userId string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dismissLocked(userId)
}

func (g *Game) dismissLocked(userId string) {
	ps, ok := g.roster[userId]
	if !ok || !ps.Enrolled {
		return
	}
	ps.Enrolled = false
	ps.Ready = false
	if !ps.Promoted {
		return
	}
	ps.Promoted = false
	var next *PlayerState
	for _, candidate := range g.roster {
		if !candidate.Enrolled || candidate.Banned {
			continue
		}
		if next == nil || candidate.UserId < next.UserId {
			next = candidate
		}
	}
	if next != nil {
		next.Promoted = true
	}
}

// Ban flags a user and dismisses them if enrolled. The master check
// belongs to the caller.
func (g *Game) Ban(userId string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ps, ok := g.roster[userId]
	if !ok {
		ps = &PlayerState{UserId: userId}
		g.roster[userId] = ps
	}
	g.dismissLocked(userId)
	ps.Banned = true
}

func (g *Game) Forgive(userId string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ps, ok := g.roster[userId]; ok {
		ps.Banned = false
	}
}

// FindByUsername resolves a roster member by username, for master chat
// commands that name their target. Banned members resolve too, so they
// can be forgiven.
func (g *Game) FindByUsername(username string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, ps := range g.roster {
		if ps.Username == username {
			return ps.UserId, true
		}
	}
	return "", false
}

func (g *Game) SetReady(userId string, ready bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	ps, ok := g.roster[userId]
	if !ok || !ps.Enrolled || ps.Banned {
		return ErrNotEnrolled
	}
	if g.phase != PhaseLobby {
		return ErrAlreadyRunning
	}
	ps.Ready = ready
	return nil
}

func (g *Game) AdaptSettings(settings Settings) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhaseLobby {
		return ErrAlreadyRunning
	}
	g.settings = settings
	return nil
}

// CloseLobby freezes the settings, allocates round 1 and moves to the
// suggestion phase. Without force every enrolled non-banned player must
// be ready.
func (g *Game) CloseLobby(force bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseLobby {
		return ErrAlreadyRunning
	}
	if !force {
		for _, ps := range g.roster {
			if ps.Enrolled && !ps.Banned && !ps.Ready {
				return ErrPlayersNotReady
			}
		}
	}
	g.rounds = append(g.rounds, newRound(1, g.clock().Add(g.settings.suggestionWindow())))
	g.current = 0
	g.phase = PhaseSuggestion
	return nil
}

func (g *Game) PutSuggestion(userId, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkEnrolledLocked(userId); err != nil {
		return err
	}
	if g.phase != PhaseSuggestion {
		return ErrWrongPhase
	}
	r := g.rounds[g.current]
	if !g.clock().Before(r.suggestionDeadline) {
		return ErrWrongPhase
	}
	r.putSuggestion(userId, text)
	return nil
}

func (g *Game) PutVote(userId, target string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkEnrolledLocked(userId); err != nil {
		return err
	}
	if g.phase != PhaseVoting {
		return ErrWrongPhase
	}
	r := g.rounds[g.current]
	if !g.clock().Before(r.votingDeadline) {
		return ErrWrongPhase
	}
	return r.putVote(userId, target)
}

// Tick performs at most one time-driven phase transition, comparing
// deadlines against now. It never fails: a missing deadline counts as
// expired so the game always makes forward progress, and a game with no
// enrolled players dies immediately whatever its phase. The scheduler
// is expected to call it at least once per period; idempotent within a
// phase whose deadline has not passed.
func (g *Game) Tick(now time.Time) TickResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == PhaseDead {
		return TickDead
	}
	if g.enrolledCountLocked() == 0 {
		g.dieLocked(now)
		return TickDead
	}

	switch g.phase {
	case PhaseSuggestion:
		r := g.rounds[g.current]
		if r.suggestionDeadline.IsZero() || !now.Before(r.suggestionDeadline) {
			r.votingDeadline = now.Add(g.settings.votingWindow())
			g.phase = PhaseVoting
			return TickUpdated
		}
	case PhaseVoting:
		r := g.rounds[g.current]
		if r.votingDeadline.IsZero() || !now.Before(r.votingDeadline) {
			r.closeVoting()
			if g.current+1 < g.settings.RoundCount {
				g.rounds = append(g.rounds, newRound(g.current+2, now.Add(g.settings.suggestionWindow())))
				g.current++
				g.phase = PhaseSuggestion
				return TickUpdated
			}
			g.phase = PhaseFinished
			g.dieLocked(now)
			return TickDead
		}
	}
	return TickNoChange
}

// Summary returns the record captured when the game died. Calling it on
// a live game captures the state so far without killing the game; the
// scheduler only calls it after a Dead tick.
func (g *Game) Summary() domain.GameSummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.summary != nil {
		return *g.summary
	}
	return g.buildSummaryLocked(g.clock())
}

func (g *Game) checkEnrolledLocked(userId string) error {
	ps, ok := g.roster[userId]
	if !ok || !ps.Enrolled || ps.Banned {
		return ErrNotEnrolled
	}
	return nil
}

func (g *Game) enrolledCountLocked() int {
	n := 0
	for _, ps := range g.roster {
		if ps.Enrolled {
			n++
		}
	}
	return n
}

func (g *Game) dieLocked(now time.Time) {
	if g.summary == nil {
		s := g.buildSummaryLocked(now)
		g.summary = &s
	}
	g.phase = PhaseDead
}

// buildSummaryLocked is read-only: open rounds stay open, so a live
// snapshot cannot pre-empt the real close at the voting deadline.
func (g *Game) buildSummaryLocked(now time.Time) domain.GameSummary {
	rounds := make([]domain.RoundSummary, 0, len(g.rounds))
	for _, r := range g.rounds {
		rounds = append(rounds, r.summary())
	}
	return domain.GameSummary{
		GameId:     g.id,
		Settings:   g.settings.snapshot(),
		Rounds:     rounds,
		FinishedAt: now,
	}
}
