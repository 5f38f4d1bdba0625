package game

// PlayerState is one user's membership record inside one game. Banned
// players keep their record with Enrolled cleared so a later join
// attempt can be rejected until the master forgives them.
type PlayerState struct {
	UserId   string
	Username string
	Enrolled bool
	Promoted bool
	Ready    bool
	Banned   bool
}
