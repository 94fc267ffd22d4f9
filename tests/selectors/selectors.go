package sel

const (
	NewPlayerFormName   = `input[name="name"]`
	NewPlayerFormSubmit = `form button[type="submit"]`

	NewMatchFormPlayerA  = `select[name="playerA"]`
	NewMatchFormPlayerB  = `select[name="playerB"]`
	NewMatchFormRealtime = `input[name="realtime"]`
	NewMatchFormSubmit   = `form button[type="submit"]`

	TrackerScoreA = `#score-a`
	TrackerScoreB = `#score-b`

	SignInFormUsername = `input[name="username"]`
	SignInFormPass     = `input[name="password"]`
	SignInFormSubmit   = `form button[type="submit"]`
)
