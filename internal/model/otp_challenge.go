package model

const (
	ChallengeStatePending  = 1
	ChallengeStateConsumed = 2
)

type OTPChallenge struct {
	ID                string `json:"id"`
	LinkToken         string `json:"link_token"`
	Email             string `json:"email"`
	CodeHash          string `json:"code_hash"`
	State             int    `json:"state"`
	AttemptsRemaining int    `json:"attempts_remaining"`
	Ctime             int64  `json:"ctime"`
	ExpiresAt         int64  `json:"expires_at"`
}
