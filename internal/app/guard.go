package app

import "songbook/internal/domain"

// Guard runs op only when session is logged in; otherwise it returns
// ErrLoginRequired without calling op.
func Guard(session *domain.Session, op func() error) error {
	if !session.Authenticated() {
		return ErrLoginRequired
	}
	return op()
}
