package app

// Notifier is the toast surface for user-facing outcomes. Calls are fire and
// forget.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}
