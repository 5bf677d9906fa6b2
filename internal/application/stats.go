package application

// Stats receives counters for the observable events of the assistant loop.
type Stats interface {
	WakeDetected()
	CommandProcessed()
	ChatFailed()
}

type NoopStats struct{}

func (NoopStats) WakeDetected()     {}
func (NoopStats) CommandProcessed() {}
func (NoopStats) ChatFailed()       {}
