package scripthost

import (
	"log/slog"
	"time"
)

// Alert is a user-visible report of a recoverable script error.
type Alert struct {
	ID         string    `json:"id"`
	InstanceID string    `json:"instance_id"`
	Category   string    `json:"category"`
	Message    string    `json:"message"`
	ErrorType  string    `json:"error_type,omitempty"`
	Time       time.Time `json:"time"`
}

// Presenter shows alerts to the user. It is invoked once for every
// recoverable script error before the failing operation returns.
type Presenter interface {
	Present(alert *Alert) error
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(alert *Alert) error

func (f PresenterFunc) Present(alert *Alert) error {
	return f(alert)
}

// LogPresenter reports alerts through a structured logger.
type LogPresenter struct {
	logger *slog.Logger
}

func NewLogPresenter(logger *slog.Logger) *LogPresenter {
	return &LogPresenter{logger: logger}
}

func (p *LogPresenter) Present(alert *Alert) error {
	p.logger.Error(alert.Message,
		slog.String("category", alert.Category),
		slog.String("error_type", alert.ErrorType),
		slog.String("instance_id", alert.InstanceID))
	return nil
}

// MultiPresenter fans an alert out to several presenters. Every presenter is
// called; the first error is returned.
type MultiPresenter []Presenter

func (m MultiPresenter) Present(alert *Alert) error {
	var first error
	for _, p := range m {
		if err := p.Present(alert); err != nil && first == nil {
			first = err
		}
	}
	return first
}
