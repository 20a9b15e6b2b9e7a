// Package sink is the delivery boundary of the reminder subsystem: the
// notification center hands fired reminders to a Sink and does not care
// how (or whether) they reach the user's screen.
package sink

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	logx "wellbot/pkg/logx"
)

// Notification is a fired reminder ready for presentation.
type Notification struct {
	ID       string
	Category string
	Title    string
	Body     string
	Data     map[string]string
	FiredAt  time.Time
}

type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// logSink writes fired reminders to the structured log. It is the
// always-available default and the fallback when no other sink is
// configured.
type logSink struct {
	log logx.Logger
}

func NewLog(log logx.Logger) Sink {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &logSink{log: log}
}

func (s *logSink) Deliver(ctx context.Context, n Notification) error {
	s.log.Info("reminder fired",
		logx.String("id", n.ID),
		logx.String("category", n.Category),
		logx.String("title", n.Title),
		logx.Time("at", n.FiredAt),
	)
	return nil
}

// limited wraps a Sink with a rate limiter so a burst of one-shot
// reminders cannot flood the delivery channel.
type limited struct {
	next    Sink
	limiter *rate.Limiter
}

// NewLimited allows perMinute deliveries on average with a burst of the
// same size. perMinute <= 0 disables limiting.
func NewLimited(next Sink, perMinute int) Sink {
	if perMinute <= 0 {
		return next
	}
	return &limited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
	}
}

func (s *limited) Deliver(ctx context.Context, n Notification) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	return s.next.Deliver(ctx, n)
}

// Fanout delivers to every sink in order; the first error wins but later
// sinks still run.
func Fanout(sinks ...Sink) Sink {
	return fanout(sinks)
}

type fanout []Sink

func (f fanout) Deliver(ctx context.Context, n Notification) error {
	var first error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Deliver(ctx, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}
