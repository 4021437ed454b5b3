package notifiers

import "context"

// logNotifier records welcome events to the application log. It is the
// default sink when no notifiers file is configured.
type logNotifier struct {
	id  string
	typ string
	log Logger
}

func newLogNotifier(_ context.Context, cfg NotifierConfig, log Logger) (Notifier, error) {
	return &logNotifier{
		id:  cfg.ID,
		typ: TypeLog,
		log: ensureLogger(log),
	}, nil
}

// NewLogNotifier builds the default log sink directly, without a registry.
func NewLogNotifier(id string, log Logger) Notifier {
	n, _ := newLogNotifier(context.Background(), NotifierConfig{ID: id}, log)
	return n
}

func (l *logNotifier) ID() string   { return l.id }
func (l *logNotifier) Type() string { return l.typ }

func (l *logNotifier) Notify(_ context.Context, evt Event) error {
	l.log.InfoObj("welcome emitted", "welcome_event", evt)
	return nil
}
