package notifiers

import "time"

// Event is the payload delivered to sinks for each emitted welcome.
type Event struct {
	AccountID  string    `json:"account_id"`
	Acct       string    `json:"acct"`
	Hashtag    string    `json:"hashtag"`
	StatusID   string    `json:"status_id"`
	ReplyID    string    `json:"reply_id,omitempty"`
	Message    string    `json:"message"`
	Excerpt    string    `json:"excerpt,omitempty"`
	DryRun     bool      `json:"dry_run"`
	WelcomedAt time.Time `json:"welcomed_at"`
}
