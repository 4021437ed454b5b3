package domain

import "time"

// Domain contains core models shared by the client, greeter, and notifiers.

// Account is the author of a status. ID is the stable account identifier and
// is the only field safe to deduplicate on; Acct and DisplayName may change.
type Account struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Acct        string `json:"acct"`
	DisplayName string `json:"display_name"`
}

// Tag is a hashtag attached to a status.
type Tag struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Status is a single post fetched from a hashtag timeline. Content is HTML as
// delivered by the API.
type Status struct {
	ID                 string    `json:"id"`
	CreatedAt          time.Time `json:"created_at"`
	Visibility         string    `json:"visibility"`
	Content            string    `json:"content"`
	InReplyToID        string    `json:"in_reply_to_id"`
	InReplyToAccountID string    `json:"in_reply_to_account_id"`
	Reblog             *Status   `json:"reblog"`
	Account            Account   `json:"account"`
	Tags               []Tag     `json:"tags"`
}

// IsIntroduction reports whether the status is a fresh introduction post:
// public, not a boost, and not a reply. Boosts and replies are never greeted.
func (s Status) IsIntroduction() bool {
	return s.Visibility == "public" &&
		s.Reblog == nil &&
		s.InReplyToID == "" &&
		s.InReplyToAccountID == ""
}
