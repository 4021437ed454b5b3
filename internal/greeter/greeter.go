package greeter

import (
	"strings"

	"github.com/samvad-hq/samvad-welcome-bot/internal/domain"
	"github.com/samvad-hq/samvad-welcome-bot/internal/logger"
	"github.com/samvad-hq/samvad-welcome-bot/internal/tracker"
)

// Welcome is one planned welcome reply: the target author plus the rendered
// message, anchored to the status that triggered it.
type Welcome struct {
	AccountID string
	Acct      string
	StatusID  string
	Message   string
}

// Greeter decides which authors in a fetched batch get a welcome reply.
type Greeter struct {
	template string
	hashtag  string
}

// New builds a greeter that renders messages from template, substituting
// {handle} and {hashtag}.
func New(template, hashtag string) *Greeter {
	return &Greeter{
		template: template,
		hashtag:  strings.TrimPrefix(hashtag, "#"),
	}
}

// Plan walks the batch once, in order, and emits one welcome per distinct
// author not yet tracked, preserving first-occurrence order. Each emitted
// author is marked in seen immediately, so a failed post afterwards never
// causes a second welcome, and duplicate authors within the batch are guarded
// by a batch-local set as well. Statuses without an account ID and statuses
// that are not introductions (boosts, replies, non-public) are skipped.
func (g *Greeter) Plan(statuses []domain.Status, seen tracker.Tracker) []Welcome {
	if len(statuses) == 0 {
		return nil
	}

	batchSeen := make(map[string]struct{}, len(statuses))
	welcomes := make([]Welcome, 0, len(statuses))

	for _, st := range statuses {
		accountID := st.Account.ID
		if accountID == "" {
			logger.WarnObj("status without account id skipped", "status_id", st.ID)
			continue
		}
		if !st.IsIntroduction() {
			logger.DebugObj("status is not an introduction", "status_id", st.ID)
			continue
		}
		if _, dup := batchSeen[accountID]; dup {
			continue
		}
		if seen.Seen(accountID) {
			logger.DebugObj("author already welcomed", "account_id", accountID)
			continue
		}

		batchSeen[accountID] = struct{}{}
		seen.Mark(accountID)
		welcomes = append(welcomes, Welcome{
			AccountID: accountID,
			Acct:      st.Account.Acct,
			StatusID:  st.ID,
			Message:   g.Message(st.Account),
		})
	}

	return welcomes
}

// Message renders the welcome text for the given account.
func (g *Greeter) Message(account domain.Account) string {
	return strings.NewReplacer(
		"{handle}", account.Acct,
		"{hashtag}", g.hashtag,
	).Replace(g.template)
}
