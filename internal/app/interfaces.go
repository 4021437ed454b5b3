package app

import (
	"context"

	"github.com/samvad-hq/samvad-welcome-bot/internal/domain"
	"github.com/samvad-hq/samvad-welcome-bot/pkg/mastodon"
)

// APIClient is the slice of the Mastodon client the bot consumes.
type APIClient interface {
	TimelineHashtag(ctx context.Context, hashtag string, q mastodon.TimelineQuery) ([]domain.Status, error)
	PostStatus(ctx context.Context, text, inReplyToID, visibility string) (domain.Status, error)
}
