package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-welcome-bot/internal/config"
	"github.com/samvad-hq/samvad-welcome-bot/internal/domain"
	"github.com/samvad-hq/samvad-welcome-bot/internal/greeter"
	"github.com/samvad-hq/samvad-welcome-bot/internal/logger"
	"github.com/samvad-hq/samvad-welcome-bot/internal/tracker"
	"github.com/samvad-hq/samvad-welcome-bot/pkg/mastodon"
	"github.com/samvad-hq/samvad-welcome-bot/pkg/notifiers"
)

// Bot represents the welcome bot runtime. It manages the poll loop,
// coordinating between the API client, the greeter, the seen-author tracker,
// and the notifier fanout.
type Bot struct {
	cfg     *config.Config
	client  APIClient
	greeter *greeter.Greeter
	seen    tracker.Tracker
	fanout  *notifiers.Fanout
	log     logger.Logger
	sinceID string
}

// NewBot builds a bot runtime from config. Authentication happens here; an
// auth failure is fatal since no API call can succeed without a token.
func NewBot(ctx context.Context, cfg *config.Config, log logger.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := mastodon.NewClient(cfg.APIBaseURL, log)
	if err := client.Login(ctx, mastodon.Credentials{
		Username:     cfg.Username,
		Password:     cfg.Password,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	}); err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("build notifiers: %w", err)
	}
	log.InfoObj("notifiers ready", "notifiers_meta", map[string]any{
		"count": fanout.Size(),
		"file":  cfg.NotifiersFile,
	})

	return &Bot{
		cfg:     cfg,
		client:  client,
		greeter: greeter.New(cfg.WelcomeTemplate, cfg.Hashtag),
		seen:    tracker.NewMemory(),
		fanout:  fanout,
		log:     log,
		sinceID: cfg.SinceID,
	}, nil
}

// buildFanout wires the configured notifier sinks. Without a notifiers file
// the bot still records every welcome through a log sink.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*notifiers.Fanout, error) {
	if cfg.NotifiersFile == "" {
		return notifiers.NewFanout([]notifiers.Notifier{
			notifiers.NewLogNotifier("welcome-log", log),
		}), nil
	}

	reg, err := notifiers.LoadRegistry(cfg.NotifiersFile)
	if err != nil {
		return nil, fmt.Errorf("load notifiers registry: %w", err)
	}
	enabled := reg.Enabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no notifiers enabled in %s", cfg.NotifiersFile)
	}
	notifs, err := notifiers.BuildAll(ctx, notifiers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, err
	}
	return notifiers.NewFanout(notifs), nil
}

// Run starts the poll loop until the context is cancelled. With Once set it
// performs a single pass and returns.
func (b *Bot) Run(ctx context.Context) error {
	if b == nil || b.client == nil {
		return fmt.Errorf("bot is not initialized")
	}

	if b.sinceID == "" {
		if err := b.seedCursor(ctx); err != nil {
			return fmt.Errorf("seed cursor: %w", err)
		}
	}

	b.log.InfoObj("bot loop starting", "bot_state", map[string]any{
		"hashtag":         b.cfg.Hashtag,
		"dry_run":         b.cfg.DryRun,
		"once":            b.cfg.Once,
		"poll_interval":   b.cfg.PollInterval.String(),
		"batch_size":      b.cfg.BatchSize,
		"since_id":        b.sinceID,
		"notifiers_count": b.fanout.Size(),
	})

	if err := b.runOnce(ctx); err != nil {
		if b.cfg.Once {
			return fmt.Errorf("pass: %w", err)
		}
		b.log.ErrorObj("initial pass failed", "error", err)
	}
	if b.cfg.Once {
		return nil
	}

	ticker := time.NewTicker(b.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.log.InfoObj("bot loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := b.runOnce(ctx); err != nil {
				b.log.ErrorObj("scheduled pass failed", "error", err)
			}
		}
	}
}

// seedCursor positions the cursor after the most recent status on the hashtag
// so the bot never greets authors of posts older than its own start.
func (b *Bot) seedCursor(ctx context.Context) error {
	statuses, err := b.client.TimelineHashtag(ctx, b.cfg.Hashtag, mastodon.TimelineQuery{
		Limit: 1,
		Local: true,
	})
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		b.log.InfoObj("no statuses on hashtag yet", "hashtag", b.cfg.Hashtag)
		return nil
	}
	b.sinceID = statuses[0].ID
	b.log.InfoObj("cursor seeded", "since_id", b.sinceID)
	return nil
}

// runOnce performs a single fetch-decide-post pass. A fetch failure aborts the
// pass; a single post failure does not.
func (b *Bot) runOnce(ctx context.Context) error {
	start := time.Now()

	statuses, newestID, err := b.fetchPass(ctx)
	if err != nil {
		return fmt.Errorf("fetch hashtag %q: %w", b.cfg.Hashtag, err)
	}
	if newestID != "" {
		b.sinceID = newestID
	}

	welcomes := b.greeter.Plan(statuses, b.seen)
	posted, failed := b.deliver(ctx, statuses, welcomes)

	b.log.InfoObj("pass completed", "pass_meta", map[string]any{
		"statuses_fetched": len(statuses),
		"welcomes_planned": len(welcomes),
		"welcomes_posted":  posted,
		"welcomes_failed":  failed,
		"authors_tracked":  b.seen.Len(),
		"since_id":         b.sinceID,
		"elapsed_ms":       time.Since(start).Milliseconds(),
	})
	return nil
}

// fetchPass pages through the hashtag timeline from the cursor until a short
// page, returning the statuses in chronological order plus the newest id seen.
func (b *Bot) fetchPass(ctx context.Context) ([]domain.Status, string, error) {
	var (
		collected []domain.Status
		newestID  string
		maxID     string
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		page, err := b.client.TimelineHashtag(ctx, b.cfg.Hashtag, mastodon.TimelineQuery{
			SinceID: b.sinceID,
			MaxID:   maxID,
			Limit:   b.cfg.BatchSize,
			Local:   true,
		})
		if err != nil {
			return nil, "", err
		}
		if len(page) == 0 {
			break
		}

		if newestID == "" {
			newestID = page[0].ID
		}
		collected = append(collected, page...)

		if len(page) < b.cfg.BatchSize {
			break
		}
		maxID = page[len(page)-1].ID
	}

	// Pages arrive newest first; the greeter wants first-occurrence order.
	for i, j := 0, len(collected)-1; i < j; i, j = i+1, j-1 {
		collected[i], collected[j] = collected[j], collected[i]
	}
	return collected, newestID, nil
}

// deliver posts (or dry-runs) each planned welcome and fans out events.
func (b *Bot) deliver(ctx context.Context, statuses []domain.Status, welcomes []greeter.Welcome) (posted, failed int) {
	if len(welcomes) == 0 {
		return 0, 0
	}

	byID := make(map[string]domain.Status, len(statuses))
	for _, st := range statuses {
		byID[st.ID] = st
	}

	for _, w := range welcomes {
		replyID := ""
		if b.cfg.DryRun {
			b.log.InfoObj("dry run: would have posted welcome", "welcome", map[string]any{
				"account_id": w.AccountID,
				"acct":       w.Acct,
				"status_id":  w.StatusID,
				"message":    w.Message,
			})
		} else {
			reply, err := b.client.PostStatus(ctx, w.Message, w.StatusID, b.cfg.ReplyVisibility)
			if err != nil {
				failed++
				b.log.ErrorObj("welcome post failed", "welcome_error", map[string]any{
					"account_id": w.AccountID,
					"acct":       w.Acct,
					"status_id":  w.StatusID,
					"error":      err.Error(),
				})
				continue
			}
			replyID = reply.ID
		}
		posted++

		evt := notifiers.Event{
			AccountID:  w.AccountID,
			Acct:       w.Acct,
			Hashtag:    b.cfg.Hashtag,
			StatusID:   w.StatusID,
			ReplyID:    replyID,
			Message:    w.Message,
			Excerpt:    byID[w.StatusID].Excerpt(),
			DryRun:     b.cfg.DryRun,
			WelcomedAt: time.Now().UTC(),
		}
		if _, err := b.fanout.Notify(ctx, evt); err != nil {
			b.log.WarnObj("notifier fanout incomplete", "notify_error", err.Error())
		}
	}
	return posted, failed
}
