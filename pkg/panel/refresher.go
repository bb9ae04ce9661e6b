package panel

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Jacobbrewer1/warden/pkg/dataaccess"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/logging"
)

// Publisher sends and edits panel messages.
type Publisher interface {
	// SendPanel sends the panel to a channel and returns the message ID.
	SendPanel(channelID string, p *Payload) (string, error)

	// EditPanel replaces the panel in an existing message.
	EditPanel(channelID, messageID string, p *Payload) error
}

// Store is the data the refresher reads.
type Store interface {
	ListCategories(ctx context.Context, guildID string) ([]*entities.Category, error)
	GetPanelBinding(ctx context.Context, guildID string) (*entities.PanelBinding, error)
}

// Refresher re-renders the published panel of a guild.
type Refresher struct {
	l         *slog.Logger
	store     Store
	publisher Publisher
}

// NewRefresher creates a new refresher.
func NewRefresher(l *slog.Logger, store Store, publisher Publisher) *Refresher {
	return &Refresher{
		l:         l,
		store:     store,
		publisher: publisher,
	}
}

// Refresh edits the bound panel of the guild to show the current categories. Failures are
// logged and never returned: a missing panel is not an error for the caller.
func (r *Refresher) Refresh(ctx context.Context, guildID string) {
	l := r.l.With(slog.String(logging.KeyGuild, guildID))

	binding, err := r.store.GetPanelBinding(ctx, guildID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		l.Debug("No panel bound, skipping refresh")
		return
	} else if err != nil {
		l.Error("Error getting panel binding", slog.String(logging.KeyError, err.Error()))
		return
	}

	categories, err := r.store.ListCategories(ctx, guildID)
	if err != nil {
		l.Error("Error listing categories", slog.String(logging.KeyError, err.Error()))
		return
	}

	p := BuildPayload(categories)
	if len(p.Omitted) > 0 {
		l.Warn("Categories omitted from panel", slog.Any("categories", p.Omitted))
	}

	if err := r.publisher.EditPanel(binding.ChannelID, binding.MessageID, p); err != nil {
		l.Warn("Error editing panel",
			slog.String(logging.KeyChannel, binding.ChannelID),
			slog.String(logging.KeyError, err.Error()),
		)
		return
	}

	l.Debug("Panel refreshed", slog.Int("categories", len(categories)))
}
