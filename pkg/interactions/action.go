// Package interactions encodes the typed actions carried by message component custom IDs.
//
// Custom IDs have the form "tk/<kind>[/<argument>]". The argument is escaped so it can hold a
// category name. Anything that does not decode to a known kind is KindUnknown and must be
// ignored by the caller.
package interactions

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// MaxCustomIDLength is the longest custom ID Discord accepts.
const MaxCustomIDLength = 100

const prefix = "tk"

// ErrCustomIDTooLong is returned when an action does not fit in a custom ID.
var ErrCustomIDTooLong = fmt.Errorf("custom id longer than %d characters", MaxCustomIDLength)

// Kind is the kind of a component action.
type Kind string

const (
	// KindUnknown is any custom ID that is not ours.
	KindUnknown Kind = ""

	// KindOpen opens a ticket in a category. Carries the category name.
	KindOpen Kind = "open"

	// KindClaim claims the ticket of the channel.
	KindClaim Kind = "claim"

	// KindTransfer asks for a transfer target.
	KindTransfer Kind = "transfer"

	// KindTransferPick is the target selection of a transfer. Carries the selection session.
	KindTransferPick Kind = "transfer_pick"

	// KindClose asks for close confirmation.
	KindClose Kind = "close"

	// KindCloseConfirm closes the ticket of the channel.
	KindCloseConfirm Kind = "close_confirm"

	// KindCloseCancel dismisses the close confirmation.
	KindCloseCancel Kind = "close_cancel"

	// KindPanelConfirm publishes a pending panel. Carries the panel session.
	KindPanelConfirm Kind = "panel_confirm"

	// KindPanelCancel discards a pending panel. Carries the panel session.
	KindPanelCancel Kind = "panel_cancel"
)

var argumentKinds = map[Kind]bool{
	KindOpen:         true,
	KindTransferPick: true,
	KindPanelConfirm: true,
	KindPanelCancel:  true,
}

var plainKinds = map[Kind]bool{
	KindClaim:        true,
	KindTransfer:     true,
	KindClose:        true,
	KindCloseConfirm: true,
	KindCloseCancel:  true,
}

// Action is a decoded component action.
type Action struct {
	Kind Kind

	// Category is the category name of KindOpen.
	Category string

	// Session is the pending session of KindTransferPick, KindPanelConfirm and KindPanelCancel.
	Session string
}

// Open returns the action opening a ticket in category.
func Open(category string) Action {
	return Action{Kind: KindOpen, Category: category}
}

// Plain returns an action without an argument.
func Plain(kind Kind) Action {
	return Action{Kind: kind}
}

// WithSession returns an action bound to a pending session.
func WithSession(kind Kind, session string) Action {
	return Action{Kind: kind, Session: session}
}

func (a Action) argument() string {
	if a.Kind == KindOpen {
		return a.Category
	}
	return a.Session
}

var escaper = strings.NewReplacer("%", "%25", "/", "%2F")

// Encode encodes the action as a custom ID.
func (a Action) Encode() (string, error) {
	var id string
	switch {
	case plainKinds[a.Kind]:
		id = prefix + "/" + string(a.Kind)
	case argumentKinds[a.Kind]:
		arg := a.argument()
		if arg == "" {
			return "", fmt.Errorf("action %s requires an argument", a.Kind)
		}
		id = prefix + "/" + string(a.Kind) + "/" + escaper.Replace(arg)
	default:
		return "", errors.New("unknown action kind")
	}

	if utf8.RuneCountInString(id) > MaxCustomIDLength {
		return "", ErrCustomIDTooLong
	}
	return id, nil
}

// MustEncode encodes an action that is known to fit, such as an action without an argument.
func (a Action) MustEncode() string {
	id, err := a.Encode()
	if err != nil {
		panic(fmt.Sprintf("encoding action %s: %s", a.Kind, err))
	}
	return id
}

// Decode decodes a custom ID. The bool is false for custom IDs that are not a known action.
func Decode(customID string) (Action, bool) {
	parts := strings.SplitN(customID, "/", 3)
	if len(parts) < 2 || parts[0] != prefix {
		return Action{}, false
	}

	kind := Kind(parts[1])
	switch {
	case plainKinds[kind]:
		if len(parts) != 2 {
			return Action{}, false
		}
		return Action{Kind: kind}, true
	case argumentKinds[kind]:
		if len(parts) != 3 {
			return Action{}, false
		}
		arg, err := url.PathUnescape(parts[2])
		if err != nil || arg == "" {
			return Action{}, false
		}
		if kind == KindOpen {
			return Action{Kind: kind, Category: arg}, true
		}
		return Action{Kind: kind, Session: arg}, true
	}
	return Action{}, false
}
