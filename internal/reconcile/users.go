package reconcile

import (
	"context"
	"sync"

	"github.com/centraldesktop/fattailsync/internal/edge"
	"github.com/centraldesktop/fattailsync/pkg/logging"
)

// UserLister lists Edge users.
type UserLister interface {
	Users(ctx context.Context) ([]edge.User, error)
}

// Directory indexes Edge users by normalized full name. It is filled on the
// first lookup and reused for the rest of the run. A failed fill is retried
// on the next lookup.
type Directory struct {
	lister UserLister

	mu     sync.Mutex
	loaded bool
	byName map[string]edge.User
}

// NewDirectory creates a Directory backed by lister.
func NewDirectory(lister UserLister) *Directory {
	return &Directory{lister: lister}
}

// Lookup finds a user by full name, ignoring case.
func (d *Directory) Lookup(ctx context.Context, fullName string) (edge.User, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.loaded {
		users, err := d.lister.Users(ctx)
		if err != nil {
			return edge.User{}, false, err
		}
		d.byName = make(map[string]edge.User, len(users))
		for _, u := range users {
			key := NormalizeName(u.FullName())
			if key == "" {
				continue
			}
			if _, dup := d.byName[key]; dup {
				logging.FromContext(ctx).Debug().Str("name", key).Msg("Duplicate user name, keeping first")
				continue
			}
			d.byName[key] = u
		}
		d.loaded = true
		logging.FromContext(ctx).Debug().Int("users", len(d.byName)).Msg("Loaded user directory")
	}

	u, ok := d.byName[NormalizeName(fullName)]
	return u, ok, nil
}
