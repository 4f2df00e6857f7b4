// Package snapshot holds the per-run cache of Edge accounts, workspaces and
// milestones, indexed by their FatTail correlation keys.
package snapshot

import (
	"sync"

	"github.com/centraldesktop/fattailsync/pkg/errors"
)

// Milestone is a cached Edge milestone, keyed by FatTail drop id.
type Milestone struct {
	Hash   string
	DropID string
}

// Workspace is a cached Edge workspace, keyed by FatTail order id.
type Workspace struct {
	Hash    string
	OrderID string
	Name    string

	mu         sync.RWMutex
	milestones []*Milestone
	byDropID   map[string]*Milestone
}

// Account is a cached Edge account, keyed by FatTail client id.
type Account struct {
	Hash     string
	ClientID string
	Name     string

	mu         sync.RWMutex
	workspaces []*Workspace
	byOrderID  map[string]*Workspace
}

// Tree is the root of the cache.
type Tree struct {
	mu         sync.RWMutex
	accounts   []*Account
	byClientID map[string]*Account
}

// Stats counts cached entities.
type Stats struct {
	Accounts   int `json:"accounts"`
	Workspaces int `json:"workspaces"`
	Milestones int `json:"milestones"`
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{byClientID: make(map[string]*Account)}
}

// NewAccount returns an account with no workspaces.
func NewAccount(hash, clientID, name string) *Account {
	return &Account{Hash: hash, ClientID: clientID, Name: name, byOrderID: make(map[string]*Workspace)}
}

// NewWorkspace returns a workspace with no milestones.
func NewWorkspace(hash, orderID, name string) *Workspace {
	return &Workspace{Hash: hash, OrderID: orderID, Name: name, byDropID: make(map[string]*Milestone)}
}

// NewMilestone returns a milestone.
func NewMilestone(hash, dropID string) *Milestone {
	return &Milestone{Hash: hash, DropID: dropID}
}

// FindAccount looks up an account by client id.
func (t *Tree) FindAccount(clientID string) (*Account, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	a, ok := t.byClientID[clientID]
	return a, ok
}

// AddAccount inserts an account. A second account with the same client id is rejected.
func (t *Tree) AddAccount(a *Account) error {
	if a == nil || a.ClientID == "" {
		return errors.NewValidationError("client_id", "", "account requires a client id")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.byClientID[a.ClientID]; exists {
		return errors.NewResourceError("add", "account", a.ClientID, errors.ErrAlreadyExists)
	}
	if a.byOrderID == nil {
		a.byOrderID = make(map[string]*Workspace)
	}
	t.accounts = append(t.accounts, a)
	t.byClientID[a.ClientID] = a
	return nil
}

// Accounts returns the accounts in insertion order.
func (t *Tree) Accounts() []*Account {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Account, len(t.accounts))
	copy(out, t.accounts)
	return out
}

// Stats counts every cached entity.
func (t *Tree) Stats() Stats {
	var s Stats
	for _, a := range t.Accounts() {
		s.Accounts++
		for _, w := range a.Workspaces() {
			s.Workspaces++
			s.Milestones += len(w.Milestones())
		}
	}
	return s
}

// FindWorkspace looks up a workspace by order id.
func (a *Account) FindWorkspace(orderID string) (*Workspace, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	w, ok := a.byOrderID[orderID]
	return w, ok
}

// AddWorkspace inserts a workspace. A second workspace with the same order id is rejected.
func (a *Account) AddWorkspace(w *Workspace) error {
	if w == nil || w.OrderID == "" {
		return errors.NewValidationError("order_id", "", "workspace requires an order id")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.byOrderID[w.OrderID]; exists {
		return errors.NewResourceError("add", "workspace", w.OrderID, errors.ErrAlreadyExists)
	}
	if w.byDropID == nil {
		w.byDropID = make(map[string]*Milestone)
	}
	a.workspaces = append(a.workspaces, w)
	a.byOrderID[w.OrderID] = w
	return nil
}

// Workspaces returns the workspaces in insertion order.
func (a *Account) Workspaces() []*Workspace {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*Workspace, len(a.workspaces))
	copy(out, a.workspaces)
	return out
}

// FindMilestone looks up a milestone by drop id.
func (w *Workspace) FindMilestone(dropID string) (*Milestone, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	m, ok := w.byDropID[dropID]
	return m, ok
}

// AddMilestone inserts a milestone. A second milestone with the same drop id is rejected.
func (w *Workspace) AddMilestone(m *Milestone) error {
	if m == nil || m.DropID == "" {
		return errors.NewValidationError("drop_id", "", "milestone requires a drop id")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.byDropID[m.DropID]; exists {
		return errors.NewResourceError("add", "milestone", m.DropID, errors.ErrAlreadyExists)
	}
	w.milestones = append(w.milestones, m)
	w.byDropID[m.DropID] = m
	return nil
}

// Milestones returns the milestones in insertion order.
func (w *Workspace) Milestones() []*Milestone {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Milestone, len(w.milestones))
	copy(out, w.milestones)
	return out
}
