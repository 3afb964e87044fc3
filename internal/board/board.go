package board

import (
	"github.com/opsfield/fieldserve/internal/api/domain"
)

// Board ties reducer state, the confirmed snapshot, and the speculative
// overlay together for a UI. Mutation results are never merged back into the
// snapshot; the caller refetches and calls Reconcile, which drops the
// overlay whether the mutations succeeded or not.
type Board struct {
	snapshot Snapshot
	overlay  Overlay
	state    State
}

// New creates a board over the first confirmed snapshot.
func New(snapshot Snapshot) *Board {
	return &Board{snapshot: snapshot, state: Idle()}
}

// State returns the current reducer state.
func (b *Board) State() State {
	return b.state
}

// Snapshot returns the last confirmed server state.
func (b *Board) Snapshot() *Snapshot {
	return &b.snapshot
}

// Handle feeds one event through the reducer and returns the intents the
// caller must issue. A card transition intent is also applied to the overlay
// so the move is visible before the server confirms it.
func (b *Board) Handle(event Event) []Intent {
	next, intents := Reduce(b.state, &b.snapshot, event)
	b.state = next

	for _, intent := range intents {
		if move, ok := intent.(TransitionJob); ok {
			b.overlay.Move(move.JobID, move.Column)
		}
	}

	return intents
}

// Reconcile replaces the snapshot with fresh server state and discards all
// speculative moves.
func (b *Board) Reconcile(snapshot Snapshot) {
	b.snapshot = snapshot
	b.overlay = Overlay{}
}

// View returns the cards grouped by display column, overlay applied.
func (b *Board) View() map[domain.ColumnKey][]Card {
	return View(&b.snapshot, &b.overlay)
}
