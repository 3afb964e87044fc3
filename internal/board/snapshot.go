package board

import (
	"github.com/opsfield/fieldserve/internal/api/domain"
)

// Card is one job as it appears on the board.
type Card struct {
	JobID       string                 `json:"job_id"`
	Title       string                 `json:"title"`
	Status      domain.Status          `json:"status"`
	Priority    string                 `json:"priority"`
	Assignments []domain.AssignmentRef `json:"assignments"`
}

// Snapshot is the last confirmed server state of the board. Speculative
// edits never touch it; they live in an Overlay until the next refetch.
type Snapshot struct {
	Cards  []Card            `json:"cards"`
	Labels map[string]string `json:"labels"`
}

// Find returns the card for jobID, or nil.
func (s *Snapshot) Find(jobID string) *Card {
	for i := range s.Cards {
		if s.Cards[i].JobID == jobID {
			return &s.Cards[i]
		}
	}
	return nil
}

// Label returns the display label for a column, falling back to defaults.
func (s *Snapshot) Label(key domain.ColumnKey) string {
	if label, ok := s.Labels[string(key)]; ok {
		return label
	}
	return domain.DefaultColumnLabels[key]
}

// Overlay is the speculative per-card column placement applied on top of a
// snapshot for display. It is discarded wholesale on every reconcile,
// success or failure, so the board always converges to server truth.
type Overlay struct {
	Moves map[string]domain.ColumnKey `json:"moves"`
}

// Move records a speculative placement of jobID in column.
func (o *Overlay) Move(jobID string, column domain.ColumnKey) {
	if o.Moves == nil {
		o.Moves = make(map[string]domain.ColumnKey)
	}
	o.Moves[jobID] = column
}

// ColumnOf returns the column a card is displayed in, overlay included.
func (o *Overlay) ColumnOf(card *Card) domain.ColumnKey {
	if col, ok := o.Moves[card.JobID]; ok {
		return col
	}
	return card.Status.Column()
}

// View groups a snapshot's cards by display column with the overlay applied.
func View(snapshot *Snapshot, overlay *Overlay) map[domain.ColumnKey][]Card {
	columns := make(map[domain.ColumnKey][]Card, 5)
	for _, key := range domain.ColumnKeys() {
		columns[key] = nil
	}
	for i := range snapshot.Cards {
		card := snapshot.Cards[i]
		col := overlay.ColumnOf(&card)
		columns[col] = append(columns[col], card)
	}
	return columns
}
