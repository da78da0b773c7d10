package entity

// NoteShare grants a non-owner user read (and optionally write) access
// to a single note.
//
// Invariants enforced at the storage layer:
// at most one share per (note_id, recipient_id) pair, and the recipient
// is never the note's owner (checked before insert).
type NoteShare struct {
	ID          int64  `gorm:"primaryKey"`
	NoteID      int64  `gorm:"not null;uniqueIndex:idx_note_recipient"` // References: notes(id)
	RecipientID string `gorm:"not null;uniqueIndex:idx_note_recipient"` // References: users(id)
	CanEdit     bool   `gorm:"not null;default:false"`
	SharedAt    int64  `gorm:"not null"`

	// Relations
	Note      Note `gorm:"foreignKey:NoteID;references:ID"`
	Recipient User `gorm:"foreignKey:RecipientID;references:ID"`
}
