package entity

// NoteTag is the notes<->tags join row. The composite primary key doubles
// as the uniqueness constraint on the pair.
type NoteTag struct {
	NoteID int64 `gorm:"primaryKey;autoIncrement:false"` // References: notes(id)
	TagID  int64 `gorm:"primaryKey;autoIncrement:false"` // References: tags(id)
}
