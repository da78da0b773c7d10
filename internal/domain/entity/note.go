package entity

type Note struct {
	ID      int64  `gorm:"primaryKey"`
	Title   string `gorm:"not null"`
	Content string `gorm:"not null"`
	OwnerID string `gorm:"not null;index"` // References: users(id), immutable after creation

	// IsDeleted marks the row as soft-deleted. Rows persist but every
	// normal read path filters on is_deleted = false.
	IsDeleted bool `gorm:"not null;default:false"`

	// Version backs optimistic concurrency on content updates.
	// A write conditioned on a stale version affects zero rows.
	Version   int64 `gorm:"not null;default:1"`
	CreatedAt int64 `gorm:"not null"`
	UpdatedAt int64 `gorm:"not null;autoUpdateTime:false"`

	// Relations
	Owner User `gorm:"foreignKey:OwnerID;references:ID"`
}
