package entity

type Tag struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"not null;uniqueIndex;size:50"`
}
