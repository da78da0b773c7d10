package entity

// User is the general basic structure of all users across the platform
type User struct {
	ID           string `gorm:"primaryKey"` // UUID, stable for the account's lifetime
	Username     string `gorm:"not null;uniqueIndex"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Roles        Role   `gorm:"not null;type:bigint;default:1"`
	CreatedAt    int64  `gorm:"not null"`
	UpdatedAt    int64  `gorm:"not null;autoUpdateTime:false"`
}
