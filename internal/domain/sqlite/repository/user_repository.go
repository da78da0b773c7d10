package repository

import (
	"errors"

	"notebloc/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

func (u *DefaultUserRepository) FindAll() ([]*entity.User, error) {
	var users []*entity.User
	err := u.db.Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (u *DefaultUserRepository) FindByID(id string) (*entity.User, error) {
	var user entity.User
	err := u.db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) FindByUsername(username string) (*entity.User, error) {
	var user entity.User
	err := u.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) FindByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := u.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) ExistsByUsername(username string) (bool, error) {
	var exists int
	err := u.db.
		Raw("SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)", username).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (u *DefaultUserRepository) ExistsByEmail(email string) (bool, error) {
	var exists int
	err := u.db.
		Raw("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", email).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (u *DefaultUserRepository) Save(user *entity.User) error {
	return u.db.Save(user).Error
}

// DeleteCascade removes the user and everything hanging off them in a single
// transaction: shares received, shares on owned notes, tag joins of owned
// notes, the owned notes themselves, then the user row. Any failure rolls
// the whole thing back.
func (u *DefaultUserRepository) DeleteCascade(user *entity.User) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		ownedNotes := tx.Model(&entity.Note{}).
			Select("id").
			Where("owner_id = ?", user.ID)

		err := tx.Where("recipient_id = ?", user.ID).
			Delete(&entity.NoteShare{}).Error
		if err != nil {
			return err
		}

		err = tx.Where("note_id IN (?)", ownedNotes).
			Delete(&entity.NoteShare{}).Error
		if err != nil {
			return err
		}

		err = tx.Where("note_id IN (?)", ownedNotes).
			Delete(&entity.NoteTag{}).Error
		if err != nil {
			return err
		}

		err = tx.Where("owner_id = ?", user.ID).
			Delete(&entity.Note{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(user).Error
	})
}
