package repository

import (
	"errors"

	"notebloc/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultNoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *DefaultNoteRepository {
	return &DefaultNoteRepository{db: db}
}

// FindLiveByID resolves a non-deleted note by id, regardless of owner.
func (d *DefaultNoteRepository) FindLiveByID(id int64) (*entity.Note, error) {
	var note entity.Note
	err := d.db.
		Where("id = ? AND is_deleted = ?", id, false).
		First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &note, nil
}

// FindLiveOwnedByID resolves a non-deleted note by id only if 'ownerId' owns it.
func (d *DefaultNoteRepository) FindLiveOwnedByID(id int64, ownerId string) (*entity.Note, error) {
	var note entity.Note
	err := d.db.
		Where("id = ? AND owner_id = ? AND is_deleted = ?", id, ownerId, false).
		First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (d *DefaultNoteRepository) FindAllLiveByOwner(ownerId string) ([]*entity.Note, error) {
	var notes []*entity.Note
	err := d.db.
		Where("owner_id = ? AND is_deleted = ?", ownerId, false).
		Order("updated_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// FindAllLive returns every non-deleted note with its owner loaded,
// for the administrative system-wide listing.
func (d *DefaultNoteRepository) FindAllLive() ([]*entity.Note, error) {
	var notes []*entity.Note
	err := d.db.
		Preload("Owner").
		Where("is_deleted = ?", false).
		Order("updated_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (d *DefaultNoteRepository) FindAllLiveByOwnerAndTag(ownerId string, tagId int64) ([]*entity.Note, error) {
	var notes []*entity.Note
	err := d.db.
		Joins("JOIN note_tags ON note_tags.note_id = notes.id").
		Where("note_tags.tag_id = ? AND notes.owner_id = ? AND notes.is_deleted = ?", tagId, ownerId, false).
		Order("notes.updated_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (d *DefaultNoteRepository) Save(note *entity.Note) error {
	return d.db.Save(note).Error
}

// UpdateContentVersioned writes title/content/updatedAt conditioned on the
// version the caller read. It reports stale=true (and writes nothing) when
// the row changed underneath the caller.
func (d *DefaultNoteRepository) UpdateContentVersioned(note *entity.Note, title, content string, now int64) (stale bool, err error) {
	res := d.db.Model(&entity.Note{}).
		Where("id = ? AND version = ? AND is_deleted = ?", note.ID, note.Version, false).
		Updates(map[string]any{
			"title":      title,
			"content":    content,
			"updated_at": now,
			"version":    note.Version + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}

	if res.RowsAffected == 0 {
		return true, nil
	}

	note.Title = title
	note.Content = content
	note.UpdatedAt = now
	note.Version++
	return false, nil
}

// SoftDelete flips is_deleted and refreshes updated_at. Share and tag join
// rows are intentionally left in place; every read path filters them out.
func (d *DefaultNoteRepository) SoftDelete(note *entity.Note, now int64) error {
	note.IsDeleted = true
	note.UpdatedAt = now
	return d.db.Model(note).
		Updates(map[string]any{"is_deleted": true, "updated_at": now}).Error
}

// Touch refreshes updated_at without changing content. Used by tag
// attach/detach, which count as touching the note.
func (d *DefaultNoteRepository) Touch(note *entity.Note, now int64) error {
	note.UpdatedAt = now
	return d.db.Model(note).Update("updated_at", now).Error
}
