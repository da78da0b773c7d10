package repository

import (
	"errors"

	"notebloc/internal/domain/entity"

	"gorm.io/gorm"
)

// NoteTagNameRow maps one tag name onto one note, used to inline tag names
// into note listings without loading live object graphs.
type NoteTagNameRow struct {
	NoteID int64
	Name   string
}

type DefaultTagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *DefaultTagRepository {
	return &DefaultTagRepository{db: db}
}

func (d *DefaultTagRepository) FindAll() ([]*entity.Tag, error) {
	var tags []*entity.Tag
	err := d.db.Order("name ASC").Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// FindAllUsedByOwner returns the tags attached to at least one of the
// owner's live notes.
func (d *DefaultTagRepository) FindAllUsedByOwner(ownerId string) ([]*entity.Tag, error) {
	var tags []*entity.Tag
	err := d.db.
		Distinct("tags.*").
		Joins("JOIN note_tags ON note_tags.tag_id = tags.id").
		Joins("JOIN notes ON notes.id = note_tags.note_id").
		Where("notes.owner_id = ? AND notes.is_deleted = ?", ownerId, false).
		Order("tags.name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (d *DefaultTagRepository) FindByID(id int64) (*entity.Tag, error) {
	var tag entity.Tag
	err := d.db.First(&tag, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (d *DefaultTagRepository) ExistsByName(name string) (bool, error) {
	var exists int
	err := d.db.
		Raw("SELECT EXISTS(SELECT 1 FROM tags WHERE name = ?)", name).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

// ExistsByNameExcept reports a name collision with any tag other than 'id',
// used on rename.
func (d *DefaultTagRepository) ExistsByNameExcept(name string, id int64) (bool, error) {
	var exists int
	err := d.db.
		Raw("SELECT EXISTS(SELECT 1 FROM tags WHERE name = ? AND id <> ?)", name, id).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (d *DefaultTagRepository) Save(tag *entity.Tag) error {
	return d.db.Save(tag).Error
}

// DeleteCascade removes the tag and its note associations in one transaction.
func (d *DefaultTagRepository) DeleteCascade(tag *entity.Tag) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("tag_id = ?", tag.ID).Delete(&entity.NoteTag{}).Error
		if err != nil {
			return err
		}
		return tx.Delete(tag).Error
	})
}

func (d *DefaultTagRepository) FindNoteTag(noteId, tagId int64) (*entity.NoteTag, error) {
	var nt entity.NoteTag
	err := d.db.
		Where("note_id = ? AND tag_id = ?", noteId, tagId).
		First(&nt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &nt, nil
}

func (d *DefaultTagRepository) SaveNoteTag(nt *entity.NoteTag) error {
	return d.db.Create(nt).Error
}

func (d *DefaultTagRepository) DeleteNoteTag(nt *entity.NoteTag) error {
	return d.db.
		Where("note_id = ? AND tag_id = ?", nt.NoteID, nt.TagID).
		Delete(&entity.NoteTag{}).Error
}

// FindNamesForNotes returns (noteId, tagName) pairs for the given notes in a
// single query, name ascending within insertion order.
func (d *DefaultTagRepository) FindNamesForNotes(noteIds []int64) ([]*NoteTagNameRow, error) {
	if len(noteIds) == 0 {
		return []*NoteTagNameRow{}, nil
	}

	var rows []*NoteTagNameRow
	err := d.db.Model(&entity.NoteTag{}).
		Select("note_tags.note_id, tags.name").
		Joins("JOIN tags ON tags.id = note_tags.tag_id").
		Where("note_tags.note_id IN ?", noteIds).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
