package repository

import (
	"errors"

	"notebloc/internal/domain/entity"

	"gorm.io/gorm"
)

// SharedWithMeRow is the flat projection for the "shared with me" listing:
// the note, its owner's name and the grant, one row per share.
type SharedWithMeRow struct {
	ShareID       int64
	NoteID        int64
	Title         string
	Content       string
	UpdatedAt     int64
	OwnerUsername string
	CanEdit       bool
}

// SharedByMeRow is the flat projection for the "shared by me" listing.
type SharedByMeRow struct {
	ShareID           int64
	NoteID            int64
	Title             string
	UpdatedAt         int64
	RecipientID       string
	RecipientUsername string
	CanEdit           bool
	SharedAt          int64
}

// ShareDetailRow carries everything a share-details response needs,
// resolved in one query.
type ShareDetailRow struct {
	ShareID           int64
	NoteID            int64
	Title             string
	OwnerID           string
	RecipientID       string
	RecipientUsername string
	CanEdit           bool
	SharedAt          int64
}

type DefaultShareRepository struct {
	db *gorm.DB
}

func NewShareRepository(db *gorm.DB) *DefaultShareRepository {
	return &DefaultShareRepository{db: db}
}

func (d *DefaultShareRepository) FindByNoteAndRecipient(noteId int64, recipientId string) (*entity.NoteShare, error) {
	var share entity.NoteShare
	err := d.db.
		Where("note_id = ? AND recipient_id = ?", noteId, recipientId).
		First(&share).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &share, nil
}

// FindEditableLive resolves the share that grants 'editorId' write access to
// a non-deleted note. A read-only grant does not match.
func (d *DefaultShareRepository) FindEditableLive(noteId int64, editorId string) (*entity.NoteShare, error) {
	var share entity.NoteShare
	err := d.db.
		Joins("JOIN notes ON notes.id = note_shares.note_id").
		Where("note_shares.note_id = ? AND note_shares.recipient_id = ? AND note_shares.can_edit = ?", noteId, editorId, true).
		Where("notes.is_deleted = ?", false).
		First(&share).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &share, nil
}

// FindByIDForOwner resolves a share by id only if 'ownerId' owns the
// underlying note.
func (d *DefaultShareRepository) FindByIDForOwner(shareId int64, ownerId string) (*entity.NoteShare, error) {
	var share entity.NoteShare
	err := d.db.
		Joins("JOIN notes ON notes.id = note_shares.note_id").
		Where("note_shares.id = ? AND notes.owner_id = ?", shareId, ownerId).
		First(&share).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &share, nil
}

// FindByIDForParty resolves a share by id for either side of the grant:
// the note's owner or the recipient. Anyone else gets nothing.
func (d *DefaultShareRepository) FindByIDForParty(shareId int64, userId string) (*ShareDetailRow, error) {
	var row ShareDetailRow
	err := d.db.Model(&entity.NoteShare{}).
		Select(`note_shares.id AS share_id,
			note_shares.note_id,
			notes.title,
			notes.owner_id,
			note_shares.recipient_id,
			users.username AS recipient_username,
			note_shares.can_edit,
			note_shares.shared_at`).
		Joins("JOIN notes ON notes.id = note_shares.note_id").
		Joins("JOIN users ON users.id = note_shares.recipient_id").
		Where("note_shares.id = ?", shareId).
		Where("notes.owner_id = ? OR note_shares.recipient_id = ?", userId, userId).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindLiveSharedWithUser lists every share naming 'userId' as recipient on a
// non-deleted note, most recently touched notes first.
func (d *DefaultShareRepository) FindLiveSharedWithUser(userId string) ([]*SharedWithMeRow, error) {
	var rows []*SharedWithMeRow
	err := d.db.Model(&entity.NoteShare{}).
		Select(`note_shares.id AS share_id,
			notes.id AS note_id,
			notes.title,
			notes.content,
			notes.updated_at,
			users.username AS owner_username,
			note_shares.can_edit`).
		Joins("JOIN notes ON notes.id = note_shares.note_id").
		Joins("JOIN users ON users.id = notes.owner_id").
		Where("note_shares.recipient_id = ? AND notes.is_deleted = ?", userId, false).
		Order("notes.updated_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindLiveSharedByOwner lists every share on notes owned by 'ownerId' where
// the note is still live, most recently touched notes first.
func (d *DefaultShareRepository) FindLiveSharedByOwner(ownerId string) ([]*SharedByMeRow, error) {
	var rows []*SharedByMeRow
	err := d.db.Model(&entity.NoteShare{}).
		Select(`note_shares.id AS share_id,
			notes.id AS note_id,
			notes.title,
			notes.updated_at,
			note_shares.recipient_id,
			users.username AS recipient_username,
			note_shares.can_edit,
			note_shares.shared_at`).
		Joins("JOIN notes ON notes.id = note_shares.note_id").
		Joins("JOIN users ON users.id = note_shares.recipient_id").
		Where("notes.owner_id = ? AND notes.is_deleted = ?", ownerId, false).
		Order("notes.updated_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (d *DefaultShareRepository) Save(share *entity.NoteShare) error {
	return d.db.Save(share).Error
}

func (d *DefaultShareRepository) Delete(share *entity.NoteShare) error {
	return d.db.Delete(share).Error
}

func (d *DefaultShareRepository) DeleteByID(shareId int64) error {
	return d.db.Delete(&entity.NoteShare{}, shareId).Error
}
