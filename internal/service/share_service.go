package service

import (
	"errors"

	"notebloc/internal/contract"
	"notebloc/internal/domain/entity"
	"notebloc/internal/domain/policy"
	"notebloc/internal/domain/sqlite/repository"
	"notebloc/internal/utils"
	"notebloc/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

type ShareRepository interface {
	FindByNoteAndRecipient(noteId int64, recipientId string) (*entity.NoteShare, error)
	FindEditableLive(noteId int64, editorId string) (*entity.NoteShare, error)
	FindByIDForOwner(shareId int64, ownerId string) (*entity.NoteShare, error)
	FindByIDForParty(shareId int64, userId string) (*repository.ShareDetailRow, error)
	FindLiveSharedWithUser(userId string) ([]*repository.SharedWithMeRow, error)
	FindLiveSharedByOwner(ownerId string) ([]*repository.SharedByMeRow, error)
	Save(share *entity.NoteShare) error
	Delete(share *entity.NoteShare) error
	DeleteByID(shareId int64) error
}

// ShareService is the share registry: it owns every grant's lifecycle and
// is the only path through which non-owners touch note content.
type ShareService struct {
	ShareRepo ShareRepository
	NoteRepo  NoteRepository
	UserRepo  UserRepository
	Policy    *policy.NotePolicy
	Validate  *validator.Validate
}

func NewShareService(
	shareRepo ShareRepository,
	noteRepo NoteRepository,
	userRepo UserRepository,
	notePolicy *policy.NotePolicy,
	validate *validator.Validate,
) *ShareService {
	return &ShareService{
		ShareRepo: shareRepo,
		NoteRepo:  noteRepo,
		UserRepo:  userRepo,
		Policy:    notePolicy,
		Validate:  validate,
	}
}

// CreateShare grants a recipient access to one of the actor's notes.
// Check order matters for the error taxonomy: note ownership (404),
// recipient resolution (400), self-share (400), duplicate grant (409).
func (s *ShareService) CreateShare(actor *entity.User, req *contract.ShareNoteRequest) (*contract.ShareResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	note, err := s.NoteRepo.FindLiveByID(req.NoteID)
	if err != nil {
		log.Errorf("failed to fetch note %d: %v", req.NoteID, err)
		return nil, apierror.InternalServerError
	}

	if perr := s.Policy.CanShare(actor, note); perr != nil {
		return nil, perr
	}

	recipient, err := s.UserRepo.FindByUsername(req.ShareWithUsername)
	if err != nil {
		log.Errorf("failed to fetch recipient %q: %v", req.ShareWithUsername, err)
		return nil, apierror.InternalServerError
	}

	if recipient == nil {
		return nil, apierror.RecipientNotFoundError
	}

	if recipient.ID == actor.ID {
		return nil, apierror.SelfShareError
	}

	existing, err := s.ShareRepo.FindByNoteAndRecipient(note.ID, recipient.ID)
	if err != nil {
		log.Errorf("failed to check existing share: %v", err)
		return nil, apierror.InternalServerError
	}

	if existing != nil {
		return nil, apierror.DuplicateShareError
	}

	share := &entity.NoteShare{
		NoteID:      note.ID,
		RecipientID: recipient.ID,
		CanEdit:     req.CanEdit,
		SharedAt:    utils.NowUTC(),
	}

	err = s.ShareRepo.Save(share)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race against a concurrent identical share; the unique
		// index on (note_id, recipient_id) is the final arbiter.
		return nil, apierror.DuplicateShareError
	}
	if err != nil {
		log.Errorf("failed to create share: %v", err)
		return nil, apierror.InternalServerError
	}

	return &contract.ShareResponse{
		ID:                share.ID,
		NoteID:            note.ID,
		Title:             note.Title,
		RecipientID:       recipient.ID,
		RecipientUsername: recipient.Username,
		CanEdit:           share.CanEdit,
		SharedAt:          utils.FormatEpoch(share.SharedAt),
	}, nil
}

// GetShareDetails is visible to exactly two identities: the note owner and
// the recipient.
func (s *ShareService) GetShareDetails(actor *entity.User, shareId int64) (*contract.ShareResponse, apierror.ErrorResponse) {
	row, err := s.ShareRepo.FindByIDForParty(shareId, actor.ID)
	if err != nil {
		log.Errorf("failed to fetch share %d: %v", shareId, err)
		return nil, apierror.InternalServerError
	}

	if row == nil {
		return nil, apierror.NotFoundError
	}

	return &contract.ShareResponse{
		ID:                row.ShareID,
		NoteID:            row.NoteID,
		Title:             row.Title,
		RecipientID:       row.RecipientID,
		RecipientUsername: row.RecipientUsername,
		CanEdit:           row.CanEdit,
		SharedAt:          utils.FormatEpoch(row.SharedAt),
	}, nil
}

// ListSharedByMe surfaces active collaboration first: ordered by the
// underlying note's updatedAt, newest first.
func (s *ShareService) ListSharedByMe(actor *entity.User) ([]*contract.SharedByMeResponse, apierror.ErrorResponse) {
	rows, err := s.ShareRepo.FindLiveSharedByOwner(actor.ID)
	if err != nil {
		log.Errorf("failed to fetch shares by owner %s: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.SharedByMeResponse, len(rows))
	for i, row := range rows {
		resp[i] = &contract.SharedByMeResponse{
			ShareID:           row.ShareID,
			NoteID:            row.NoteID,
			Title:             row.Title,
			UpdatedAt:         utils.FormatEpoch(row.UpdatedAt),
			RecipientID:       row.RecipientID,
			RecipientUsername: row.RecipientUsername,
			CanEdit:           row.CanEdit,
			SharedAt:          utils.FormatEpoch(row.SharedAt),
		}
	}
	return resp, nil
}

func (s *ShareService) ListSharedWithMe(actor *entity.User) ([]*contract.SharedWithMeResponse, apierror.ErrorResponse) {
	rows, err := s.ShareRepo.FindLiveSharedWithUser(actor.ID)
	if err != nil {
		log.Errorf("failed to fetch shares for recipient %s: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.SharedWithMeResponse, len(rows))
	for i, row := range rows {
		resp[i] = &contract.SharedWithMeResponse{
			ShareID:       row.ShareID,
			NoteID:        row.NoteID,
			Title:         row.Title,
			Content:       row.Content,
			UpdatedAt:     utils.FormatEpoch(row.UpdatedAt),
			OwnerUsername: row.OwnerUsername,
			CanEdit:       row.CanEdit,
		}
	}
	return resp, nil
}

// UpdatePermission flips the edit flag on a grant. Only the note's owner
// may do this, and it does NOT touch the note's updatedAt: permission is
// metadata, not content.
func (s *ShareService) UpdatePermission(actor *entity.User, shareId int64, req *contract.UpdateShareRequest) apierror.ErrorResponse {
	if valerr := s.Validate.Struct(req); valerr != nil {
		return apierror.FromValidationError(valerr)
	}

	share, err := s.ShareRepo.FindByIDForOwner(shareId, actor.ID)
	if err != nil {
		log.Errorf("failed to fetch share %d: %v", shareId, err)
		return apierror.InternalServerError
	}

	if share == nil {
		return apierror.NotFoundError
	}

	share.CanEdit = *req.CanEdit
	if err := s.ShareRepo.Save(share); err != nil {
		log.Errorf("failed to update share %d: %v", shareId, err)
		return apierror.InternalServerError
	}
	return nil
}

// RevokeShare removes a grant. The revocation right is symmetric: the note
// owner and the recipient can both sever it; anyone else resolves to 404.
func (s *ShareService) RevokeShare(actor *entity.User, shareId int64) apierror.ErrorResponse {
	row, err := s.ShareRepo.FindByIDForParty(shareId, actor.ID)
	if err != nil {
		log.Errorf("failed to fetch share %d: %v", shareId, err)
		return apierror.InternalServerError
	}

	if row == nil {
		return apierror.NotFoundError
	}

	if err := s.ShareRepo.DeleteByID(row.ShareID); err != nil {
		log.Errorf("failed to delete share %d: %v", shareId, err)
		return apierror.InternalServerError
	}
	return nil
}

// RemoveMyAccess lets a recipient drop their own grant, addressed by note
// id rather than share id.
func (s *ShareService) RemoveMyAccess(actor *entity.User, noteId int64) apierror.ErrorResponse {
	share, err := s.ShareRepo.FindByNoteAndRecipient(noteId, actor.ID)
	if err != nil {
		log.Errorf("failed to fetch share on note %d: %v", noteId, err)
		return apierror.InternalServerError
	}

	if share == nil {
		return apierror.NotFoundError
	}

	if err := s.ShareRepo.Delete(share); err != nil {
		log.Errorf("failed to delete share %d: %v", share.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

// EditSharedNoteContent is the write path for editing collaborators. It
// requires a live note and a grant with the edit flag; a read-only grant
// masks as NotFound and leaves the note untouched.
func (s *ShareService) EditSharedNoteContent(actor *entity.User, noteId int64, req *contract.EditSharedNoteRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return apierror.FromValidationError(valerr)
	}

	share, err := s.ShareRepo.FindEditableLive(noteId, actor.ID)
	if err != nil {
		log.Errorf("failed to fetch editable share on note %d: %v", noteId, err)
		return apierror.InternalServerError
	}

	if share == nil {
		return apierror.NotFoundError
	}

	note, err := s.NoteRepo.FindLiveByID(noteId)
	if err != nil {
		log.Errorf("failed to fetch note %d: %v", noteId, err)
		return apierror.InternalServerError
	}

	if perr := s.Policy.CanEditContent(actor, note, share); perr != nil {
		return perr
	}

	// Conditioned on the version read just above, so an owner writing at
	// the same moment surfaces as a conflict instead of being overwritten.
	stale, err := s.NoteRepo.UpdateContentVersioned(note, req.Title, req.Content, utils.NowUTC())
	if err != nil {
		log.Errorf("failed to edit shared note %d: %v", noteId, err)
		return apierror.InternalServerError
	}

	if stale {
		return apierror.StaleWriteError
	}
	return nil
}
