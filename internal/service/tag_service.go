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

type TagRepository interface {
	FindAll() ([]*entity.Tag, error)
	FindAllUsedByOwner(ownerId string) ([]*entity.Tag, error)
	FindByID(id int64) (*entity.Tag, error)
	ExistsByName(name string) (bool, error)
	ExistsByNameExcept(name string, id int64) (bool, error)
	Save(tag *entity.Tag) error
	DeleteCascade(tag *entity.Tag) error
	FindNoteTag(noteId, tagId int64) (*entity.NoteTag, error)
	SaveNoteTag(nt *entity.NoteTag) error
	DeleteNoteTag(nt *entity.NoteTag) error
	FindNamesForNotes(noteIds []int64) ([]*repository.NoteTagNameRow, error)
}

// TagService manages the tag catalog and the note<->tag association.
// Tags are not owned: any user may create one and attach it to their notes.
type TagService struct {
	TagRepo  TagRepository
	NoteRepo NoteRepository
	Policy   *policy.NotePolicy
	Validate *validator.Validate
}

func NewTagService(tagRepo TagRepository, noteRepo NoteRepository, notePolicy *policy.NotePolicy, validate *validator.Validate) *TagService {
	return &TagService{
		TagRepo:  tagRepo,
		NoteRepo: noteRepo,
		Policy:   notePolicy,
		Validate: validate,
	}
}

// GetMyTags lists the tags attached to at least one of the caller's live
// notes, name ascending.
func (t *TagService) GetMyTags(actor *entity.User) ([]*contract.TagResponse, apierror.ErrorResponse) {
	tags, err := t.TagRepo.FindAllUsedByOwner(actor.ID)
	if err != nil {
		log.Errorf("failed to fetch tags for user %s: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}
	return toTagResponses(tags), nil
}

func (t *TagService) GetAllTags() ([]*contract.TagResponse, apierror.ErrorResponse) {
	tags, err := t.TagRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch tags: %v", err)
		return nil, apierror.InternalServerError
	}
	return toTagResponses(tags), nil
}

func (t *TagService) GetTag(tagId int64) (*contract.TagResponse, apierror.ErrorResponse) {
	tag, apierr := t.fetchByID(tagId)
	if apierr != nil {
		return nil, apierr
	}
	return toTagResponse(tag), nil
}

// GetNotesByTag lists the caller's live notes carrying the tag, most
// recently touched first.
func (t *TagService) GetNotesByTag(actor *entity.User, tagId int64) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	if _, apierr := t.fetchByID(tagId); apierr != nil {
		return nil, apierr
	}

	notes, err := t.NoteRepo.FindAllLiveByOwnerAndTag(actor.ID, tagId)
	if err != nil {
		log.Errorf("failed to fetch notes by tag %d: %v", tagId, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = toNoteResponse(note, nil)
	}
	return resp, nil
}

func (t *TagService) CreateTag(req *contract.TagRequest) (*contract.TagResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := t.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	exists, err := t.TagRepo.ExistsByName(req.Name)
	if err != nil {
		log.Errorf("failed to check tag name: %v", err)
		return nil, apierror.InternalServerError
	}

	if exists {
		return nil, apierror.DuplicateTagNameError
	}

	tag := &entity.Tag{Name: req.Name}
	err = t.TagRepo.Save(tag)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apierror.DuplicateTagNameError
	}
	if err != nil {
		log.Errorf("failed to create tag: %v", err)
		return nil, apierror.InternalServerError
	}
	return toTagResponse(tag), nil
}

func (t *TagService) UpdateTag(tagId int64, req *contract.TagRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if valerr := t.Validate.Struct(req); valerr != nil {
		return apierror.FromValidationError(valerr)
	}

	tag, apierr := t.fetchByID(tagId)
	if apierr != nil {
		return apierr
	}

	taken, err := t.TagRepo.ExistsByNameExcept(req.Name, tagId)
	if err != nil {
		log.Errorf("failed to check tag name: %v", err)
		return apierror.InternalServerError
	}

	if taken {
		return apierror.DuplicateTagNameError
	}

	tag.Name = req.Name
	if err := t.TagRepo.Save(tag); err != nil {
		log.Errorf("failed to update tag %d: %v", tagId, err)
		return apierror.InternalServerError
	}
	return nil
}

// DeleteTag removes the tag and its note associations in one transaction.
func (t *TagService) DeleteTag(tagId int64) apierror.ErrorResponse {
	tag, apierr := t.fetchByID(tagId)
	if apierr != nil {
		return apierr
	}

	if err := t.TagRepo.DeleteCascade(tag); err != nil {
		log.Errorf("failed to delete tag %d: %v", tagId, err)
		return apierror.InternalServerError
	}
	return nil
}

// AddTagToNote attaches a tag, which counts as touching the note: its
// updatedAt is refreshed.
func (t *TagService) AddTagToNote(actor *entity.User, req *contract.NoteTagRequest) apierror.ErrorResponse {
	if valerr := t.Validate.Struct(req); valerr != nil {
		return apierror.FromValidationError(valerr)
	}

	note, apierr := t.fetchNoteForTagging(actor, req.NoteID)
	if apierr != nil {
		return apierr
	}

	if _, apierr := t.fetchByID(req.TagID); apierr != nil {
		return apierr
	}

	existing, err := t.TagRepo.FindNoteTag(req.NoteID, req.TagID)
	if err != nil {
		log.Errorf("failed to check note-tag pair: %v", err)
		return apierror.InternalServerError
	}

	if existing != nil {
		return apierror.TagAlreadyOnNoteError
	}

	nt := &entity.NoteTag{NoteID: req.NoteID, TagID: req.TagID}
	err = t.TagRepo.SaveNoteTag(nt)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierror.TagAlreadyOnNoteError
	}
	if err != nil {
		log.Errorf("failed to attach tag %d to note %d: %v", req.TagID, req.NoteID, err)
		return apierror.InternalServerError
	}

	if err := t.NoteRepo.Touch(note, utils.NowUTC()); err != nil {
		log.Errorf("failed to touch note %d: %v", note.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

// RemoveTagFromNote detaches a tag, refreshing the note's updatedAt.
func (t *TagService) RemoveTagFromNote(actor *entity.User, req *contract.NoteTagRequest) apierror.ErrorResponse {
	if valerr := t.Validate.Struct(req); valerr != nil {
		return apierror.FromValidationError(valerr)
	}

	note, apierr := t.fetchNoteForTagging(actor, req.NoteID)
	if apierr != nil {
		return apierr
	}

	nt, err := t.TagRepo.FindNoteTag(req.NoteID, req.TagID)
	if err != nil {
		log.Errorf("failed to check note-tag pair: %v", err)
		return apierror.InternalServerError
	}

	if nt == nil {
		return apierror.TagNotOnNoteError
	}

	if err := t.TagRepo.DeleteNoteTag(nt); err != nil {
		log.Errorf("failed to detach tag %d from note %d: %v", req.TagID, req.NoteID, err)
		return apierror.InternalServerError
	}

	if err := t.NoteRepo.Touch(note, utils.NowUTC()); err != nil {
		log.Errorf("failed to touch note %d: %v", note.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

// fetchNoteForTagging resolves a live note the actor may tag: owner or
// administrator. Shared access does not grant tagging rights.
func (t *TagService) fetchNoteForTagging(actor *entity.User, noteId int64) (*entity.Note, apierror.ErrorResponse) {
	note, err := t.NoteRepo.FindLiveByID(noteId)
	if err != nil {
		log.Errorf("failed to fetch note %d: %v", noteId, err)
		return nil, apierror.InternalServerError
	}

	if note == nil {
		return nil, apierror.NotFoundError
	}

	if t.Policy.Resolve(actor, note, nil) < policy.CapabilityOwner {
		return nil, apierror.NotFoundError
	}
	return note, nil
}

func (t *TagService) fetchByID(tagId int64) (*entity.Tag, apierror.ErrorResponse) {
	tag, err := t.TagRepo.FindByID(tagId)
	if err != nil {
		log.Errorf("failed to fetch tag %d: %v", tagId, err)
		return nil, apierror.InternalServerError
	}

	if tag == nil {
		return nil, apierror.NotFoundError
	}
	return tag, nil
}

func toTagResponse(tag *entity.Tag) *contract.TagResponse {
	return &contract.TagResponse{ID: tag.ID, Name: tag.Name}
}

func toTagResponses(tags []*entity.Tag) []*contract.TagResponse {
	resp := make([]*contract.TagResponse, len(tags))
	for i, tag := range tags {
		resp[i] = toTagResponse(tag)
	}
	return resp
}
