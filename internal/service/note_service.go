package service

import (
	"notebloc/internal/contract"
	"notebloc/internal/domain/entity"
	"notebloc/internal/domain/policy"
	"notebloc/internal/utils"
	"notebloc/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type NoteRepository interface {
	FindLiveByID(id int64) (*entity.Note, error)
	FindLiveOwnedByID(id int64, ownerId string) (*entity.Note, error)
	FindAllLiveByOwner(ownerId string) ([]*entity.Note, error)
	FindAllLive() ([]*entity.Note, error)
	FindAllLiveByOwnerAndTag(ownerId string, tagId int64) ([]*entity.Note, error)
	Save(note *entity.Note) error
	UpdateContentVersioned(note *entity.Note, title, content string, now int64) (bool, error)
	SoftDelete(note *entity.Note, now int64) error
	Touch(note *entity.Note, now int64) error
}

type DefaultNoteService struct {
	NoteRepo NoteRepository
	TagRepo  TagRepository
	Policy   *policy.NotePolicy
	Validate *validator.Validate
}

func NewNoteService(noteRepo NoteRepository, tagRepo TagRepository, notePolicy *policy.NotePolicy, validate *validator.Validate) *DefaultNoteService {
	return &DefaultNoteService{
		NoteRepo: noteRepo,
		TagRepo:  tagRepo,
		Policy:   notePolicy,
		Validate: validate,
	}
}

// GetNotes lists the caller's own live notes. Administrators instead get
// every live note in the system, grouped per owner.
func (n *DefaultNoteService) GetNotes(actor *entity.User) (any, apierror.ErrorResponse) {
	if actor.Roles.IsAdmin() {
		return n.getNotesGrouped()
	}

	notes, err := n.NoteRepo.FindAllLiveByOwner(actor.ID)
	if err != nil {
		log.Errorf("failed to fetch notes: %v", err)
		return nil, apierror.InternalServerError
	}

	tagNames, apierr := n.tagNamesFor(notes)
	if apierr != nil {
		return nil, apierr
	}

	resp := make([]*contract.NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = toNoteResponse(note, tagNames[note.ID])
	}
	return resp, nil
}

func (n *DefaultNoteService) GetNote(actor *entity.User, noteId int64) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, apierr := n.fetchOwnedOrAdmin(actor, noteId)
	if apierr != nil {
		return nil, apierr
	}

	tagNames, apierr := n.tagNamesFor([]*entity.Note{note})
	if apierr != nil {
		return nil, apierr
	}
	return toNoteResponse(note, tagNames[note.ID]), nil
}

func (n *DefaultNoteService) CreateNote(actor *entity.User, req *contract.CreateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	now := utils.NowUTC()
	note := &entity.Note{
		Title:     req.Title,
		Content:   req.Content,
		OwnerID:   actor.ID,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := n.NoteRepo.Save(note); err != nil {
		log.Errorf("failed to save note: %v", err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponse(note, nil), nil
}

// UpdateNote rewrites title/content for the owner (or an administrator).
// The write is conditioned on the version the caller read; a stale version
// surfaces a conflict instead of silently overwriting.
func (n *DefaultNoteService) UpdateNote(actor *entity.User, noteId int64, req *contract.UpdateNoteRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return apierror.FromValidationError(valerr)
	}

	note, apierr := n.fetchOwnedOrAdmin(actor, noteId)
	if apierr != nil {
		return apierr
	}

	note.Version = req.Version
	stale, err := n.NoteRepo.UpdateContentVersioned(note, req.Title, req.Content, utils.NowUTC())
	if err != nil {
		log.Errorf("failed to update note %d: %v", noteId, err)
		return apierror.InternalServerError
	}

	if stale {
		return apierror.StaleWriteError
	}
	return nil
}

// DeleteNote soft-deletes. Deleting an already-deleted note resolves to
// NotFound since the fetch filters on live rows.
func (n *DefaultNoteService) DeleteNote(actor *entity.User, noteId int64) apierror.ErrorResponse {
	note, apierr := n.fetchOwnedOrAdmin(actor, noteId)
	if apierr != nil {
		return apierr
	}

	if perr := n.Policy.CanDelete(actor, note, nil); perr != nil {
		return perr
	}

	if err := n.NoteRepo.SoftDelete(note, utils.NowUTC()); err != nil {
		log.Errorf("failed to delete note %d: %v", noteId, err)
		return apierror.InternalServerError
	}
	return nil
}

func (n *DefaultNoteService) getNotesGrouped() ([]*contract.OwnerNotesResponse, apierror.ErrorResponse) {
	notes, err := n.NoteRepo.FindAllLive()
	if err != nil {
		log.Errorf("failed to fetch notes: %v", err)
		return nil, apierror.InternalServerError
	}

	tagNames, apierr := n.tagNamesFor(notes)
	if apierr != nil {
		return nil, apierr
	}

	// Group per owner, keeping owners in order of their most recently
	// touched note (the underlying query is updated_at DESC).
	groups := make(map[string]*contract.OwnerNotesResponse)
	ordered := []*contract.OwnerNotesResponse{}
	for _, note := range notes {
		group, ok := groups[note.OwnerID]
		if !ok {
			group = &contract.OwnerNotesResponse{
				UserID:   note.OwnerID,
				Username: note.Owner.Username,
				Notes:    []*contract.NoteResponse{},
			}
			groups[note.OwnerID] = group
			ordered = append(ordered, group)
		}
		group.Notes = append(group.Notes, toNoteResponse(note, tagNames[note.ID]))
	}
	return ordered, nil
}

// fetchOwnedOrAdmin resolves a live note the actor may act on directly:
// their own, or any note when they are an administrator. Everything else
// masks as NotFound.
func (n *DefaultNoteService) fetchOwnedOrAdmin(actor *entity.User, noteId int64) (*entity.Note, apierror.ErrorResponse) {
	var note *entity.Note
	var err error
	if actor.Roles.IsAdmin() {
		note, err = n.NoteRepo.FindLiveByID(noteId)
	} else {
		note, err = n.NoteRepo.FindLiveOwnedByID(noteId, actor.ID)
	}

	if err != nil {
		log.Errorf("failed to fetch note %d: %v", noteId, err)
		return nil, apierror.InternalServerError
	}

	if note == nil {
		return nil, apierror.NotFoundError
	}
	return note, nil
}

func (n *DefaultNoteService) tagNamesFor(notes []*entity.Note) (map[int64][]string, apierror.ErrorResponse) {
	ids := make([]int64, len(notes))
	for i, note := range notes {
		ids[i] = note.ID
	}

	rows, err := n.TagRepo.FindNamesForNotes(ids)
	if err != nil {
		log.Errorf("failed to fetch tag names: %v", err)
		return nil, apierror.InternalServerError
	}

	names := make(map[int64][]string, len(notes))
	for _, row := range rows {
		names[row.NoteID] = append(names[row.NoteID], row.Name)
	}
	return names, nil
}

func toNoteResponse(note *entity.Note, tags []string) *contract.NoteResponse {
	if tags == nil {
		tags = []string{}
	}

	return &contract.NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		Tags:      tags,
		OwnerID:   note.OwnerID,
		Version:   note.Version,
		CreatedAt: utils.FormatEpoch(note.CreatedAt),
		UpdatedAt: utils.FormatEpoch(note.UpdatedAt),
	}
}
