package policy

import (
	"notebloc/internal/domain/entity"
	"notebloc/internal/utils/apierror"
)

// Capability is the resolved set of operations a user may perform on a
// note at request time. Higher values strictly include lower ones.
type Capability int

const (
	CapabilityNone Capability = iota
	CapabilityViewer
	CapabilityEditor
	CapabilityOwner
	CapabilityAdmin
)

// NotePolicy encapsulates all business rules for note access.
// It is a pure function of its inputs: callers fetch the note and the
// actor's share (if any) and the policy decides, so capability is
// re-resolved on every request and never cached.
//
// Capability misses return apierror.NotFoundError rather than a 403,
// so callers cannot confirm the existence of notes they cannot see.
type NotePolicy struct{}

func NewNotePolicy() *NotePolicy {
	return &NotePolicy{}
}

// Resolve computes the actor's capability over the note. 'share' is the
// NoteShare naming the actor as recipient, or nil when none exists.
// First match wins: admin, owner, shared-editor, shared-viewer, none.
func (p *NotePolicy) Resolve(actor *entity.User, note *entity.Note, share *entity.NoteShare) Capability {
	if note == nil || note.IsDeleted {
		return CapabilityNone
	}

	if actor.Roles.IsAdmin() {
		return CapabilityAdmin
	}

	if note.OwnerID == actor.ID {
		return CapabilityOwner
	}

	if share != nil && share.NoteID == note.ID && share.RecipientID == actor.ID {
		if share.CanEdit {
			return CapabilityEditor
		}
		return CapabilityViewer
	}
	return CapabilityNone
}

func (p *NotePolicy) CanSee(actor *entity.User, note *entity.Note, share *entity.NoteShare) apierror.ErrorResponse {
	if p.Resolve(actor, note, share) == CapabilityNone {
		return apierror.NotFoundError // ^^
	}
	return nil
}

// CanEditContent gates title/content mutation: owner, admin, or a share
// with the edit flag. Read-only recipients fall through to NotFound.
func (p *NotePolicy) CanEditContent(actor *entity.User, note *entity.Note, share *entity.NoteShare) apierror.ErrorResponse {
	if p.Resolve(actor, note, share) < CapabilityEditor {
		return apierror.NotFoundError
	}
	return nil
}

// CanDelete gates soft deletion: owner or admin only. Editing collaborators
// cannot delete.
func (p *NotePolicy) CanDelete(actor *entity.User, note *entity.Note, share *entity.NoteShare) apierror.ErrorResponse {
	if p.Resolve(actor, note, share) < CapabilityOwner {
		return apierror.NotFoundError
	}
	return nil
}

// CanShare gates share creation and permission updates: only the note's
// owner may grant or change access. Editing collaborators cannot re-share.
func (p *NotePolicy) CanShare(actor *entity.User, note *entity.Note) apierror.ErrorResponse {
	if note == nil || note.IsDeleted || note.OwnerID != actor.ID {
		return apierror.NotFoundError
	}
	return nil
}
