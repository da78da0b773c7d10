package policy

import (
	"testing"

	"notebloc/internal/domain/entity"
	"notebloc/internal/utils/apierror"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	p := NewNotePolicy()

	owner := &entity.User{ID: "owner-id", Roles: entity.RoleUser}
	admin := &entity.User{ID: "admin-id", Roles: entity.RoleUser.Add(entity.RoleAdministrator)}
	viewer := &entity.User{ID: "viewer-id", Roles: entity.RoleUser}
	editor := &entity.User{ID: "editor-id", Roles: entity.RoleUser}
	stranger := &entity.User{ID: "stranger-id", Roles: entity.RoleUser}

	note := &entity.Note{ID: 7, OwnerID: owner.ID}
	viewGrant := &entity.NoteShare{NoteID: note.ID, RecipientID: viewer.ID, CanEdit: false}
	editGrant := &entity.NoteShare{NoteID: note.ID, RecipientID: editor.ID, CanEdit: true}

	assert.Equal(t, CapabilityAdmin, p.Resolve(admin, note, nil))
	assert.Equal(t, CapabilityOwner, p.Resolve(owner, note, nil))
	assert.Equal(t, CapabilityEditor, p.Resolve(editor, note, editGrant))
	assert.Equal(t, CapabilityViewer, p.Resolve(viewer, note, viewGrant))
	assert.Equal(t, CapabilityNone, p.Resolve(stranger, note, nil))

	// A grant for a different note or recipient carries nothing.
	otherGrant := &entity.NoteShare{NoteID: 99, RecipientID: viewer.ID, CanEdit: true}
	assert.Equal(t, CapabilityNone, p.Resolve(viewer, note, otherGrant))
	assert.Equal(t, CapabilityNone, p.Resolve(stranger, note, editGrant))
}

// Deletion zeroes out every capability, administrators included.
func TestResolveDeletedNote(t *testing.T) {
	p := NewNotePolicy()

	owner := &entity.User{ID: "owner-id", Roles: entity.RoleUser}
	admin := &entity.User{ID: "admin-id", Roles: entity.RoleUser.Add(entity.RoleAdministrator)}
	note := &entity.Note{ID: 7, OwnerID: owner.ID, IsDeleted: true}

	assert.Equal(t, CapabilityNone, p.Resolve(owner, note, nil))
	assert.Equal(t, CapabilityNone, p.Resolve(admin, note, nil))
	assert.Equal(t, CapabilityNone, p.Resolve(owner, nil, nil))
}

func TestCapabilityGates(t *testing.T) {
	p := NewNotePolicy()

	owner := &entity.User{ID: "owner-id", Roles: entity.RoleUser}
	editor := &entity.User{ID: "editor-id", Roles: entity.RoleUser}
	viewer := &entity.User{ID: "viewer-id", Roles: entity.RoleUser}
	note := &entity.Note{ID: 7, OwnerID: owner.ID}
	editGrant := &entity.NoteShare{NoteID: note.ID, RecipientID: editor.ID, CanEdit: true}
	viewGrant := &entity.NoteShare{NoteID: note.ID, RecipientID: viewer.ID, CanEdit: false}

	assert.Nil(t, p.CanSee(viewer, note, viewGrant))
	assert.Nil(t, p.CanEditContent(editor, note, editGrant))
	assert.Equal(t, apierror.NotFoundError, p.CanEditContent(viewer, note, viewGrant))

	// Collaborators never delete or re-share, whatever their edit flag.
	assert.Equal(t, apierror.NotFoundError, p.CanDelete(editor, note, editGrant))
	assert.Nil(t, p.CanDelete(owner, note, nil))
	assert.Equal(t, apierror.NotFoundError, p.CanShare(editor, note))
	assert.Nil(t, p.CanShare(owner, note))
}
