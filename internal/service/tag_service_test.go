package service

import (
	"testing"

	"notebloc/internal/contract"
	"notebloc/internal/domain/entity"
	"notebloc/internal/utils"
	"notebloc/internal/utils/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTagDuplicateName(t *testing.T) {
	env := newTestEnv(t)

	created, apierr := env.tagService.CreateTag(&contract.TagRequest{Name: "work"})
	require.Nil(t, apierr)
	assert.Equal(t, "work", created.Name)

	_, apierr = env.tagService.CreateTag(&contract.TagRequest{Name: "work"})
	assert.Equal(t, apierror.DuplicateTagNameError, apierr)
}

func TestAddTagToNoteTouchesNote(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env, "alice", entity.RoleUser)
	before := utils.NowUTC() - 60_000
	note := seedNote(t, env, owner, "groceries", before)

	tag, apierr := env.tagService.CreateTag(&contract.TagRequest{Name: "errands"})
	require.Nil(t, apierr)

	require.Nil(t, env.tagService.AddTagToNote(owner, &contract.NoteTagRequest{
		NoteID: note.ID,
		TagID:  tag.ID,
	}))

	fresh, err := env.notes.FindLiveByID(note.ID)
	require.NoError(t, err)
	assert.Greater(t, fresh.UpdatedAt, before)

	fetched, apierr := env.noteService.GetNote(owner, note.ID)
	require.Nil(t, apierr)
	assert.Equal(t, []string{"errands"}, fetched.Tags)
}

func TestAddTagToNoteDuplicatePair(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env, "alice", entity.RoleUser)
	note := seedNote(t, env, owner, "groceries", utils.NowUTC())
	tag, apierr := env.tagService.CreateTag(&contract.TagRequest{Name: "errands"})
	require.Nil(t, apierr)

	req := &contract.NoteTagRequest{NoteID: note.ID, TagID: tag.ID}
	require.Nil(t, env.tagService.AddTagToNote(owner, req))

	apierr = env.tagService.AddTagToNote(owner, req)
	assert.Equal(t, apierror.TagAlreadyOnNoteError, apierr)
}

// Tagging requires ownership; a foreign note masks as missing.
func TestAddTagToNoteNonOwnerMasks(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env, "alice", entity.RoleUser)
	bob := seedUser(t, env, "bob", entity.RoleUser)
	note := seedNote(t, env, owner, "groceries", utils.NowUTC())
	seedShare(t, env, note, bob, true)

	tag, apierr := env.tagService.CreateTag(&contract.TagRequest{Name: "errands"})
	require.Nil(t, apierr)

	apierr = env.tagService.AddTagToNote(bob, &contract.NoteTagRequest{NoteID: note.ID, TagID: tag.ID})
	assert.Equal(t, apierror.NotFoundError, apierr)
}

func TestRemoveTagFromNote(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env, "alice", entity.RoleUser)
	before := utils.NowUTC() - 60_000
	note := seedNote(t, env, owner, "groceries", before)
	tag, apierr := env.tagService.CreateTag(&contract.TagRequest{Name: "errands"})
	require.Nil(t, apierr)

	req := &contract.NoteTagRequest{NoteID: note.ID, TagID: tag.ID}
	require.Nil(t, env.tagService.AddTagToNote(owner, req))
	require.Nil(t, env.tagService.RemoveTagFromNote(owner, req))

	apierr = env.tagService.RemoveTagFromNote(owner, req)
	assert.Equal(t, apierror.TagNotOnNoteError, apierr)

	fetched, apierr := env.noteService.GetNote(owner, note.ID)
	require.Nil(t, apierr)
	assert.Empty(t, fetched.Tags)
}

func TestGetMyTagsScopedToOwnLiveNotes(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env, "alice", entity.RoleUser)
	bob := seedUser(t, env, "bob", entity.RoleUser)
	aliceNote := seedNote(t, env, alice, "groceries", utils.NowUTC())
	bobNote := seedNote(t, env, bob, "standup", utils.NowUTC())

	errands, apierr := env.tagService.CreateTag(&contract.TagRequest{Name: "errands"})
	require.Nil(t, apierr)
	work, apierr := env.tagService.CreateTag(&contract.TagRequest{Name: "work"})
	require.Nil(t, apierr)

	require.Nil(t, env.tagService.AddTagToNote(alice, &contract.NoteTagRequest{NoteID: aliceNote.ID, TagID: errands.ID}))
	require.Nil(t, env.tagService.AddTagToNote(bob, &contract.NoteTagRequest{NoteID: bobNote.ID, TagID: work.ID}))

	tags, apierr := env.tagService.GetMyTags(alice)
	require.Nil(t, apierr)
	require.Len(t, tags, 1)
	assert.Equal(t, "errands", tags[0].Name)

	// Soft-deleting the note drops the tag from the listing.
	require.Nil(t, env.noteService.DeleteNote(alice, aliceNote.ID))
	tags, apierr = env.tagService.GetMyTags(alice)
	require.Nil(t, apierr)
	assert.Empty(t, tags)
}

func TestDeleteTagCascades(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env, "alice", entity.RoleUser)
	note := seedNote(t, env, owner, "groceries", utils.NowUTC())
	tag, apierr := env.tagService.CreateTag(&contract.TagRequest{Name: "errands"})
	require.Nil(t, apierr)
	require.Nil(t, env.tagService.AddTagToNote(owner, &contract.NoteTagRequest{NoteID: note.ID, TagID: tag.ID}))

	require.Nil(t, env.tagService.DeleteTag(tag.ID))

	_, apierr = env.tagService.GetTag(tag.ID)
	assert.Equal(t, apierror.NotFoundError, apierr)

	fetched, apierr := env.noteService.GetNote(owner, note.ID)
	require.Nil(t, apierr)
	assert.Empty(t, fetched.Tags)
}

func TestGetNotesByTag(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env, "alice", entity.RoleUser)
	now := utils.NowUTC()
	older := seedNote(t, env, owner, "older", now-120_000)
	newer := seedNote(t, env, owner, "newer", now)
	seedNote(t, env, owner, "untagged", now)

	tag, apierr := env.tagService.CreateTag(&contract.TagRequest{Name: "errands"})
	require.Nil(t, apierr)

	// Attach through the repository so the seeded timestamps stay put.
	require.NoError(t, env.tags.SaveNoteTag(&entity.NoteTag{NoteID: older.ID, TagID: tag.ID}))
	require.NoError(t, env.tags.SaveNoteTag(&entity.NoteTag{NoteID: newer.ID, TagID: tag.ID}))

	notes, apierr := env.tagService.GetNotesByTag(owner, tag.ID)
	require.Nil(t, apierr)
	require.Len(t, notes, 2)
	assert.Equal(t, "newer", notes[0].Title)

	_, apierr = env.tagService.GetNotesByTag(owner, 9999)
	assert.Equal(t, apierror.NotFoundError, apierr)
}

func TestUpdateTagNameTaken(t *testing.T) {
	env := newTestEnv(t)

	_, apierr := env.tagService.CreateTag(&contract.TagRequest{Name: "work"})
	require.Nil(t, apierr)
	errands, apierr := env.tagService.CreateTag(&contract.TagRequest{Name: "errands"})
	require.Nil(t, apierr)

	apierr = env.tagService.UpdateTag(errands.ID, &contract.TagRequest{Name: "work"})
	assert.Equal(t, apierror.DuplicateTagNameError, apierr)

	// Renaming to itself is not a collision.
	require.Nil(t, env.tagService.UpdateTag(errands.ID, &contract.TagRequest{Name: "errands"}))
}
