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

func TestGetUsersAdminVsSelf(t *testing.T) {
	env := newTestEnv(t)
	admin := seedUser(t, env, "root", entity.RoleUser.Add(entity.RoleAdministrator))
	alice := seedUser(t, env, "alice", entity.RoleUser)
	seedUser(t, env, "bob", entity.RoleUser)

	all, apierr := env.userService.GetUsers(admin)
	require.Nil(t, apierr)
	assert.Len(t, all, 3)

	own, apierr := env.userService.GetUsers(alice)
	require.Nil(t, apierr)
	require.Len(t, own, 1)
	assert.Equal(t, "alice", own[0].Username)
}

// The user surface is one of the few places answering 403 instead of
// masking as 404.
func TestGetUserForbiddenForStrangers(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env, "alice", entity.RoleUser)
	bob := seedUser(t, env, "bob", entity.RoleUser)

	_, apierr := env.userService.GetUser(alice, bob.ID)
	require.NotNil(t, apierr)
	assert.Equal(t, 403, apierr.Code())

	self, apierr := env.userService.GetUser(alice, alice.ID)
	require.Nil(t, apierr)
	assert.Equal(t, "alice", self.Username)
}

func TestUpdateUserUsernameTaken(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env, "alice", entity.RoleUser)
	seedUser(t, env, "bob", entity.RoleUser)

	taken := "bob"
	_, apierr := env.userService.UpdateUser(alice, alice.ID, &contract.UpdateUserRequest{Username: &taken})
	assert.Equal(t, apierror.UsernameTakenError, apierr)

	fresh := "alicia"
	updated, apierr := env.userService.UpdateUser(alice, alice.ID, &contract.UpdateUserRequest{Username: &fresh})
	require.Nil(t, apierr)
	assert.Equal(t, "alicia", updated.Username)
}

func TestPromoteUser(t *testing.T) {
	env := newTestEnv(t)
	admin := seedUser(t, env, "root", entity.RoleUser.Add(entity.RoleAdministrator))
	alice := seedUser(t, env, "alice", entity.RoleUser)
	bob := seedUser(t, env, "bob", entity.RoleUser)

	_, apierr := env.userService.PromoteUser(alice, bob.ID)
	require.NotNil(t, apierr)
	assert.Equal(t, 403, apierr.Code())

	promoted, apierr := env.userService.PromoteUser(admin, bob.ID)
	require.Nil(t, apierr)
	assert.Contains(t, promoted.Roles, "Admin")

	_, apierr = env.userService.PromoteUser(admin, bob.ID)
	assert.Equal(t, apierror.AlreadyAdminError, apierr)
}

func TestDeleteUserCascades(t *testing.T) {
	env := newTestEnv(t)
	admin := seedUser(t, env, "root", entity.RoleUser.Add(entity.RoleAdministrator))
	alice := seedUser(t, env, "alice", entity.RoleUser)
	bob := seedUser(t, env, "bob", entity.RoleUser)

	now := utils.NowUTC()
	aliceNote := seedNote(t, env, alice, "groceries", now)
	bobNote := seedNote(t, env, bob, "standup", now)

	// Alice has granted a share, received one, and tagged her note.
	seedShare(t, env, aliceNote, bob, true)
	seedShare(t, env, bobNote, alice, false)
	tag := &entity.Tag{Name: "errands"}
	require.NoError(t, env.tags.Save(tag))
	require.NoError(t, env.tags.SaveNoteTag(&entity.NoteTag{NoteID: aliceNote.ID, TagID: tag.ID}))

	apierr := env.userService.DeleteUser(alice, alice.ID)
	require.NotNil(t, apierr)
	assert.Equal(t, 403, apierr.Code())

	require.Nil(t, env.userService.DeleteUser(admin, alice.ID))

	gone, err := env.users.FindByID(alice.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// Her notes are hard-deleted, both share directions are severed.
	note, err := env.notes.FindLiveByID(aliceNote.ID)
	require.NoError(t, err)
	assert.Nil(t, note)

	var shareCount int64
	require.NoError(t, env.db.Model(&entity.NoteShare{}).Count(&shareCount).Error)
	assert.Zero(t, shareCount)

	var pairCount int64
	require.NoError(t, env.db.Model(&entity.NoteTag{}).Count(&pairCount).Error)
	assert.Zero(t, pairCount)

	// Bob and his note are untouched.
	survivor, err := env.notes.FindLiveByID(bobNote.ID)
	require.NoError(t, err)
	require.NotNil(t, survivor)
	assert.Equal(t, "standup", survivor.Title)
}
