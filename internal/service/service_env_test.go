package service

import (
	"sync"
	"testing"

	"notebloc/internal/domain/entity"
	"notebloc/internal/domain/policy"
	"notebloc/internal/domain/sqlite"
	"notebloc/internal/domain/sqlite/repository"
	"notebloc/internal/utils"
	"notebloc/internal/utils/token"
	"notebloc/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testEnv wires the full service stack against a throwaway in-memory
// database, so tests exercise the real repositories and SQL.
type testEnv struct {
	db     *gorm.DB
	users  *repository.DefaultUserRepository
	notes  *repository.DefaultNoteRepository
	shares *repository.DefaultShareRepository
	tags   *repository.DefaultTagRepository

	userService  *UserService
	noteService  *DefaultNoteService
	shareService *ShareService
	tagService   *TagService
	authService  *AuthService

	sender *captureSender
	mailer *Mailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.InitMemory()
	require.NoError(t, err)

	validate := validator.New()
	require.NoError(t, validate.RegisterValidation("hasupper", validators.HasUpper))
	require.NoError(t, validate.RegisterValidation("haslower", validators.HasLower))
	require.NoError(t, validate.RegisterValidation("hasdigit", validators.HasDigit))
	require.NoError(t, validate.RegisterValidation("hasspecial", validators.HasSpecial))
	require.NoError(t, validate.RegisterValidation("nodupes", validators.NoDupes))
	require.NoError(t, validate.RegisterValidation("nospaces", validators.NoWhiteSpaces))

	tokens, err := token.NewIssuer("test-secret")
	require.NoError(t, err)

	sender := &captureSender{}
	mailer := NewMailer(sender)

	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	shareRepo := repository.NewShareRepository(db)
	tagRepo := repository.NewTagRepository(db)
	notePolicy := policy.NewNotePolicy()

	return &testEnv{
		db:     db,
		users:  userRepo,
		notes:  noteRepo,
		shares: shareRepo,
		tags:   tagRepo,

		userService:  NewUserService(userRepo, validate),
		noteService:  NewNoteService(noteRepo, tagRepo, notePolicy, validate),
		shareService: NewShareService(shareRepo, noteRepo, userRepo, notePolicy, validate),
		tagService:   NewTagService(tagRepo, noteRepo, notePolicy, validate),
		authService:  NewAuthService(userRepo, validate, tokens, mailer),

		sender: sender,
		mailer: mailer,
	}
}

func seedUser(t *testing.T, env *testEnv, username string, roles entity.Role) *entity.User {
	t.Helper()

	now := utils.NowUTC()
	user := &entity.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, env.users.Save(user))
	return user
}

func seedNote(t *testing.T, env *testEnv, owner *entity.User, title string, updatedAt int64) *entity.Note {
	t.Helper()

	note := &entity.Note{
		Title:     title,
		Content:   "content of " + title,
		OwnerID:   owner.ID,
		Version:   1,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
	require.NoError(t, env.notes.Save(note))
	return note
}

func seedShare(t *testing.T, env *testEnv, note *entity.Note, recipient *entity.User, canEdit bool) *entity.NoteShare {
	t.Helper()

	share := &entity.NoteShare{
		NoteID:      note.ID,
		RecipientID: recipient.ID,
		CanEdit:     canEdit,
		SharedAt:    utils.NowUTC(),
	}
	require.NoError(t, env.shares.Save(share))
	return share
}

// captureSender records outbound mail instead of delivering it.
type captureSender struct {
	mu   sync.Mutex
	sent []string
}

func (c *captureSender) Send(to, subject, html string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, to)
	return nil
}

func (c *captureSender) Sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.sent...)
}
