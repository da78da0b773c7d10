package contract

const MaxNoteContentBytes = 1_000_000

type NoteResponse struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	OwnerID   string   `json:"owner_id"`
	Version   int64    `json:"version"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// OwnerNotesResponse groups one owner's notes for the administrative
// system-wide listing.
type OwnerNotesResponse struct {
	UserID   string          `json:"user_id"`
	Username string          `json:"username"`
	Notes    []*NoteResponse `json:"notes"`
}

type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"max=1000000"`
}

// UpdateNoteRequest carries the version the caller last read; a stale value
// turns the write into a 409.
type UpdateNoteRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"max=1000000"`
	Version int64  `json:"version" validate:"required,min=1"`
}
