package contract

type ShareNoteRequest struct {
	NoteID            int64  `json:"note_id" validate:"required,min=1"`
	ShareWithUsername string `json:"share_with_username" validate:"required,min=2,max=80"`
	CanEdit           bool   `json:"can_edit"`
}

type UpdateShareRequest struct {
	CanEdit *bool `json:"can_edit" validate:"required"`
}

type EditSharedNoteRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"max=1000000"`
}

type ShareResponse struct {
	ID                int64  `json:"id"`
	NoteID            int64  `json:"note_id"`
	Title             string `json:"title"`
	RecipientID       string `json:"recipient_id"`
	RecipientUsername string `json:"recipient_username"`
	CanEdit           bool   `json:"can_edit"`
	SharedAt          string `json:"shared_at"`
}

// SharedByMeResponse is one grant the caller made, note metadata included.
type SharedByMeResponse struct {
	ShareID           int64  `json:"share_id"`
	NoteID            int64  `json:"note_id"`
	Title             string `json:"title"`
	UpdatedAt         string `json:"updated_at"`
	RecipientID       string `json:"recipient_id"`
	RecipientUsername string `json:"recipient_username"`
	CanEdit           bool   `json:"can_edit"`
	SharedAt          string `json:"shared_at"`
}

// SharedWithMeResponse is one note somebody shared with the caller.
type SharedWithMeResponse struct {
	ShareID       int64  `json:"share_id"`
	NoteID        int64  `json:"note_id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	UpdatedAt     string `json:"updated_at"`
	OwnerUsername string `json:"owner_username"`
	CanEdit       bool   `json:"can_edit"`
}
