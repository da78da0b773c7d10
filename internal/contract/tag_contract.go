package contract

type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type TagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

// NoteTagRequest attaches or detaches one tag on one note.
type NoteTagRequest struct {
	NoteID int64 `json:"note_id" validate:"required,min=1"`
	TagID  int64 `json:"tag_id" validate:"required,min=1"`
}
