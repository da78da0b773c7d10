package handler

import (
	"net/http"

	"notebloc/internal/contract"
	"notebloc/internal/domain/entity"
	"notebloc/internal/utils"
	"notebloc/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type TagService interface {
	GetMyTags(actor *entity.User) ([]*contract.TagResponse, apierror.ErrorResponse)
	GetAllTags() ([]*contract.TagResponse, apierror.ErrorResponse)
	GetTag(tagId int64) (*contract.TagResponse, apierror.ErrorResponse)
	GetNotesByTag(actor *entity.User, tagId int64) ([]*contract.NoteResponse, apierror.ErrorResponse)
	CreateTag(req *contract.TagRequest) (*contract.TagResponse, apierror.ErrorResponse)
	UpdateTag(tagId int64, req *contract.TagRequest) apierror.ErrorResponse
	DeleteTag(tagId int64) apierror.ErrorResponse
	AddTagToNote(actor *entity.User, req *contract.NoteTagRequest) apierror.ErrorResponse
	RemoveTagFromNote(actor *entity.User, req *contract.NoteTagRequest) apierror.ErrorResponse
}

type DefaultTagRoute struct {
	TagService TagService
}

func NewTagDefault(tagService TagService) *DefaultTagRoute {
	return &DefaultTagRoute{TagService: tagService}
}

func (t *DefaultTagRoute) GetTags(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	tags, apierr := t.TagService.GetMyTags(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"tags": tags}
	return c.JSON(http.StatusOK, &resp)
}

func (t *DefaultTagRoute) GetAllTags(c echo.Context) error {
	tags, apierr := t.TagService.GetAllTags()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"tags": tags}
	return c.JSON(http.StatusOK, &resp)
}

func (t *DefaultTagRoute) GetTag(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int"))
	}

	tag, apierr := t.TagService.GetTag(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, tag)
}

func (t *DefaultTagRoute) GetNotesByTag(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int"))
	}

	notes, apierr := t.TagService.GetNotesByTag(user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"notes": notes}
	return c.JSON(http.StatusOK, &resp)
}

func (t *DefaultTagRoute) CreateTag(c echo.Context) error {
	var req contract.TagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	tag, apierr := t.TagService.CreateTag(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, tag)
}

func (t *DefaultTagRoute) UpdateTag(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int"))
	}

	var req contract.TagRequest
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	if apierr := t.TagService.UpdateTag(id, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (t *DefaultTagRoute) DeleteTag(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int"))
	}

	if apierr := t.TagService.DeleteTag(id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (t *DefaultTagRoute) AddTagToNote(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.NoteTagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	if apierr := t.TagService.AddTagToNote(user, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (t *DefaultTagRoute) RemoveTagFromNote(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.NoteTagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	if apierr := t.TagService.RemoveTagFromNote(user, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
