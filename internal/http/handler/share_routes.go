package handler

import (
	"net/http"

	"notebloc/internal/contract"
	"notebloc/internal/domain/entity"
	"notebloc/internal/utils"
	"notebloc/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type ShareService interface {
	CreateShare(actor *entity.User, req *contract.ShareNoteRequest) (*contract.ShareResponse, apierror.ErrorResponse)
	GetShareDetails(actor *entity.User, shareId int64) (*contract.ShareResponse, apierror.ErrorResponse)
	ListSharedByMe(actor *entity.User) ([]*contract.SharedByMeResponse, apierror.ErrorResponse)
	ListSharedWithMe(actor *entity.User) ([]*contract.SharedWithMeResponse, apierror.ErrorResponse)
	UpdatePermission(actor *entity.User, shareId int64, req *contract.UpdateShareRequest) apierror.ErrorResponse
	RevokeShare(actor *entity.User, shareId int64) apierror.ErrorResponse
	RemoveMyAccess(actor *entity.User, noteId int64) apierror.ErrorResponse
	EditSharedNoteContent(actor *entity.User, noteId int64, req *contract.EditSharedNoteRequest) apierror.ErrorResponse
}

type DefaultShareRoute struct {
	ShareService ShareService
}

func NewShareDefault(shareService ShareService) *DefaultShareRoute {
	return &DefaultShareRoute{ShareService: shareService}
}

func (s *DefaultShareRoute) CreateShare(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.ShareNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	share, apierr := s.ShareService.CreateShare(user, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, share)
}

func (s *DefaultShareRoute) GetShareDetails(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int"))
	}

	share, apierr := s.ShareService.GetShareDetails(user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, share)
}

func (s *DefaultShareRoute) GetSharedByMe(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	shares, apierr := s.ShareService.ListSharedByMe(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"shares": shares}
	return c.JSON(http.StatusOK, &resp)
}

func (s *DefaultShareRoute) GetSharedWithMe(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	shares, apierr := s.ShareService.ListSharedWithMe(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"shares": shares}
	return c.JSON(http.StatusOK, &resp)
}

func (s *DefaultShareRoute) UpdateShare(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int"))
	}

	var req contract.UpdateShareRequest
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	if apierr := s.ShareService.UpdatePermission(user, id, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *DefaultShareRoute) DeleteShare(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int"))
	}

	if apierr := s.ShareService.RevokeShare(user, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *DefaultShareRoute) RemoveMyAccess(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	noteId, err := parseID(c, "noteId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("noteId", "int"))
	}

	if apierr := s.ShareService.RemoveMyAccess(user, noteId); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *DefaultShareRoute) EditSharedNote(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	noteId, err := parseID(c, "noteId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("noteId", "int"))
	}

	var req contract.EditSharedNoteRequest
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	if apierr := s.ShareService.EditSharedNoteContent(user, noteId, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
