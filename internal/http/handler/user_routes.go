package handler

import (
	"net/http"

	"notebloc/internal/contract"
	"notebloc/internal/domain/entity"
	"notebloc/internal/utils"
	"notebloc/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	GetUsers(actor *entity.User) ([]*contract.UserResponse, apierror.ErrorResponse)
	GetUser(actor *entity.User, targetId string) (*contract.UserResponse, apierror.ErrorResponse)
	UpdateUser(actor *entity.User, targetId string, req *contract.UpdateUserRequest) (*contract.UserResponse, apierror.ErrorResponse)
	DeleteUser(actor *entity.User, targetId string) apierror.ErrorResponse
	PromoteUser(actor *entity.User, targetId string) (*contract.UserResponse, apierror.ErrorResponse)
}

type DefaultUserRoute struct {
	UserService UserService
}

func NewUserDefault(userService UserService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService}
}

func (u *DefaultUserRoute) GetUsers(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	users, apierr := u.UserService.GetUsers(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"users": users}
	return c.JSON(http.StatusOK, &resp)
}

func (u *DefaultUserRoute) GetUser(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	target, apierr := u.UserService.GetUser(user, c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, target)
}

func (u *DefaultUserRoute) UpdateUser(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	target, apierr := u.UserService.UpdateUser(user, c.Param("id"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, target)
}

func (u *DefaultUserRoute) DeleteUser(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	if apierr := u.UserService.DeleteUser(user, c.Param("id")); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (u *DefaultUserRoute) PromoteUser(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	target, apierr := u.UserService.PromoteUser(user, c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, target)
}
