package service

import (
	"notebloc/internal/contract"
	"notebloc/internal/domain/entity"
	"notebloc/internal/utils"
	"notebloc/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	FindAll() ([]*entity.User, error)
	FindByID(id string) (*entity.User, error)
	FindByUsername(username string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	Save(user *entity.User) error
	DeleteCascade(user *entity.User) error
}

type UserService struct {
	UserRepo UserRepository
	Validate *validator.Validate
}

func NewUserService(userRepo UserRepository, validate *validator.Validate) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Validate: validate,
	}
}

// GetUsers returns every account for administrators, and only the caller's
// own account otherwise.
func (u *UserService) GetUsers(actor *entity.User) ([]*contract.UserResponse, apierror.ErrorResponse) {
	if !actor.Roles.IsAdmin() {
		return []*contract.UserResponse{toUserResponse(actor)}, nil
	}

	users, err := u.UserRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch users: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.UserResponse, len(users))
	for i, user := range users {
		resp[i] = toUserResponse(user)
	}
	return resp, nil
}

// GetUser is one of the few admin-gated surfaces that answers with an
// explicit 403 instead of masking as 404.
func (u *UserService) GetUser(actor *entity.User, targetId string) (*contract.UserResponse, apierror.ErrorResponse) {
	if !actor.Roles.IsAdmin() && actor.ID != targetId {
		return nil, apierror.NewForbiddenError("Missing access")
	}

	user, apierr := u.fetchByID(targetId)
	if apierr != nil {
		return nil, apierr
	}
	return toUserResponse(user), nil
}

func (u *UserService) UpdateUser(actor *entity.User, targetId string, req *contract.UpdateUserRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if !actor.Roles.IsAdmin() && actor.ID != targetId {
		return nil, apierror.NewForbiddenError("Missing access")
	}

	target, apierr := u.fetchByID(targetId)
	if apierr != nil {
		return nil, apierr
	}

	dirty := false
	if req.Username != nil && *req.Username != target.Username {
		taken, err := u.UserRepo.ExistsByUsername(*req.Username)
		if err != nil {
			log.Errorf("failed to check username availability: %v", err)
			return nil, apierror.InternalServerError
		}
		if taken {
			return nil, apierror.UsernameTakenError
		}
		target.Username = *req.Username
		dirty = true
	}

	if req.Email != nil && *req.Email != target.Email {
		taken, err := u.UserRepo.ExistsByEmail(*req.Email)
		if err != nil {
			log.Errorf("failed to check email availability: %v", err)
			return nil, apierror.InternalServerError
		}
		if taken {
			return nil, apierror.EmailTakenError
		}
		target.Email = *req.Email
		dirty = true
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Errorf("failed to hash password: %v", err)
			return nil, apierror.InternalServerError
		}
		target.PasswordHash = string(hash)
		dirty = true
	}

	if dirty {
		target.UpdatedAt = utils.NowUTC()
		if err := u.UserRepo.Save(target); err != nil {
			log.Errorf("actor %s failed to update user %s: %v", actor.ID, targetId, err)
			return nil, apierror.InternalServerError
		}
	}
	return toUserResponse(target), nil
}

// DeleteUser removes the target account and cascades: shares received,
// shares on owned notes, owned notes, then the user row, all or nothing.
func (u *UserService) DeleteUser(actor *entity.User, targetId string) apierror.ErrorResponse {
	if !actor.Roles.IsAdmin() {
		return apierror.NewForbiddenError("Missing access")
	}

	target, apierr := u.fetchByID(targetId)
	if apierr != nil {
		return apierr
	}

	if err := u.UserRepo.DeleteCascade(target); err != nil {
		log.Errorf("failed to cascade-delete user %s: %v", target.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (u *UserService) PromoteUser(actor *entity.User, targetId string) (*contract.UserResponse, apierror.ErrorResponse) {
	if !actor.Roles.IsAdmin() {
		return nil, apierror.NewForbiddenError("Missing access")
	}

	target, apierr := u.fetchByID(targetId)
	if apierr != nil {
		return nil, apierr
	}

	if target.Roles.IsAdmin() {
		return nil, apierror.AlreadyAdminError
	}

	target.Roles = target.Roles.Add(entity.RoleAdministrator)
	target.UpdatedAt = utils.NowUTC()
	if err := u.UserRepo.Save(target); err != nil {
		log.Errorf("failed to promote user %s: %v", target.ID, err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(target), nil
}

func (u *UserService) fetchByID(id string) (*entity.User, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to find user (%s) by id: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.NotFoundError
	}
	return user, nil
}

func toUserResponse(user *entity.User) *contract.UserResponse {
	return &contract.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Roles:     user.Roles.Names(),
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
		UpdatedAt: utils.FormatEpoch(user.UpdatedAt),
	}
}
