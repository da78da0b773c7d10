package service

import (
	"errors"

	"notebloc/internal/contract"
	"notebloc/internal/domain/entity"
	"notebloc/internal/utils"
	"notebloc/internal/utils/apierror"
	"notebloc/internal/utils/token"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo UserRepository
	Validate *validator.Validate
	Tokens   *token.Issuer
	Mailer   *Mailer
}

func NewAuthService(userRepo UserRepository, validate *validator.Validate, tokens *token.Issuer, mailer *Mailer) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Validate: validate,
		Tokens:   tokens,
		Mailer:   mailer,
	}
}

// Register creates the user, issues a token and queues the welcome email.
// The email is outside the creation transaction: its failure never rolls
// the account back.
func (a *AuthService) Register(req *contract.RegisterRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	taken, err := a.UserRepo.ExistsByUsername(req.Username)
	if err != nil {
		log.Errorf("failed to check username availability: %v", err)
		return nil, apierror.InternalServerError
	}
	if taken {
		return nil, apierror.UsernameTakenError
	}

	taken, err = a.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check email availability: %v", err)
		return nil, apierror.InternalServerError
	}
	if taken {
		return nil, apierror.EmailTakenError
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	user := &entity.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Roles:        entity.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = a.UserRepo.Save(user)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Somebody registered the same name/email between our check and
		// the insert. The unique index is the real arbiter.
		return nil, apierror.UsernameTakenError
	}
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return nil, apierror.InternalServerError
	}

	signed, err := a.Tokens.Generate(user.ID)
	if err != nil {
		log.Errorf("failed to issue token for new user %s: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	a.Mailer.SendWelcome(user.Username, user.Email)
	return &contract.AuthResponse{Token: signed, User: toUserResponse(user)}, nil
}

func (a *AuthService) Login(req *contract.LoginRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := a.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user by email: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.CredentialsMismatchError
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apierror.CredentialsMismatchError
	}

	signed, err := a.Tokens.Generate(user.ID)
	if err != nil {
		log.Errorf("failed to issue token for user %s: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}
	return &contract.AuthResponse{Token: signed, User: toUserResponse(user)}, nil
}
