package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Domenick1991/cruisebooking/internal/domain"
	"github.com/Domenick1991/cruisebooking/internal/logging"
	"github.com/Domenick1991/cruisebooking/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

var (
	ErrUsernameTaken      = fmt.Errorf("%w: Username already exists", domain.ErrConflict)
	ErrEmailTaken         = fmt.Errorf("%w: Email already exists", domain.ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: Invalid username or password", domain.ErrUnauthorized)
)

type UserUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	CreateAdmin(ctx context.Context, input RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type RegisterInput struct {
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirmPassword"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	PhoneNumber     *string `json:"phoneNumber"`
}

func (in RegisterInput) Validate() error {
	v := domain.NewValidationError("Invalid registration data")
	if len(strings.TrimSpace(in.Username)) < MinUsernameLength {
		v.Add("username", fmt.Sprintf("must be at least %d characters", MinUsernameLength))
	}
	if _, err := mail.ParseAddress(in.Email); err != nil || strings.TrimSpace(in.Email) == "" {
		v.Add("email", "must be a valid email address")
	}
	if len(in.Password) < MinPasswordLength {
		v.Add("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if in.ConfirmPassword != in.Password {
		v.Add("confirmPassword", "Passwords don't match")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		v.Add("firstName", "is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		v.Add("lastName", "is required")
	}
	return v.OrNil()
}

type UserService struct {
	repo repository.UserRepository
	log  logging.Logger
	now  func() time.Time
	cost int
}

func NewUserService(repo repository.UserRepository, log logging.Logger) *UserService {
	if log == nil {
		log = logging.Nop()
	}
	return &UserService{repo: repo, log: log, now: time.Now, cost: bcrypt.DefaultCost}
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	return s.create(ctx, input, false)
}

// CreateAdmin registers a user with administrator rights.
func (s *UserService) CreateAdmin(ctx context.Context, input RegisterInput) (*domain.User, error) {
	return s.create(ctx, input, true)
}

func (s *UserService) create(ctx context.Context, input RegisterInput, admin bool) (*domain.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, input.Username, input.Email); err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password, s.cost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:    strings.TrimSpace(input.Username),
		Email:       strings.TrimSpace(input.Email),
		Password:    hash,
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		PhoneNumber: input.PhoneNumber,
		IsAdmin:     admin,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// lost a race with a concurrent registration
			if err := s.ensureAvailable(ctx, input.Username, input.Email); err != nil {
				return nil, err
			}
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("store user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID, "username", user.Username, "admin", admin)
	return user, nil
}

func (s *UserService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username)); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("lookup username: %w", err)
	}

	if _, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email)); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("lookup email: %w", err)
	}
	return nil
}

func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.Warn(ctx, "failed login attempt", "username", username)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

var _ UserUseCase = (*UserService)(nil)
