package services

import (
	"errors"
	"log"
	"strings"

	"github.com/h4ks-com/palay/internal/models"
	"github.com/h4ks-com/palay/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = newError(KindValidation, "username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const minPasswordLength = 8

type RegisterInput struct {
	Username string
	Password string
	Name     string
	Email    string
	Phone    string
	Role     models.Role
}

type AccountService struct {
	userRepo *repository.UserRepository
}

func NewAccountService(userRepo *repository.UserRepository) *AccountService {
	return &AccountService{userRepo: userRepo}
}

func (s *AccountService) Register(input RegisterInput) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" {
		return nil, newError(KindValidation, "username is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, newError(KindValidation, "password must be at least 8 characters")
	}

	role := input.Role
	if role == "" {
		role = models.RoleBuyer
	}
	if !role.Valid() {
		return nil, newError(KindValidation, "role must be farmer or buyer")
	}

	existing, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	log.Printf("[AccountService] Registered %s as %s", user.Username, user.Role)
	return user, nil
}

func (s *AccountService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindOrCreate returns the user with the given username, creating a buyer
// account without a password when none exists. OIDC logins and test mode
// identify users this way.
func (s *AccountService) FindOrCreate(username, name, email string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &models.User{
		Username: username,
		Name:     name,
		Email:    email,
		Role:     models.RoleBuyer,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	log.Printf("[AccountService] Created user %s on first login", username)
	return user, nil
}

func (s *AccountService) GetUser(userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// SetRole lets a user switch between buying and selling.
func (s *AccountService) SetRole(userID uint, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, newError(KindValidation, "role must be farmer or buyer")
	}
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AccountService) ListFarmers() ([]models.User, error) {
	return s.userRepo.FindByRole(models.RoleFarmer)
}
