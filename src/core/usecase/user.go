package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"madjoke/src/core/domain"
	"madjoke/src/core/ports"
)

// UserService handles registration, login and account management.
type UserService struct {
	users  ports.UserRepository
	tokens *TokenService
	log    *slog.Logger
}

func NewUserService(users ports.UserRepository, tokens *TokenService, log *slog.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, log: log}
}

// RegisterInput carries the fields required to create an account.
// Every field must be non-empty.
type RegisterInput struct {
	FirstName string
	LastName  string
	UserName  string
	Email     string
	Password  string
}

// Register validates the input, hashes the password and creates the user.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if in.FirstName == "" || in.LastName == "" || in.UserName == "" || in.Email == "" || in.Password == "" {
		return nil, domain.NewValidationError("", "Fields are missing")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		UserName:     in.UserName,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_name", user.UserName)
	return user, nil
}

// Login checks the credentials and issues a bearer token on success.
// Unknown user names and wrong passwords yield distinct unauthorized errors,
// matching the public API contract.
func (s *UserService) Login(ctx context.Context, userName, password string) (*domain.User, string, error) {
	user, err := s.users.GetUserByUserName(ctx, userName)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, "", domain.NewUnauthorizedError("Incorrect username")
		}
		return nil, "", err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, "", domain.NewUnauthorizedError("Incorrect password")
	}

	token, err := s.tokens.Issue(user.UserName)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Update applies a partial profile update to the given user.
// An update that would change nothing is rejected.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, upd domain.UserUpdate) (*domain.User, error) {
	if upd.Empty() {
		return nil, domain.NewValidationError("userUpdates", "Update failed")
	}
	return s.users.UpdateUser(ctx, id, upd)
}

// ChangePassword verifies the old password and stores a hash of the new one.
// The stored hash is left untouched when the old password does not match.
func (s *UserService) ChangePassword(ctx context.Context, user *domain.User, oldPw, newPw string) error {
	if !CheckPassword(oldPw, user.PasswordHash) {
		return domain.NewUnauthorizedError("Incorrect password")
	}

	hash, err := HashPassword(newPw)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}

// HashPassword generates a bcrypt hash of the given password.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether the cleartext password matches the hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
