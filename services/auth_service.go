//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	stderrors "errors"
	"fmt"
	"time"

	"stunner/auth"
	"stunner/domain"
	"stunner/errors"
	"stunner/repositories"
)

type IAuthService interface {
	Login(username, password string) (Token, error)
	Register(username, password, email, fullName string) (Token, error)
	Profile(username string) (domain.User, error)
	UpdateProfile(username, fullName, email, password string) error
}

type AuthService struct {
	userRepository repositories.IUserRepository
	tokenDuration  time.Duration
}

type Token string

func NewAuthService(repo repositories.IUserRepository, tokenDuration time.Duration) IAuthService {
	return &AuthService{userRepository: repo, tokenDuration: tokenDuration}
}

func (s *AuthService) Register(username, password, email, fullName string) (Token, error) {
	valReq := auth.RegisterRequest{
		Username: username,
		Password: password,
		Email:    email,
		FullName: fullName,
	}

	// 1. Validate business rules before any expensive cryptographic operation.
	if err := auth.ValidateRegister(valReq); err != nil {
		return "", err
	}

	// 2. Hash the password using Argon2id.
	// Done in the service layer to keep the repository unaware of plain passwords.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	// 3. Persist the user with the generated hash.
	userID, err := s.userRepository.CreateUser(username, hashedPassword, email, fullName)
	if err != nil {
		return "", err // Will propagate ErrUserAlreadyExists if username is taken
	}

	// 4. Generate the initial session token.
	token, err := auth.GenerateToken(userID, username, s.tokenDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}

	return Token(token), nil
}

// Login checks the credentials and issues a bearer token. Unknown username
// and bad password are reported as distinct errors; the HTTP layer maps
// both to 401.
func (s *AuthService) Login(username, password string) (Token, error) {
	user, err := s.userRepository.GetUserByUsername(username)
	if stderrors.Is(err, errors.ErrUserNotFound) {
		return "", errors.ErrIncorrectUsername
	}
	if err != nil {
		return "", err
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrIncorrectPassword
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.tokenDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}

	return Token(token), nil
}

func (s *AuthService) Profile(username string) (domain.User, error) {
	user, err := s.userRepository.GetUserByUsername(username)
	if err != nil {
		return domain.User{}, err
	}
	return fromDiskUser(user), nil
}

func fromDiskUser(u repositories.User) domain.User {
	return domain.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Email:        u.Email,
		FullName:     u.FullName,
	}
}

// UpdateProfile replaces fullName and email; the password is re-hashed and
// replaced only when a new one is supplied.
func (s *AuthService) UpdateProfile(username, fullName, email, password string) error {
	valReq := auth.UpdateProfileRequest{FullName: fullName, Email: email, Password: password}
	if err := auth.ValidateUpdateProfile(valReq); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRegistration, err)
	}

	user, err := s.userRepository.GetUserByUsername(username)
	if err != nil {
		return err
	}

	user.FullName = fullName
	user.Email = email

	if password != "" {
		hashedPassword, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hashing failed: %w", err)
		}
		user.PasswordHash = hashedPassword
	}

	return s.userRepository.UpdateUser(user)
}
