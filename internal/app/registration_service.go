package app

import (
	"context"

	"songbook/internal/domain"
	"songbook/internal/logging"
)

// RegisterInput is the submitted registration form.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
	Confirm  string
}

// RegistrationService creates user accounts.
type RegistrationService struct {
	users  domain.UserRepository
	hasher Hasher
	log    logging.Logger
}

// NewRegistrationService creates a new registration service.
func NewRegistrationService(users domain.UserRepository, hasher Hasher, log logging.Logger) *RegistrationService {
	if log == nil {
		log = logging.Nop()
	}
	return &RegistrationService{users: users, hasher: hasher, log: log.With("service", "registration")}
}

// Validate checks field lengths and that the passwords match.
func (in RegisterInput) Validate() error {
	var v validator
	v.length("name", in.Name, 1, 50)
	v.length("username", in.Username, 4, 25)
	v.length("email", in.Email, 6, 30)
	v.required("password", in.Password)
	if in.Password != in.Confirm {
		v.add("password", "Passwords do not match.")
	}
	return v.err()
}

// Register validates the input, rejects a taken email or username, and
// stores the user with a hashed password. Nothing is stored on failure.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "check email", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	taken, err = s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "check username", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: digest,
	})
	if domain.IsStoreCode(err, domain.StoreUniqueViolation) {
		s.log.Warn(ctx, "registration conflict", "username", in.Username)
		return nil, ErrRegistrationConflict
	}
	if err != nil {
		return nil, storeFailure(ctx, s.log, "create user", err)
	}

	s.log.Info(ctx, "user registered", "username", user.Username, "id", user.ID)
	return user, nil
}
