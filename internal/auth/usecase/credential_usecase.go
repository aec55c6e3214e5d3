package usecase

import (
	"context"
	"errors"

	authDomain "github.com/allisson/authcore/internal/auth/domain"
	authService "github.com/allisson/authcore/internal/auth/service"
	userDomain "github.com/allisson/authcore/internal/user/domain"
)

// credentialUseCase implements CredentialUseCase.
type credentialUseCase struct {
	userRepo        UserRepository
	passwordService authService.PasswordService
}

// NewCredentialUseCase creates a new CredentialUseCase.
func NewCredentialUseCase(
	userRepo UserRepository,
	passwordService authService.PasswordService,
) CredentialUseCase {
	return &credentialUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
	}
}

// ValidateLocal checks an e-mail/password pair.
//
// Unknown accounts fail ErrUserNotFound; HTTP callers are expected to collapse
// that into an unauthorized response so the endpoint can't be used to
// enumerate registered e-mails. An account without a local credential (created
// through an external identity provider) is returned as-is when no candidate
// password is supplied, since there is nothing to check; presenting a
// candidate against such an account fails like a wrong password. A wrong
// password fails with a CredentialError carrying the account's id and e-mail
// but never the stored hash or the candidate. Malformed stored hashes are an
// operational fault and surface as ErrMalformedHash instead.
func (c *credentialUseCase) ValidateLocal(
	ctx context.Context,
	email, password string,
) (*userDomain.User, error) {
	user, err := c.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !user.HasLocalCredential() {
		if password == "" {
			return user, nil
		}
		return nil, authDomain.NewCredentialError(user.ID, email)
	}

	if err := c.passwordService.Verify(*user.Password, password); err != nil {
		if errors.Is(err, authDomain.ErrInvalidCredentials) {
			return nil, authDomain.NewCredentialError(user.ID, email)
		}
		return nil, err
	}

	return user, nil
}
