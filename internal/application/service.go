package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/fido-usage-cli/internal/domain"
	"github.com/bnema/fido-usage-cli/internal/ports"
)

var ErrPasswordUnavailable = errors.New("no password available")

// Service manages registered lines and the passwords stored for them.
type Service struct {
	repo  ports.LineRepository
	store ports.SecretStore
}

func NewService(repo ports.LineRepository, store ports.SecretStore) *Service {
	return &Service{
		repo:  repo,
		store: store,
	}
}

func (s *Service) AddLine(ctx context.Context, number domain.PhoneNumber, name string) (domain.Line, error) {
	line, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if !errors.Is(err, domain.ErrLineNotFound) {
			return domain.Line{}, fmt.Errorf("get line by number: %w", err)
		}
		line = domain.Line{Number: number}
	}

	if name = strings.TrimSpace(name); name != "" {
		line.Name = name
	}

	if err := s.repo.Save(ctx, line); err != nil {
		return domain.Line{}, fmt.Errorf("save line: %w", err)
	}

	return line, nil
}

func (s *Service) ListLines(ctx context.Context) ([]domain.Line, error) {
	lines, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}

	return lines, nil
}

// LookupLine returns the registered line, or a bare line when the number is
// not registered.
func (s *Service) LookupLine(ctx context.Context, number domain.PhoneNumber) (domain.Line, error) {
	line, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, domain.ErrLineNotFound) {
			return domain.Line{Number: number}, nil
		}
		return domain.Line{}, fmt.Errorf("get line by number: %w", err)
	}

	return line, nil
}

func (s *Service) RemoveLine(ctx context.Context, number domain.PhoneNumber) error {
	line, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return fmt.Errorf("get line by number: %w", err)
	}

	if err := s.repo.Delete(ctx, number); err != nil {
		return fmt.Errorf("delete line: %w", err)
	}

	if line.Auth.SecretRef == "" {
		return nil
	}

	if err := s.store.Delete(ctx, line.Auth.SecretRef); err != nil {
		if restoreErr := s.repo.Save(ctx, line); restoreErr != nil {
			return fmt.Errorf("delete line password and restore line: %w", errors.Join(err, restoreErr))
		}
		return fmt.Errorf("delete line password: %w", err)
	}

	return nil
}

// SetPassword stores the password and points the line at it, registering the
// line when it is not known yet.
func (s *Service) SetPassword(ctx context.Context, number domain.PhoneNumber, password string) error {
	if password == "" {
		return errors.New("password is required")
	}

	line, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if !errors.Is(err, domain.ErrLineNotFound) {
			return fmt.Errorf("get line by number: %w", err)
		}
		line = domain.Line{Number: number}
	}
	originalLine := line

	secretRef := domain.PasswordSecretRef(number)
	if err := s.store.Put(ctx, secretRef, password); err != nil {
		return fmt.Errorf("store line password: %w", err)
	}

	line.Auth = domain.Auth{SecretRef: secretRef}
	if err := s.repo.Save(ctx, line); err != nil {
		if rollbackErr := s.store.Delete(ctx, secretRef); rollbackErr != nil {
			return fmt.Errorf("save line auth and rollback stored password: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("save line auth: %w", err)
	}

	previousRef := originalLine.Auth.SecretRef
	if previousRef == "" || previousRef == secretRef {
		return nil
	}

	if err := s.store.Delete(ctx, previousRef); err != nil {
		var rollbackErr error
		if restoreErr := s.repo.Save(ctx, originalLine); restoreErr != nil {
			rollbackErr = errors.Join(rollbackErr, restoreErr)
		}
		if newSecretDeleteErr := s.store.Delete(ctx, secretRef); newSecretDeleteErr != nil {
			rollbackErr = errors.Join(rollbackErr, newSecretDeleteErr)
		}
		if rollbackErr != nil {
			return fmt.Errorf("delete previous line password and rollback auth update: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("delete previous line password: %w", err)
	}

	return nil
}

func (s *Service) RemovePassword(ctx context.Context, number domain.PhoneNumber) error {
	line, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return fmt.Errorf("get line by number: %w", err)
	}
	originalLine := line

	secretRef := line.Auth.SecretRef
	if secretRef == "" {
		return nil
	}

	line.Auth = domain.Auth{}
	if err := s.repo.Save(ctx, line); err != nil {
		return fmt.Errorf("save line auth: %w", err)
	}

	if err := s.store.Delete(ctx, secretRef); err != nil {
		if restoreErr := s.repo.Save(ctx, originalLine); restoreErr != nil {
			return fmt.Errorf("delete line password and restore auth: %w", errors.Join(err, restoreErr))
		}
		return fmt.Errorf("delete line password: %w", err)
	}

	return nil
}

// ResolveCredentials returns the explicit password when one was given and
// otherwise reads the password stored for the registered line.
func (s *Service) ResolveCredentials(ctx context.Context, number domain.PhoneNumber, explicitPassword string) (domain.Credentials, error) {
	creds := domain.Credentials{PhoneNumber: number, Password: explicitPassword}
	if explicitPassword != "" {
		return creds, nil
	}

	line, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, domain.ErrLineNotFound) {
			return domain.Credentials{}, fmt.Errorf("%w for %s: pass --password or run `fido auth set`", ErrPasswordUnavailable, number)
		}
		return domain.Credentials{}, fmt.Errorf("get line by number: %w", err)
	}
	if line.Auth.SecretRef == "" {
		return domain.Credentials{}, fmt.Errorf("%w for %s: pass --password or run `fido auth set`", ErrPasswordUnavailable, number)
	}

	password, err := s.store.Get(ctx, line.Auth.SecretRef)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return domain.Credentials{}, fmt.Errorf("%w for %s: %w", ErrPasswordUnavailable, number, err)
		}
		return domain.Credentials{}, fmt.Errorf("read line password: %w", err)
	}

	creds.Password = password
	return creds, nil
}
