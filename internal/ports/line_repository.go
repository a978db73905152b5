package ports

import (
	"context"

	"github.com/bnema/fido-usage-cli/internal/domain"
)

type LineRepository interface {
	GetByNumber(ctx context.Context, number domain.PhoneNumber) (domain.Line, error)
	List(ctx context.Context) ([]domain.Line, error)
	Save(ctx context.Context, line domain.Line) error
	Delete(ctx context.Context, number domain.PhoneNumber) error
}
