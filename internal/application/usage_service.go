package application

import (
	"context"
	"io"
	"time"

	"github.com/bnema/fido-usage-cli/internal/domain"
	"github.com/bnema/fido-usage-cli/internal/ports"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type CollectOptions struct {
	// Parallel runs the three portal fetches concurrently and waits for all
	// of them before normalizing.
	Parallel bool
}

// Report is everything one run learned about a line.
type Report struct {
	Number        domain.PhoneNumber
	AccountNumber string
	Balance       *float64
	Loyalty       *float64
	Usage         domain.RawUsage
	Metrics       domain.MetricMap
	FetchedAt     time.Time
}

type UsageService struct {
	portal ports.Portal
	clock  ports.Clock
	logger logrus.FieldLogger
}

func NewUsageService(portal ports.Portal, clock ports.Clock, logger logrus.FieldLogger) *UsageService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	return &UsageService{portal: portal, clock: clock, logger: logger}
}

// Collect logs in, fetches balance, loyalty balance and usage, then
// normalizes them. Any failure aborts the run without a partial report.
func (s *UsageService) Collect(ctx context.Context, creds domain.Credentials, opts CollectOptions) (Report, error) {
	if err := creds.Validate(); err != nil {
		return Report{}, err
	}

	session, err := s.portal.Authenticate(ctx, creds)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Number:        creds.PhoneNumber,
		AccountNumber: session.AccountNumber(),
	}

	if opts.Parallel {
		err = s.fetchParallel(ctx, session, &report)
	} else {
		err = s.fetchSequential(ctx, session, &report)
	}
	if err != nil {
		return Report{}, err
	}

	metrics, err := domain.Normalize(report.Usage, report.Balance, report.Loyalty)
	if err != nil {
		return Report{}, err
	}
	report.Metrics = metrics
	report.FetchedAt = s.clock.Now()

	s.logger.WithField("metrics", len(metrics)).Debug("usage normalized")

	return report, nil
}

func (s *UsageService) fetchSequential(ctx context.Context, session ports.PortalSession, report *Report) error {
	balance, err := session.FetchBalance(ctx)
	if err != nil {
		return err
	}

	loyalty, err := session.FetchLoyaltyBalance(ctx)
	if err != nil {
		return err
	}

	usage, err := session.FetchUsage(ctx)
	if err != nil {
		return err
	}

	report.Balance = balance
	report.Loyalty = loyalty
	report.Usage = usage
	return nil
}

func (s *UsageService) fetchParallel(ctx context.Context, session ports.PortalSession, report *Report) error {
	var (
		balance *float64
		loyalty *float64
		usage   domain.RawUsage
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		balance, err = session.FetchBalance(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		loyalty, err = session.FetchLoyaltyBalance(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		usage, err = session.FetchUsage(groupCtx)
		return err
	})

	if err := group.Wait(); err != nil {
		return err
	}

	report.Balance = balance
	report.Loyalty = loyalty
	report.Usage = usage
	return nil
}
