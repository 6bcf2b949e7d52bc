package registration

import (
	"context"
	"errors"
	"math"
	"time"

	"gymcore/internal/catalog"
	"gymcore/internal/logger"
	"gymcore/internal/metrics"
)

var (
	ErrAlreadyRegistered  = errors.New("member already registered for this package")
	ErrDowngradeForbidden = errors.New("downgrade to a cheaper package is forbidden")
	ErrNotPaused          = errors.New("registration is not paused")
)

// Notifier is the outcome sink invoked on successful ledger mutations.
type Notifier interface {
	RegistrationCommitted(ctx context.Context, reg *PackageRegistration, pkgName string)
	RegistrationReactivated(ctx context.Context, reg *PackageRegistration)
}

type Service interface {
	FindOccupying(ctx context.Context, memberID int) (*PackageRegistration, error)
	Evaluate(ctx context.Context, memberID int, pkg *catalog.PackageDefinition, startDate time.Time) (*Quote, error)
	Commit(ctx context.Context, memberID int, pkg *catalog.PackageDefinition, startDate time.Time, quote *Quote, initialStatus Status) (*PackageRegistration, error)
	Pause(ctx context.Context, registrationID int, reason string) error
	Reactivate(ctx context.Context, registrationID int) error
	GetByID(ctx context.Context, registrationID int) (*PackageRegistration, error)
	ListByMember(ctx context.Context, memberID int) ([]PackageRegistration, error)
	CompleteOnboarding(ctx context.Context, registrationID, trainerID int) error
}

type service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *service) FindOccupying(ctx context.Context, memberID int) (*PackageRegistration, error) {
	count, err := s.repo.CountOccupying(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if count > 1 {
		// Should be impossible given the commit transaction; the query below
		// still resolves deterministically to the most recent row.
		logger.Errorf("Data integrity: member %d has %d occupying registrations", memberID, count)
	}

	return s.repo.FindOccupying(ctx, memberID)
}

func (s *service) Evaluate(ctx context.Context, memberID int, pkg *catalog.PackageDefinition, startDate time.Time) (*Quote, error) {
	prior, err := s.FindOccupying(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if prior == nil {
		return &Quote{AmountDue: pkg.Price, IsUpgrade: false}, nil
	}

	if prior.PackageID == pkg.ID {
		return nil, ErrAlreadyRegistered
	}

	currentPrice := prior.CurrentPrice()
	if pkg.Price < currentPrice {
		return nil, ErrDowngradeForbidden
	}

	amountDue := ComputeUpgradeCredit(pkg.Price, prior, time.Now())
	return &Quote{AmountDue: amountDue, IsUpgrade: true, Prior: prior}, nil
}

func (s *service) Commit(ctx context.Context, memberID int, pkg *catalog.PackageDefinition, startDate time.Time, quote *Quote, initialStatus Status) (*PackageRegistration, error) {
	if !initialStatus.Occupying() {
		initialStatus = StatusActive
	}

	reg := NewRegistration{
		MemberID:             memberID,
		PackageID:            pkg.ID,
		Status:               initialStatus,
		PaymentStatus:        PaymentPaid,
		StartDate:            startDate,
		EndDate:              pkg.EndDate(startDate),
		AmountPaid:           quote.AmountDue,
		OriginalPackagePrice: pkg.Price,
		IsUpgrade:            quote.IsUpgrade,
	}
	if quote.IsUpgrade {
		reg.UpgradeCredit = quote.AmountDue
		reg.PriorityOrder = quote.Prior.PriorityOrder + 1
	}

	var created *PackageRegistration
	var err error
	if quote.IsUpgrade {
		created, err = s.repo.CommitUpgrade(ctx, reg, quote.Prior.ID, quote.Prior.Status)
	} else {
		created, err = s.repo.Create(ctx, reg)
	}
	if err != nil {
		return nil, err
	}

	kind := "fresh"
	if quote.IsUpgrade {
		kind = "upgrade"
		metrics.RecordUpgradeCredit(quote.AmountDue)
	}
	metrics.RecordRegistration(kind)
	logger.Infof("Registration committed: member=%d package=%d kind=%s amount=%.2f",
		memberID, pkg.ID, kind, quote.AmountDue)

	if s.notifier != nil {
		s.notifier.RegistrationCommitted(ctx, created, pkg.Name)
	}

	return created, nil
}

func (s *service) Pause(ctx context.Context, registrationID int, reason string) error {
	reg, err := s.repo.GetByID(ctx, registrationID)
	if err != nil {
		return err
	}

	if !reg.Status.Occupying() {
		return ErrRegistrationNotFound
	}

	remainingDays := 0
	if reg.EndDate != nil {
		remainingDays = int(math.Ceil(time.Until(*reg.EndDate).Hours() / 24))
		if remainingDays < 0 {
			remainingDays = 0
		}
	}

	if err := s.repo.Pause(ctx, registrationID, reason, remainingDays); err != nil {
		return err
	}

	metrics.RecordPause()
	logger.Infof("Registration %d paused: %s (%d days remaining)", registrationID, reason, remainingDays)
	return nil
}

func (s *service) Reactivate(ctx context.Context, registrationID int) error {
	reg, err := s.repo.GetByID(ctx, registrationID)
	if err != nil {
		return err
	}

	if reg.Status != StatusPaused || reg.RemainingDaysAtPause == nil || *reg.RemainingDaysAtPause <= 0 {
		return ErrNotPaused
	}

	newEndDate := time.Now().AddDate(0, 0, *reg.RemainingDaysAtPause)
	if err := s.repo.Reactivate(ctx, registrationID, newEndDate); err != nil {
		return err
	}

	metrics.RecordReactivation()
	logger.Infof("Registration %d reactivated until %s", registrationID, newEndDate.Format("2006-01-02"))

	if s.notifier != nil {
		reg.Status = StatusActive
		reg.EndDate = &newEndDate
		s.notifier.RegistrationReactivated(ctx, reg)
	}

	return nil
}

func (s *service) GetByID(ctx context.Context, registrationID int) (*PackageRegistration, error) {
	return s.repo.GetByID(ctx, registrationID)
}

func (s *service) ListByMember(ctx context.Context, memberID int) ([]PackageRegistration, error) {
	return s.repo.ListByMember(ctx, memberID)
}

// CompleteOnboarding is invoked by the workflow engine when all onboarding
// steps are done: it records the chosen trainer and activates the registration.
func (s *service) CompleteOnboarding(ctx context.Context, registrationID, trainerID int) error {
	if err := s.repo.SetChosenTrainer(ctx, registrationID, trainerID); err != nil {
		return err
	}

	if err := s.repo.Activate(ctx, registrationID); err != nil {
		// Already active registrations are fine; onboarding completion is
		// idempotent from the ledger's point of view.
		if !errors.Is(err, ErrRegistrationNotFound) {
			return err
		}
	}

	logger.Infof("Registration %d onboarding complete (trainer %d)", registrationID, trainerID)
	return nil
}
