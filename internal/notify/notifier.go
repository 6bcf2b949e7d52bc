package notify

import (
	"context"

	"gymcore/internal/logger"
	"gymcore/internal/member"
	"gymcore/internal/registration"
)

// RegistrationSource resolves a registration when only its id is known.
type RegistrationSource interface {
	GetByID(ctx context.Context, registrationID int) (*registration.PackageRegistration, error)
}

// LedgerNotifier turns registration lifecycle events into queued member
// notifications. Failures are logged and swallowed: a lost email never fails
// the originating operation.
type LedgerNotifier struct {
	service       *Service
	members       member.Repository
	registrations RegistrationSource
}

func NewLedgerNotifier(service *Service, members member.Repository, registrations RegistrationSource) *LedgerNotifier {
	return &LedgerNotifier{
		service:       service,
		members:       members,
		registrations: registrations,
	}
}

func (n *LedgerNotifier) RegistrationCommitted(ctx context.Context, reg *registration.PackageRegistration, pkgName string) {
	m, err := n.members.FindByID(ctx, reg.MemberID)
	if err != nil {
		logger.Errorf("Notification skipped, member %d lookup failed: %v", reg.MemberID, err)
		return
	}

	if reg.IsUpgrade {
		_ = n.service.SendUpgradeConfirmation(ctx, m.Email, m.Name, pkgName, reg.AmountPaid)
		return
	}
	_ = n.service.SendRegistrationConfirmation(ctx, m.Email, m.Name, pkgName, reg.AmountPaid, reg.EndDate)
}

func (n *LedgerNotifier) RegistrationReactivated(ctx context.Context, reg *registration.PackageRegistration) {
	m, err := n.members.FindByID(ctx, reg.MemberID)
	if err != nil {
		logger.Errorf("Notification skipped, member %d lookup failed: %v", reg.MemberID, err)
		return
	}
	if reg.EndDate == nil {
		return
	}
	_ = n.service.SendReactivation(ctx, m.Email, m.Name, *reg.EndDate)
}

// WorkflowCompleted satisfies the onboarding engine's notifier.
func (n *LedgerNotifier) WorkflowCompleted(ctx context.Context, registrationID int) {
	reg, err := n.registrations.GetByID(ctx, registrationID)
	if err != nil {
		logger.Errorf("Notification skipped, registration %d lookup failed: %v", registrationID, err)
		return
	}

	m, err := n.members.FindByID(ctx, reg.MemberID)
	if err != nil {
		logger.Errorf("Notification skipped, member %d lookup failed: %v", reg.MemberID, err)
		return
	}
	_ = n.service.SendOnboardingComplete(ctx, m.Email, m.Name)
}
