// Package service implements the wholesale back office: applications come in
// as pending accounts, an administrator approves them into a tier, and the
// storefront asks for resolved prices.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"sellarte/internal/wholesale"
	id "sellarte/pkg/domain"
	dErrors "sellarte/pkg/domain-errors"
	"sellarte/pkg/platform/audit"
	"sellarte/pkg/sentinel"
)

// Store is what the service needs from persistence.
type Store interface {
	Create(ctx context.Context, account *wholesale.Account) error
	Get(ctx context.Context, accountID id.AccountID) (*wholesale.Account, error)
	GetByEmail(ctx context.Context, email string) (*wholesale.Account, error)
	List(ctx context.Context) ([]*wholesale.Account, error)
	Update(ctx context.Context, account *wholesale.Account) error
}

// Notifier delivers account-status mail. The receive-only mailer satisfies
// this in every non-production configuration.
type Notifier interface {
	AccountApproved(ctx context.Context, email string, tier string) error
	AccountRejected(ctx context.Context, email string) error
}

type Service struct {
	store    Store
	logger   *slog.Logger
	auditor  audit.Publisher
	notifier Notifier
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

func WithNotifier(notifier Notifier) Option {
	return func(s *Service) { s.notifier = notifier }
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("wholesale store is required")
	}
	svc := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Apply registers a pending wholesale application.
func (s *Service) Apply(ctx context.Context, email, company string) (*wholesale.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !govalidator.IsEmail(email) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "correo electrónico inválido")
	}
	if strings.TrimSpace(company) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "el nombre de la empresa es requerido")
	}

	account := &wholesale.Account{
		ID:        id.NewAccountID(),
		Email:     email,
		Company:   strings.TrimSpace(company),
		Status:    wholesale.StatusPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(ctx, account); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeValidation, "ya existe una solicitud con ese correo")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create wholesale application")
	}
	return account, nil
}

// List returns every account, pending first is the store's ordering.
func (s *Service) List(ctx context.Context) ([]*wholesale.Account, error) {
	accounts, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list wholesale accounts")
	}
	return accounts, nil
}

// Approve moves an account into approved state with the given tier.
func (s *Service) Approve(ctx context.Context, accountID id.AccountID, tier wholesale.Tier, actor string) (*wholesale.Account, error) {
	if tier.DiscountPercent() == 0 {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown wholesale tier %q", tier)
	}

	account, err := s.get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.Tier = tier
	account.Status = wholesale.StatusApproved
	if err := s.store.Update(ctx, account); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to approve wholesale account")
	}

	audit.Record(ctx, s.logger, s.auditor, audit.ActionWholesaleApproved, actor, account.ID.String(),
		"email", account.Email, "tier", string(tier))

	if s.notifier != nil {
		if err := s.notifier.AccountApproved(ctx, account.Email, string(tier)); err != nil {
			s.logger.WarnContext(ctx, "approval mail failed", "account_id", account.ID, "error", err)
		}
	}
	return account, nil
}

// Reject marks an application as rejected and clears any tier.
func (s *Service) Reject(ctx context.Context, accountID id.AccountID, actor string) (*wholesale.Account, error) {
	account, err := s.get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.Tier = ""
	account.Status = wholesale.StatusRejected
	if err := s.store.Update(ctx, account); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reject wholesale account")
	}

	audit.Record(ctx, s.logger, s.auditor, audit.ActionWholesaleRejected, actor, account.ID.String(),
		"email", account.Email)

	if s.notifier != nil {
		if err := s.notifier.AccountRejected(ctx, account.Email); err != nil {
			s.logger.WarnContext(ctx, "rejection mail failed", "account_id", account.ID, "error", err)
		}
	}
	return account, nil
}

// SetTier changes the tier of an already-approved account.
func (s *Service) SetTier(ctx context.Context, accountID id.AccountID, tier wholesale.Tier, actor string) (*wholesale.Account, error) {
	if tier.DiscountPercent() == 0 {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown wholesale tier %q", tier)
	}

	account, err := s.get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Status != wholesale.StatusApproved {
		return nil, dErrors.New(dErrors.CodeValidation, "account is not approved")
	}

	account.Tier = tier
	if err := s.store.Update(ctx, account); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to set wholesale tier")
	}

	audit.Record(ctx, s.logger, s.auditor, audit.ActionWholesaleTierSet, actor, account.ID.String(),
		"tier", string(tier))
	return account, nil
}

// PriceFor resolves the unit price an account pays for a retail price. A
// missing account is not an error; it simply pays retail.
func (s *Service) PriceFor(ctx context.Context, email string, retailPrice int64) (wholesale.Pricing, error) {
	if retailPrice < 0 {
		return wholesale.Pricing{}, dErrors.New(dErrors.CodeInvalidInput, "retail price must be non-negative")
	}
	if email == "" {
		return wholesale.Resolve(nil, retailPrice), nil
	}

	account, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, sentinel.ErrNotFound) {
		return wholesale.Resolve(nil, retailPrice), nil
	}
	if err != nil {
		return wholesale.Pricing{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load wholesale account")
	}
	return wholesale.Resolve(account, retailPrice), nil
}

func (s *Service) get(ctx context.Context, accountID id.AccountID) (*wholesale.Account, error) {
	if accountID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "account id is required")
	}
	account, err := s.store.Get(ctx, accountID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "wholesale account not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load wholesale account")
	}
	return account, nil
}
