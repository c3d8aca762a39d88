package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"sellarte/internal/platform/logger"
	"sellarte/internal/wholesale"
	"sellarte/internal/wholesale/store"
	dErrors "sellarte/pkg/domain-errors"
	"sellarte/pkg/platform/audit"
)

// ServiceSuite uses real in-memory stores, no mocks.
type ServiceSuite struct {
	suite.Suite
	svc     *Service
	auditor *audit.MemoryPublisher
}

func (s *ServiceSuite) SetupTest() {
	s.auditor = audit.NewMemoryPublisher()
	svc, err := New(store.NewMemory(),
		WithLogger(logger.Silent()),
		WithAuditPublisher(s.auditor),
	)
	require.NoError(s.T(), err)
	s.svc = svc
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) apply(email string) *wholesale.Account {
	account, err := s.svc.Apply(context.Background(), email, "Distribuciones La 14")
	require.NoError(s.T(), err)
	return account
}

func (s *ServiceSuite) TestApply_CreatesPendingAccount() {
	account := s.apply("compras@la14.co")

	assert.Equal(s.T(), wholesale.StatusPending, account.Status)
	assert.Empty(s.T(), string(account.Tier))
}

func (s *ServiceSuite) TestApply_RejectsInvalidEmail() {
	_, err := s.svc.Apply(context.Background(), "no-es-un-correo", "Empresa")
	require.Error(s.T(), err)
	assert.Equal(s.T(), dErrors.CodeInvalidInput, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestApply_DuplicateEmail() {
	s.apply("compras@la14.co")

	_, err := s.svc.Apply(context.Background(), "Compras@LA14.co", "Otra Empresa")
	require.Error(s.T(), err)
	assert.Equal(s.T(), dErrors.CodeValidation, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestApprove_SetsTierAndAudits() {
	account := s.apply("compras@la14.co")

	approved, err := s.svc.Approve(context.Background(), account.ID, wholesale.TierB, "ana@sellarte.co")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), wholesale.StatusApproved, approved.Status)
	assert.Equal(s.T(), wholesale.TierB, approved.Tier)

	events := s.auditor.ByAction(audit.ActionWholesaleApproved)
	require.Len(s.T(), events, 1)
	assert.Equal(s.T(), "ana@sellarte.co", events[0].Actor)
	assert.Equal(s.T(), "B", events[0].Detail["tier"])
}

func (s *ServiceSuite) TestApprove_UnknownTier() {
	account := s.apply("compras@la14.co")

	_, err := s.svc.Approve(context.Background(), account.ID, "Z", "ana@sellarte.co")
	require.Error(s.T(), err)
	assert.Equal(s.T(), dErrors.CodeInvalidInput, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestSetTier_RequiresApprovedAccount() {
	account := s.apply("compras@la14.co")

	_, err := s.svc.SetTier(context.Background(), account.ID, wholesale.TierA, "ana@sellarte.co")
	require.Error(s.T(), err)
	assert.Equal(s.T(), dErrors.CodeValidation, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestPriceFor_ApprovedAccountGetsDiscount() {
	account := s.apply("compras@la14.co")
	_, err := s.svc.Approve(context.Background(), account.ID, wholesale.TierA, "ana@sellarte.co")
	require.NoError(s.T(), err)

	pricing, err := s.svc.PriceFor(context.Background(), "compras@la14.co", 10000)
	require.NoError(s.T(), err)
	assert.True(s.T(), pricing.IsWholesale)
	assert.Equal(s.T(), int64(7000), pricing.FinalPrice)
	assert.Equal(s.T(), int64(30), pricing.DiscountPercentage)
}

func (s *ServiceSuite) TestPriceFor_UnknownEmailPaysRetail() {
	pricing, err := s.svc.PriceFor(context.Background(), "nadie@example.com", 10000)
	require.NoError(s.T(), err)
	assert.False(s.T(), pricing.IsWholesale)
	assert.Equal(s.T(), int64(10000), pricing.FinalPrice)
}

func (s *ServiceSuite) TestPriceFor_PendingAccountPaysRetail() {
	s.apply("compras@la14.co")

	pricing, err := s.svc.PriceFor(context.Background(), "compras@la14.co", 10000)
	require.NoError(s.T(), err)
	assert.False(s.T(), pricing.IsWholesale)
}

func (s *ServiceSuite) TestReject_ClearsTier() {
	account := s.apply("compras@la14.co")
	_, err := s.svc.Approve(context.Background(), account.ID, wholesale.TierC, "ana@sellarte.co")
	require.NoError(s.T(), err)

	rejected, err := s.svc.Reject(context.Background(), account.ID, "ana@sellarte.co")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), wholesale.StatusRejected, rejected.Status)
	assert.Empty(s.T(), string(rejected.Tier))

	pricing, err := s.svc.PriceFor(context.Background(), "compras@la14.co", 10000)
	require.NoError(s.T(), err)
	assert.False(s.T(), pricing.IsWholesale)
}
