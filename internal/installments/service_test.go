package installments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estoque-erp/estoque-erp/internal/shared"
	"github.com/estoque-erp/estoque-erp/internal/status"
)

type mockRepository struct {
	payments map[uuid.UUID]*InstallmentPayment
}

func newMockRepository() *mockRepository {
	return &mockRepository{payments: make(map[uuid.UUID]*InstallmentPayment)}
}

func clonePayment(ip *InstallmentPayment) *InstallmentPayment {
	copied := *ip
	copied.PaymentStatus = append([]PaymentStatus(nil), ip.PaymentStatus...)
	return &copied
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	staged := make(map[uuid.UUID]*InstallmentPayment, len(m.payments))
	for id, ip := range m.payments {
		staged[id] = clonePayment(ip)
	}
	tx := &mockTx{payments: staged}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	m.payments = tx.payments
	return nil
}

func (m *mockRepository) Get(ctx context.Context, id uuid.UUID) (*InstallmentPayment, error) {
	ip, ok := m.payments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return clonePayment(ip), nil
}

func (m *mockRepository) List(ctx context.Context) ([]InstallmentPayment, error) {
	var out []InstallmentPayment
	for _, ip := range m.payments {
		out = append(out, *ip)
	}
	return out, nil
}

func (m *mockRepository) ListByCategory(ctx context.Context, category status.InstallmentCategory) ([]InstallmentPayment, error) {
	var out []InstallmentPayment
	for _, ip := range m.payments {
		if ip.Category == category {
			out = append(out, *ip)
		}
	}
	return out, nil
}

func (m *mockRepository) ListPending(ctx context.Context) ([]InstallmentPayment, error) {
	var out []InstallmentPayment
	for _, ip := range m.payments {
		for _, ps := range ip.PaymentStatus {
			if !ps.IsPaid {
				out = append(out, *ip)
				break
			}
		}
	}
	return out, nil
}

type mockTx struct {
	payments map[uuid.UUID]*InstallmentPayment
}

func (t *mockTx) Get(ctx context.Context, id uuid.UUID) (*InstallmentPayment, error) {
	ip, ok := t.payments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return clonePayment(ip), nil
}

func (t *mockTx) Insert(ctx context.Context, ip *InstallmentPayment) error {
	t.payments[ip.ID] = clonePayment(ip)
	return nil
}

func (t *mockTx) UpdateHeader(ctx context.Context, ip *InstallmentPayment) error {
	existing, ok := t.payments[ip.ID]
	if !ok {
		return shared.ErrNotFound
	}
	statuses := existing.PaymentStatus
	copied := *ip
	copied.PaymentStatus = statuses
	t.payments[ip.ID] = &copied
	return nil
}

func (t *mockTx) UpdatePaymentStatus(ctx context.Context, ps *PaymentStatus) error {
	ip, ok := t.payments[ps.InstallmentPaymentID]
	if !ok {
		return shared.ErrNotFound
	}
	for i := range ip.PaymentStatus {
		if ip.PaymentStatus[i].ID == ps.ID {
			ip.PaymentStatus[i] = *ps
			return nil
		}
	}
	return shared.ErrNotFound
}

func (t *mockTx) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := t.payments[id]; !ok {
		return shared.ErrNotFound
	}
	delete(t.payments, id)
	return nil
}

func createRequest(n int) CreateInstallmentRequest {
	return CreateInstallmentRequest{
		Description:       "wax supplier invoice",
		TotalAmount:       decimal.NewFromInt(600),
		Installments:      n,
		InstallmentAmount: decimal.NewFromInt(int64(600 / n)),
		StartDate:         time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		Category:          "production",
	}
}

func TestCreateGeneratesStatusRows(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	ip, err := svc.Create(context.Background(), createRequest(6))
	require.NoError(t, err)

	assert.Equal(t, 1, ip.CurrentInstallment)
	assert.Equal(t, status.InstallmentProduction, ip.Category)
	require.Len(t, ip.PaymentStatus, 6)
	for i, ps := range ip.PaymentStatus {
		assert.Equal(t, i+1, ps.InstallmentNumber)
		assert.False(t, ps.IsPaid)
		assert.Nil(t, ps.PaidDate)
		assert.Equal(t, ip.ID, ps.InstallmentPaymentID)
	}
	assert.Len(t, repo.payments, 1)
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	req := createRequest(3)
	req.Category = "groceries"
	_, err := svc.Create(context.Background(), req)
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
	assert.Empty(t, repo.payments)
}

func TestTogglePaymentPaysAndStampsDate(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ip, err := svc.Create(context.Background(), createRequest(3))
	require.NoError(t, err)

	result, err := svc.TogglePayment(context.Background(), ip.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.InstallmentNumber)
	assert.True(t, result.IsPaid)
	require.NotNil(t, result.PaidDate)

	stored := repo.payments[ip.ID]
	assert.True(t, stored.PaymentStatus[1].IsPaid)
	assert.False(t, stored.PaymentStatus[0].IsPaid)
	assert.False(t, stored.PaymentStatus[2].IsPaid)
}

func TestTogglePaymentUnpaysAndClearsDate(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ip, err := svc.Create(context.Background(), createRequest(3))
	require.NoError(t, err)

	_, err = svc.TogglePayment(context.Background(), ip.ID, 1)
	require.NoError(t, err)

	result, err := svc.TogglePayment(context.Background(), ip.ID, 1)
	require.NoError(t, err)
	assert.False(t, result.IsPaid)
	assert.Nil(t, result.PaidDate)
	assert.Nil(t, repo.payments[ip.ID].PaymentStatus[0].PaidDate)
}

func TestTogglePaymentUnknownNumber(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ip, err := svc.Create(context.Background(), createRequest(3))
	require.NoError(t, err)

	_, err = svc.TogglePayment(context.Background(), ip.ID, 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestUpdateKeepsGeneratedStatuses(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ip, err := svc.Create(context.Background(), createRequest(4))
	require.NoError(t, err)

	_, err = svc.TogglePayment(context.Background(), ip.ID, 1)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), ip.ID, UpdateInstallmentRequest{
		Description:        "wax supplier invoice (renegotiated)",
		TotalAmount:        decimal.NewFromInt(500),
		CurrentInstallment: 2,
		InstallmentAmount:  decimal.NewFromInt(125),
		StartDate:          ip.StartDate,
		Category:           "production",
	})
	require.NoError(t, err)

	assert.Equal(t, "wax supplier invoice (renegotiated)", updated.Description)
	assert.Equal(t, 2, updated.CurrentInstallment)
	assert.Equal(t, 4, updated.Installments, "installment count is frozen at creation")

	stored := repo.payments[ip.ID]
	require.Len(t, stored.PaymentStatus, 4)
	assert.True(t, stored.PaymentStatus[0].IsPaid, "paid flags survive header edits")
}

func TestUpdateZeroCurrentInstallmentIgnored(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ip, err := svc.Create(context.Background(), createRequest(3))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), ip.ID, UpdateInstallmentRequest{
		Description:       ip.Description,
		TotalAmount:       ip.TotalAmount,
		InstallmentAmount: ip.InstallmentAmount,
		StartDate:         ip.StartDate,
		Category:          "production",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.CurrentInstallment)
}

func TestDeleteInstallment(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ip, err := svc.Create(context.Background(), createRequest(2))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), ip.ID))
	assert.Empty(t, repo.payments)

	err = svc.Delete(context.Background(), ip.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
