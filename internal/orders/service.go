package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/estoque-erp/estoque-erp/internal/sales"
	"github.com/estoque-erp/estoque-erp/internal/shared"
	"github.com/estoque-erp/estoque-erp/internal/status"
	"github.com/estoque-erp/estoque-erp/internal/stock"
)

// Service coordinates order aggregates. Unlike sales, order create/update/
// delete never move stock; the only stock-bearing edge is the delivered
// transition, which derives a paid sale from the order in the same
// transaction.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// ListPending returns orders not yet delivered or cancelled, soonest
// expected delivery first.
func (s *Service) ListPending(ctx context.Context) ([]Order, error) {
	return s.repo.ListPending(ctx)
}

func (s *Service) buildItems(orderID uuid.UUID, reqs []ItemRequest, at time.Time) []Item {
	items := make([]Item, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, Item{
			ID:          uuid.New(),
			OrderID:     orderID,
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			TotalPrice:  r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity))).Round(2),
			CreatedAt:   at,
		})
	}
	return items
}

func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	orderStatus := status.OrderPending
	if req.Status != "" {
		parsed, err := status.ParseOrderStatus(req.Status)
		if err != nil {
			return nil, err
		}
		orderStatus = parsed
	}
	method, err := parsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	orderDate := req.OrderDate
	if orderDate.IsZero() {
		orderDate = now
	}
	order := &Order{
		ID:                   uuid.New(),
		CustomerID:           req.CustomerID,
		CustomerName:         req.CustomerName,
		Subtotal:             req.Subtotal,
		DiscountPercentage:   req.DiscountPercentage,
		DiscountAmount:       req.DiscountAmount,
		TotalAmount:          req.TotalAmount,
		OrderDate:            orderDate,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Status:               orderStatus,
		PaymentMethod:        method,
		Notes:                req.Notes,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	order.Items = s.buildItems(order.ID, req.Items, now)

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.Insert(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Update replaces the order's header and item set. No availability checks
// run here; a transition to delivered bundled into the update still goes
// through the full delivery derivation.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*Order, error) {
	newStatus, err := status.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}
	method, err := parsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var updated *Order
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		existing, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if !status.CanTransitionOrder(existing.Status, newStatus) {
			return fmt.Errorf("%w: invalid transition %s -> %s", shared.ErrConflict, existing.Status, newStatus)
		}

		now := s.now().UTC()
		items := s.buildItems(id, req.Items, now)
		if err := tx.ReplaceItems(ctx, id, items); err != nil {
			return err
		}

		existing.CustomerID = req.CustomerID
		existing.CustomerName = req.CustomerName
		existing.Subtotal = req.Subtotal
		existing.DiscountPercentage = req.DiscountPercentage
		existing.DiscountAmount = req.DiscountAmount
		existing.TotalAmount = req.TotalAmount
		existing.OrderDate = req.OrderDate
		existing.ExpectedDeliveryDate = req.ExpectedDeliveryDate
		if method != nil {
			existing.PaymentMethod = method
		}
		existing.Notes = req.Notes
		existing.UpdatedAt = now
		existing.Items = items

		delivering := newStatus == status.OrderDelivered && existing.Status != status.OrderDelivered
		existing.Status = newStatus
		if delivering {
			if err := s.deliver(ctx, tx, existing); err != nil {
				return err
			}
		}
		if err := tx.UpdateHeader(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateStatus moves an order along its state machine. The delivered edge
// stamps the delivery date, records the payment method, derives a paid sale
// mirroring the order's items and deducts product stock for each of them.
// Any failed availability check rolls back the entire transition.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*Order, error) {
	next, err := status.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}
	method, err := parsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var updated *Order
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		order, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if !status.CanTransitionOrder(order.Status, next) {
			return fmt.Errorf("%w: invalid transition %s -> %s", shared.ErrConflict, order.Status, next)
		}

		delivering := next == status.OrderDelivered && order.Status != status.OrderDelivered
		order.Status = next
		order.UpdatedAt = s.now().UTC()
		if method != nil {
			order.PaymentMethod = method
		}
		if delivering {
			if err := s.deliver(ctx, tx, order); err != nil {
				return err
			}
		}
		if err := tx.UpdateHeader(ctx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// deliver applies the delivered side effects to an order already validated
// for the transition: delivery date, payment method default, derived sale,
// stock decrements. Runs inside the caller's transaction.
func (s *Service) deliver(ctx context.Context, tx TxRepository, order *Order) error {
	now := s.now().UTC()
	if order.DeliveredDate == nil {
		order.DeliveredDate = &now
	}
	if order.PaymentMethod == nil {
		pix := status.PaymentPix
		order.PaymentMethod = &pix
	}

	ledger := stock.NewLedger(tx)
	for _, item := range order.Items {
		if err := ledger.Deduct(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}

	notes := fmt.Sprintf("Automatic sale from order #%s", order.ID)
	sale := &sales.Sale{
		ID:                 uuid.New(),
		CustomerID:         order.CustomerID,
		CustomerName:       order.CustomerName,
		Subtotal:           order.Subtotal,
		DiscountPercentage: order.DiscountPercentage,
		DiscountAmount:     order.DiscountAmount,
		TotalAmount:        order.TotalAmount,
		SaleDate:           now,
		Status:             status.SalePaid,
		PaymentMethod:      order.PaymentMethod,
		Notes:              &notes,
		FromOrder:          true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for _, item := range order.Items {
		sale.Items = append(sale.Items, sales.Item{
			ID:          uuid.New(),
			SaleID:      sale.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
			CreatedAt:   now,
		})
	}
	return tx.InsertSale(ctx, sale)
}

// Delete removes an order. No stock is restored: none was taken before
// delivery, and delivered orders keep their derived sale.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.Delete(ctx, id)
	})
}

func parsePaymentMethod(token *string) (*status.PaymentMethod, error) {
	if token == nil || *token == "" {
		return nil, nil
	}
	method, err := status.ParsePaymentMethod(*token)
	if err != nil {
		return nil, err
	}
	return &method, nil
}
