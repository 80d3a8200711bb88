// Package status normalizes loosely formatted enum tokens and owns the
// sale and order state machines.
package status

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/estoque-erp/estoque-erp/internal/shared"
)

// SaleStatus is the closed set of sale states.
type SaleStatus string

const (
	SalePending         SaleStatus = "pending"
	SaleAwaitingPayment SaleStatus = "awaiting_payment"
	SalePaid            SaleStatus = "paid"
	SaleCancelled       SaleStatus = "cancelled"
)

// OrderStatus is the closed set of order states.
type OrderStatus string

const (
	OrderPending          OrderStatus = "pending"
	OrderInProduction     OrderStatus = "in_production"
	OrderReadyForDelivery OrderStatus = "ready_for_delivery"
	OrderDelivered        OrderStatus = "delivered"
	OrderCancelled        OrderStatus = "cancelled"
)

// PaymentMethod is the closed set of accepted payment methods.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentPix    PaymentMethod = "pix"
	PaymentDebit  PaymentMethod = "debit"
	PaymentCredit PaymentMethod = "credit"
)

// ExpenseCategory classifies expense ledger rows.
type ExpenseCategory string

const (
	ExpenseProduction   ExpenseCategory = "production"
	ExpenseInvestment   ExpenseCategory = "investment"
	ExpenseFixedCost    ExpenseCategory = "fixed_cost"
	ExpenseVariableCost ExpenseCategory = "variable_cost"
	ExpenseOther        ExpenseCategory = "other"
)

// InstallmentCategory classifies installment agreements.
type InstallmentCategory string

const (
	InstallmentProduction InstallmentCategory = "production"
	InstallmentInvestment InstallmentCategory = "investment"
	InstallmentEquipment  InstallmentCategory = "equipment"
	InstallmentOther      InstallmentCategory = "other"
)

var folder = cases.Fold()

// normalize strips separators and case-folds so that "in_production",
// "InProduction" and "INPRODUCTION" compare equal.
func normalize(token string) string {
	token = strings.ReplaceAll(token, "_", "")
	token = strings.ReplaceAll(token, "-", "")
	return folder.String(token)
}

func match[T ~string](token string, domain []T) (T, error) {
	want := normalize(token)
	for _, candidate := range domain {
		if normalize(string(candidate)) == want {
			return candidate, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: invalid status %q", shared.ErrInvalidArgument, token)
}

// ParseSaleStatus resolves a token to a SaleStatus.
func ParseSaleStatus(token string) (SaleStatus, error) {
	return match(token, []SaleStatus{SalePending, SaleAwaitingPayment, SalePaid, SaleCancelled})
}

// ParseOrderStatus resolves a token to an OrderStatus.
func ParseOrderStatus(token string) (OrderStatus, error) {
	return match(token, []OrderStatus{OrderPending, OrderInProduction, OrderReadyForDelivery, OrderDelivered, OrderCancelled})
}

// ParsePaymentMethod resolves a token to a PaymentMethod.
func ParsePaymentMethod(token string) (PaymentMethod, error) {
	return match(token, []PaymentMethod{PaymentCash, PaymentPix, PaymentDebit, PaymentCredit})
}

// ParseExpenseCategory resolves a token to an ExpenseCategory.
func ParseExpenseCategory(token string) (ExpenseCategory, error) {
	return match(token, []ExpenseCategory{ExpenseProduction, ExpenseInvestment, ExpenseFixedCost, ExpenseVariableCost, ExpenseOther})
}

// ParseInstallmentCategory resolves a token to an InstallmentCategory.
func ParseInstallmentCategory(token string) (InstallmentCategory, error) {
	return match(token, []InstallmentCategory{InstallmentProduction, InstallmentInvestment, InstallmentEquipment, InstallmentOther})
}

var saleRank = map[SaleStatus]int{
	SalePending:         0,
	SaleAwaitingPayment: 1,
	SalePaid:            2,
}

// CanTransitionSale reports whether a sale may move from one status to
// another: forward along pending -> awaiting_payment -> paid, or to
// cancelled from any non-terminal state. Paid and cancelled are terminal.
func CanTransitionSale(from, to SaleStatus) bool {
	if from == to {
		return true
	}
	if from == SalePaid || from == SaleCancelled {
		return false
	}
	if to == SaleCancelled {
		return true
	}
	return saleRank[to] > saleRank[from]
}

var orderRank = map[OrderStatus]int{
	OrderPending:          0,
	OrderInProduction:     1,
	OrderReadyForDelivery: 2,
	OrderDelivered:        3,
}

// CanTransitionOrder reports whether an order may move from one status to
// another: forward along pending -> in_production -> ready_for_delivery ->
// delivered, or to cancelled from any non-terminal state.
func CanTransitionOrder(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	if from == OrderDelivered || from == OrderCancelled {
		return false
	}
	if to == OrderCancelled {
		return true
	}
	return orderRank[to] > orderRank[from]
}

// EqualFold compares two names case-insensitively using full case folding.
// Category name matching throughout the app goes through here.
func EqualFold(a, b string) bool {
	return folder.String(a) == folder.String(b)
}
