package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	domorder "example.com/storefront/internal/domain/order"
	dompayment "example.com/storefront/internal/domain/payment"
	domproduct "example.com/storefront/internal/domain/product"
)

var (
	ErrInvalidPayload = errors.New("invalid checkout payload")
	// ErrGatewayUnavailable means the gateway itself could not be
	// reached or answered garbage, so no conclusion about the payment
	// could be drawn.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domproduct.Product, error)
}

type PaymentRepository interface {
	dompayment.Repository
}

type CartRepository interface {
	Clear(ctx context.Context, userID int64) error
}

// Materializer turns a finalized intent into a durable order exactly once.
type Materializer interface {
	Materialize(ctx context.Context, intent *dompayment.Intent, method domorder.PaymentMethod, status domorder.PaymentStatus) (*domorder.Order, error)
}

// Gateway is the outbound side of the payment provider integration.
type Gateway interface {
	// CreatePayment registers the attempt with the provider and
	// returns the URL the buyer must be redirected to.
	CreatePayment(ctx context.Context, req GatewayRequest) (redirectURL string, err error)
	// FetchStatus queries the provider for the attempt's outcome.
	FetchStatus(ctx context.Context, merchantTxnID string) (*GatewayStatus, error)
}

type GatewayRequest struct {
	MerchantTxnID string
	UserID        int64
	AmountPaise   int64
}

type GatewayStatus struct {
	Completed     bool
	TransactionID string
	Code          string
	Message       string
}

// LineInput is a client-submitted checkout line. Only the product id and
// quantity are trusted; name and price are resolved from the catalog.
type LineInput struct {
	ProductID int64
	Quantity  int64
}

type CheckoutInput struct {
	UserID       int64
	AddressID    int64
	TotalAmount  float64
	CheckoutType dompayment.CheckoutType
	Lines        []LineInput
}

type VerifyResult struct {
	Success bool
	Reason  string
}

type Service struct {
	productRepo ProductRepository
	paymentRepo PaymentRepository
	cartRepo    CartRepository
	orders      Materializer
	gateway     Gateway
	log         *slog.Logger
	newTxnID    func() string
}

func NewService(
	productRepo ProductRepository,
	paymentRepo PaymentRepository,
	cartRepo CartRepository,
	orders Materializer,
	gateway Gateway,
	log *slog.Logger,
) *Service {
	return &Service{
		productRepo: productRepo,
		paymentRepo: paymentRepo,
		cartRepo:    cartRepo,
		orders:      orders,
		gateway:     gateway,
		log:         log,
		newTxnID:    uuid.NewString,
	}
}

// InitiateOnline creates a PENDING payment intent with a server-resolved
// line-item snapshot and registers the attempt with the gateway. The intent
// is persisted before the gateway is contacted, so a crash mid-call leaves
// a recoverable PENDING record. If the gateway call itself fails, the
// intent is conditionally failed with code INITIATION_ERROR.
//
// The cart is not touched here; it is cleared when the payment is verified
// successfully.
func (s *Service) InitiateOnline(ctx context.Context, in CheckoutInput) (string, error) {
	if err := validateInput(in); err != nil {
		return "", err
	}

	snapshot, err := s.resolveSnapshot(ctx, in.Lines)
	if err != nil {
		return "", err
	}

	intent := &dompayment.Intent{
		UserID:        in.UserID,
		AddressID:     in.AddressID,
		Items:         snapshot,
		TotalAmount:   in.TotalAmount,
		CheckoutType:  in.CheckoutType,
		MerchantTxnID: s.newTxnID(),
		Status:        dompayment.StatusPending,
	}
	intent, err = s.paymentRepo.Create(ctx, intent)
	if err != nil {
		return "", err
	}

	redirectURL, err := s.gateway.CreatePayment(ctx, GatewayRequest{
		MerchantTxnID: intent.MerchantTxnID,
		UserID:        in.UserID,
		AmountPaise:   toPaise(in.TotalAmount),
	})
	if err != nil {
		s.log.ErrorContext(ctx, "payment initiation failed",
			"merchant_txn_id", intent.MerchantTxnID, "err", err)
		reason := dompayment.FailureReason{Code: "INITIATION_ERROR", Message: err.Error()}
		if ferr := s.paymentRepo.MarkFailed(ctx, intent.MerchantTxnID, reason); ferr != nil && !errors.Is(ferr, dompayment.ErrAlreadyFinalized) {
			s.log.ErrorContext(ctx, "failing intent after initiation error failed",
				"merchant_txn_id", intent.MerchantTxnID, "err", ferr)
		}
		return "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	return redirectURL, nil
}

// Verify reconciles a payment intent with the gateway's view of it. It is
// invoked both by the provider's server-to-server callback and by the
// client's post-redirect poll, possibly concurrently; terminal intents are
// answered without side effects and in-flight transitions are guarded by
// compare-and-set updates.
func (s *Service) Verify(ctx context.Context, merchantTxnID string) (*VerifyResult, error) {
	intent, err := s.paymentRepo.GetByMerchantTxnID(ctx, merchantTxnID)
	if err != nil {
		return nil, err
	}
	if intent.Status.Terminal() {
		return terminalResult(intent), nil
	}

	status, err := s.gateway.FetchStatus(ctx, merchantTxnID)
	if err != nil {
		// No conclusion: leave the intent PENDING for a later verify.
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if status.Completed {
		if _, err := s.orders.Materialize(ctx, intent, domorder.PaymentOnline, domorder.PaymentStatusPaid); err != nil {
			return nil, err
		}
		err := s.paymentRepo.MarkSuccess(ctx, merchantTxnID, status.TransactionID)
		if err != nil && !errors.Is(err, dompayment.ErrAlreadyFinalized) {
			return nil, err
		}
		if intent.CheckoutType == dompayment.CheckoutCart {
			if err := s.cartRepo.Clear(ctx, intent.UserID); err != nil {
				s.log.WarnContext(ctx, "clearing cart after payment failed",
					"user_id", intent.UserID, "err", err)
			}
		}
		return &VerifyResult{Success: true}, nil
	}

	reason := dompayment.FailureReason{
		Code:    status.Code,
		Message: status.Message,
	}
	if reason.Code == "" {
		reason.Code = "UNKNOWN"
	}
	if reason.Message == "" {
		reason.Message = "payment failed at gateway"
	}
	err = s.paymentRepo.MarkFailed(ctx, merchantTxnID, reason)
	if errors.Is(err, dompayment.ErrAlreadyFinalized) {
		// A concurrent verify finished first; report its outcome.
		current, gerr := s.paymentRepo.GetByMerchantTxnID(ctx, merchantTxnID)
		if gerr != nil {
			return nil, gerr
		}
		return terminalResult(current), nil
	}
	if err != nil {
		return nil, err
	}
	return &VerifyResult{Success: false, Reason: reason.Message}, nil
}

// PlaceCOD creates a cash-on-delivery order synchronously: a terminal COD
// intent for audit, then the order itself. Invoice/email trouble downstream
// never fails the placement.
func (s *Service) PlaceCOD(ctx context.Context, in CheckoutInput) (*domorder.Order, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	snapshot, err := s.resolveSnapshot(ctx, in.Lines)
	if err != nil {
		return nil, err
	}

	intent := &dompayment.Intent{
		UserID:        in.UserID,
		AddressID:     in.AddressID,
		Items:         snapshot,
		TotalAmount:   in.TotalAmount,
		CheckoutType:  in.CheckoutType,
		MerchantTxnID: s.newTxnID(),
		Status:        dompayment.StatusCOD,
	}
	intent, err = s.paymentRepo.Create(ctx, intent)
	if err != nil {
		return nil, err
	}

	o, err := s.orders.Materialize(ctx, intent, domorder.PaymentCOD, domorder.PaymentStatusPending)
	if err != nil {
		return nil, err
	}

	if in.CheckoutType == dompayment.CheckoutCart {
		if err := s.cartRepo.Clear(ctx, in.UserID); err != nil {
			s.log.WarnContext(ctx, "clearing cart after COD order failed",
				"user_id", in.UserID, "err", err)
		}
	}
	return o, nil
}

// resolveSnapshot freezes catalog names and prices for the given lines.
// Unknown or inactive products fail the whole checkout.
func (s *Service) resolveSnapshot(ctx context.Context, lines []LineInput) ([]dompayment.LineItem, error) {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domproduct.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	snapshot := make([]dompayment.LineItem, 0, len(lines))
	for _, line := range lines {
		p, ok := byID[line.ProductID]
		if !ok || !p.IsActive {
			return nil, domproduct.ErrProductNotFound
		}
		snapshot = append(snapshot, dompayment.LineItem{
			ProductID: line.ProductID,
			Name:      p.Name,
			Quantity:  line.Quantity,
			Price:     p.EffectivePrice(),
		})
	}
	return snapshot, nil
}

func validateInput(in CheckoutInput) error {
	if in.UserID <= 0 || in.AddressID <= 0 || in.TotalAmount <= 0 || len(in.Lines) == 0 {
		return ErrInvalidPayload
	}
	if !in.CheckoutType.IsValid() {
		return ErrInvalidPayload
	}
	for _, line := range in.Lines {
		if line.ProductID <= 0 || line.Quantity < 1 {
			return ErrInvalidPayload
		}
	}
	return nil
}

func terminalResult(intent *dompayment.Intent) *VerifyResult {
	if intent.Status == dompayment.StatusFailed {
		reason := "payment failed at gateway"
		if intent.Failure != nil && intent.Failure.Message != "" {
			reason = intent.Failure.Message
		}
		return &VerifyResult{Success: false, Reason: reason}
	}
	return &VerifyResult{Success: true}
}

func toPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
