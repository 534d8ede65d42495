package order

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	domorder "example.com/storefront/internal/domain/order"
	dompayment "example.com/storefront/internal/domain/payment"
	domproduct "example.com/storefront/internal/domain/product"
	domuser "example.com/storefront/internal/domain/user"
)

type OrderRepository interface {
	domorder.Repository
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domuser.User, error)
}

type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domproduct.Product, error)
}

// InvoiceRenderer produces the invoice document bytes for an order.
type InvoiceRenderer interface {
	Render(o *domorder.Order, buyer *domuser.User) ([]byte, error)
}

// InvoiceStore uploads a rendered invoice and returns where it lives.
type InvoiceStore interface {
	Upload(ctx context.Context, objectName string, pdf []byte) (url, objectID string, err error)
}

// MailSender delivers the order-confirmation email.
type MailSender interface {
	SendOrderConfirmation(ctx context.Context, buyer *domuser.User, o *domorder.Order, invoiceURL string) error
}

type Service struct {
	orderRepo   OrderRepository
	userRepo    UserRepository
	productRepo ProductRepository
	renderer    InvoiceRenderer
	store       InvoiceStore
	mailer      MailSender
	log         *slog.Logger
	now         func() time.Time
}

func NewService(
	orderRepo OrderRepository,
	userRepo UserRepository,
	productRepo ProductRepository,
	renderer InvoiceRenderer,
	store InvoiceStore,
	mailer MailSender,
	log *slog.Logger,
) *Service {
	return &Service{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		renderer:    renderer,
		store:       store,
		mailer:      mailer,
		log:         log,
		now:         time.Now,
	}
}

// Materialize turns a finalized payment intent into a durable order exactly
// once. It is safe to call concurrently for the same intent: an existing
// order is returned unchanged, and the unique key on the payment reference
// catches the check-then-create race.
//
// Invoice rendering, upload, and the confirmation email are best effort:
// any failure is logged and swallowed, leaving EmailSent false so a later
// reconciliation can retry.
func (s *Service) Materialize(ctx context.Context, intent *dompayment.Intent, method domorder.PaymentMethod, status domorder.PaymentStatus) (*domorder.Order, error) {
	existing, err := s.orderRepo.GetByPaymentID(ctx, intent.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domorder.ErrOrderNotFound) {
		return nil, err
	}

	o := &domorder.Order{
		UserID:         intent.UserID,
		AddressID:      intent.AddressID,
		PaymentID:      intent.ID,
		Items:          domorder.FromSnapshot(intent.Items),
		PaymentMethod:  method,
		PaymentStatus:  status,
		DeliveryStatus: domorder.DeliveryPending,
		SubTotal:       intent.TotalAmount,
		Total:          intent.TotalAmount,
	}
	created, err := s.orderRepo.Create(ctx, o)
	if errors.Is(err, domorder.ErrDuplicateOrder) {
		return s.orderRepo.GetByPaymentID(ctx, intent.ID)
	}
	if err != nil {
		return nil, err
	}

	s.notify(ctx, created)
	return created, nil
}

// notify runs the invoice/email side effects. Failures never surface to the
// caller; the order stands regardless.
func (s *Service) notify(ctx context.Context, o *domorder.Order) {
	buyer, err := s.userRepo.GetByID(ctx, o.UserID)
	if err != nil {
		s.log.WarnContext(ctx, "order notification skipped: buyer lookup failed",
			"order_id", o.ID, "user_id", o.UserID, "err", err)
		return
	}
	if buyer.Email == "" {
		s.log.WarnContext(ctx, "order notification skipped: buyer has no email",
			"order_id", o.ID, "user_id", o.UserID)
		return
	}

	pdf, err := s.renderer.Render(o, buyer)
	if err != nil {
		s.log.WarnContext(ctx, "invoice render failed", "order_id", o.ID, "err", err)
		return
	}

	url, objectID, err := s.store.Upload(ctx, invoiceObjectName(o.ID), pdf)
	if err != nil {
		s.log.WarnContext(ctx, "invoice upload failed", "order_id", o.ID, "err", err)
		return
	}

	inv := domorder.Invoice{URL: url, ObjectID: objectID, GeneratedAt: s.now()}
	if err := s.orderRepo.SetInvoice(ctx, o.ID, inv); err != nil {
		s.log.WarnContext(ctx, "storing invoice descriptor failed", "order_id", o.ID, "err", err)
		return
	}
	o.Invoice = &inv

	if err := s.mailer.SendOrderConfirmation(ctx, buyer, o, url); err != nil {
		s.log.WarnContext(ctx, "confirmation email failed", "order_id", o.ID, "err", err)
		return
	}
	if err := s.orderRepo.MarkEmailSent(ctx, o.ID); err != nil {
		s.log.WarnContext(ctx, "marking email sent failed", "order_id", o.ID, "err", err)
		return
	}
	o.EmailSent = true
}

func invoiceObjectName(orderID int64) string {
	return "invoices/order-" + strconv.FormatInt(orderID, 10) + ".pdf"
}

// ListByUser returns the user's orders, newest first, with each line's
// display image resolved from the live catalog.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*domorder.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.resolveImages(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Service) ListAll(ctx context.Context) ([]*domorder.Order, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.resolveImages(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Service) resolveImages(ctx context.Context, orders []*domorder.Order) error {
	idSet := make(map[int64]struct{})
	for _, o := range orders {
		for _, item := range o.Items {
			idSet[item.ProductID] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	images := make(map[int64]string, len(products))
	for _, p := range products {
		images[p.ID] = p.FirstImage()
	}
	for _, o := range orders {
		for i := range o.Items {
			o.Items[i].Image = images[o.Items[i].ProductID]
		}
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// UpdateDeliveryStatus sets the delivery status. Re-applying the current
// value is a no-op that still succeeds.
func (s *Service) UpdateDeliveryStatus(ctx context.Context, id int64, status domorder.DeliveryStatus) (*domorder.Order, error) {
	if !status.IsValid() {
		return nil, domorder.ErrInvalidDeliveryStatus
	}
	return s.orderRepo.UpdateDeliveryStatus(ctx, id, status)
}
