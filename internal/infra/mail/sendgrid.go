package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	domorder "example.com/storefront/internal/domain/order"
	domuser "example.com/storefront/internal/domain/user"
)

// SendGridSender delivers order-confirmation emails through SendGrid.
type SendGridSender struct {
	apiKey    string
	fromName  string
	fromEmail string
}

func NewSendGridSender(apiKey, fromName, fromEmail string) *SendGridSender {
	return &SendGridSender{
		apiKey:    apiKey,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SendGridSender) SendOrderConfirmation(ctx context.Context, buyer *domuser.User, o *domorder.Order, invoiceURL string) error {
	if s.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if buyer.Email == "" {
		return fmt.Errorf("buyer has no email address")
	}

	subject := "Order Confirmed | Invoice - " + s.fromName
	if o.PaymentMethod == domorder.PaymentCOD {
		subject = "Order Placed | Cash on Delivery - " + s.fromName
	}

	html, err := renderOrderEmail(orderEmailData{
		Name:          buyer.Name,
		OrderID:       o.ID,
		Amount:        o.Total,
		InvoiceURL:    invoiceURL,
		PaymentMethod: methodLabel(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		Brand:         s.fromName,
	})
	if err != nil {
		return err
	}

	from := sgmail.NewEmail(s.fromName, s.fromEmail)
	to := sgmail.NewEmail(buyer.Name, buyer.Email)
	message := sgmail.NewSingleEmail(from, subject, to, "", html)

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", resp.StatusCode, resp.Body)
	}
	return nil
}

func methodLabel(m domorder.PaymentMethod) string {
	if m == domorder.PaymentCOD {
		return "Cash on Delivery"
	}
	return "Online Payment"
}

type orderEmailData struct {
	Name          string
	OrderID       int64
	Amount        float64
	InvoiceURL    string
	PaymentMethod string
	PaymentStatus string
	Brand         string
}

var orderEmailTmpl = template.Must(template.New("order-email").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8"/>
  <title>Order Confirmed - {{.Brand}}</title>
</head>
<body style="background-color:#f5f0e5;font-family:'Segoe UI',Tahoma,sans-serif;margin:0;padding:40px 0;color:#333;">
  <div style="max-width:600px;margin:auto;background:#ffffff;padding:40px 30px;border-radius:12px;">
    <div style="font-size:24px;font-weight:700;text-align:center;margin-bottom:20px;">
      {{if eq .PaymentMethod "Cash on Delivery"}}Order Placed{{else}}Order Confirmed{{end}}
    </div>
    <div style="font-size:16px;line-height:1.6;color:#444;">
      <p>Hi <span style="font-weight:600;color:#000;">{{if .Name}}{{.Name}}{{else}}Customer{{end}}</span>,</p>
      <p>Thank you for shopping with {{.Brand}}. Your order has been
      {{if eq .PaymentMethod "Cash on Delivery"}}placed{{else}}confirmed{{end}} successfully.</p>
      <div style="margin-top:25px;padding:20px;background:#f7f9f7;border-left:4px solid #2f6f5e;border-radius:8px;">
        <p><strong>Order ID:</strong> {{.OrderID}}</p>
        <p><strong>Amount:</strong> Rs. {{printf "%.2f" .Amount}}</p>
        <p><strong>Payment Method:</strong> {{.PaymentMethod}}</p>
        <p><strong>Payment Status:</strong> {{.PaymentStatus}}</p>
      </div>
      {{if .InvoiceURL}}
      <a href="{{.InvoiceURL}}" style="display:inline-block;margin-top:30px;color:#000;border:2px solid #000;text-decoration:none;padding:14px 28px;border-radius:8px;font-weight:600;">
        Download Invoice
      </a>
      {{end}}
    </div>
  </div>
</body>
</html>`))

func renderOrderEmail(data orderEmailData) (string, error) {
	var buf bytes.Buffer
	if err := orderEmailTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render order email: %w", err)
	}
	return buf.String(), nil
}
