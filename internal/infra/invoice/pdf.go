package invoice

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	domorder "example.com/storefront/internal/domain/order"
	domuser "example.com/storefront/internal/domain/user"
)

// Renderer produces A4 PDF invoices for placed orders.
type Renderer struct {
	brandName string
	tagline   string
}

func NewRenderer(brandName, tagline string) *Renderer {
	return &Renderer{brandName: brandName, tagline: tagline}
}

func (r *Renderer) Render(o *domorder.Order, buyer *domuser.User) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(120, 8, r.brandName)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, "INVOICE", "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, r.tagline)
	pdf.Ln(10)

	// Meta block
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(90, 5, fmt.Sprintf("Invoice ID: %d", o.ID))
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 5, "Bill To:", "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(90, 5, "Order Date: "+o.CreatedAt.Format("02 Jan 2006"))
	pdf.CellFormat(0, 5, buyer.Name, "", 1, "R", false, 0, "")
	pdf.Cell(90, 5, "Payment Method: "+methodLabel(o.PaymentMethod))
	pdf.CellFormat(0, 5, buyer.Email, "", 1, "R", false, 0, "")
	pdf.Cell(90, 5, "Payment Status: "+string(o.PaymentStatus))
	pdf.Ln(12)

	// Item table
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Cell(10, 6, "#")
	pdf.Cell(85, 6, "Product")
	pdf.Cell(20, 6, "Qty")
	pdf.Cell(30, 6, "Price")
	pdf.CellFormat(30, 6, "Total", "", 1, "", false, 0, "")
	x := pdf.GetX()
	y := pdf.GetY()
	pdf.Line(x, y, x+180, y)

	pdf.SetFont("Helvetica", "", 9)
	for i, item := range o.Items {
		lineTotal := item.Price * float64(item.Quantity)
		pdf.Cell(10, 6, fmt.Sprintf("%d", i+1))
		pdf.Cell(85, 6, item.Name)
		pdf.Cell(20, 6, fmt.Sprintf("%d", item.Quantity))
		pdf.Cell(30, 6, fmt.Sprintf("Rs. %.2f", item.Price))
		pdf.CellFormat(30, 6, fmt.Sprintf("Rs. %.2f", lineTotal), "", 1, "", false, 0, "")
	}
	x = pdf.GetX()
	y = pdf.GetY()
	pdf.Line(x, y, x+180, y)
	pdf.Ln(4)

	// Total
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(115, 8, "")
	pdf.Cell(35, 8, "Total Amount")
	pdf.CellFormat(30, 8, fmt.Sprintf("Rs. %.2f", o.Total), "", 1, "", false, 0, "")

	if o.PaymentMethod == domorder.PaymentCOD {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.Cell(115, 6, "")
		pdf.Cell(35, 6, "Amount Due")
		pdf.CellFormat(30, 6, fmt.Sprintf("Rs. %.2f", o.Total), "", 1, "", false, 0, "")
	}

	// Footer
	pdf.Ln(16)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(128, 128, 128)
	note := "This is a system-generated invoice and does not require a signature."
	if o.PaymentMethod == domorder.PaymentCOD {
		note = "Note: Payment will be collected at the time of delivery."
	}
	pdf.CellFormat(0, 5, note, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func methodLabel(m domorder.PaymentMethod) string {
	if m == domorder.PaymentCOD {
		return "Cash on Delivery"
	}
	return "Online Payment"
}
