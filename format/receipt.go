// Package format renders logical messages (receipts, reset notices) into
// provider-ready content: HTML + subject for email, fixed-width plain text for
// the chat gateways. Pure functions, no I/O.
package format

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"vibepos/tools"
)

var (
	ErrNoItems  = errors.New("format: receipt has no items")
	ErrBadTotal = errors.New("format: receipt total must be positive")
)

type Item struct {
	Name  string
	Qty   int
	Price int64 // unit price, whole rupiah
	Total int64 // line total as persisted
}

// Receipt carries the completed-sale data exactly as the transaction was
// persisted. The formatter never recomputes the grand total from items; the
// only derived figure is the displayed subtotal (Total - Tax + Discount), so
// the printed numbers always reconcile with the sale.
type Receipt struct {
	TransactionNumber string
	CustomerName      string
	CustomerEmail     string
	CashierName       string
	StoreName         string
	StoreAddress      string
	StorePhone        string
	CreatedAt         time.Time
	PaymentMethod     string
	Items             []Item
	Discount          int64
	Tax               int64
	Total             int64
}

func (r Receipt) Validate() error {
	if len(r.Items) == 0 {
		return ErrNoItems
	}
	if r.Total <= 0 {
		return ErrBadTotal
	}
	return nil
}

// Subtotal is display-only: derived from the persisted total so the summary
// block always adds up.
func (r Receipt) Subtotal() int64 {
	return r.Total - r.Tax + r.Discount
}

func (r Receipt) cashier() string {
	if r.CashierName != "" {
		return r.CashierName
	}
	return "Admin"
}

// DiscountAmount resolves the discount the way the checkout form captures it:
// either an absolute amount or a percentage of the subtotal.
func DiscountAmount(subtotal int64, value float64, percent bool) int64 {
	if percent {
		return int64(float64(subtotal) * value / 100)
	}
	return int64(value)
}

// ReceiptSubject is shared by both email transports.
func ReceiptSubject(r Receipt) string {
	return fmt.Sprintf("Struk Transaksi %s - %s", r.TransactionNumber, r.StoreName)
}

// ReceiptText renders the chat variant: fixed-column padding instead of
// markup, because the WhatsApp gateways deliver raw text.
func ReceiptText(r Receipt) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}

	rule := strings.Repeat("-", 70)
	var b strings.Builder

	fmt.Fprintf(&b, "%s%s\n\n", strings.Repeat(" ", 20), r.StoreName)
	fmt.Fprintf(&b, "No. Transaksi: %s\n", r.TransactionNumber)
	fmt.Fprintf(&b, "Tanggal: %s, %s\n", r.CreatedAt.Format("02/01/2006"), r.CreatedAt.Format("15:04:05"))
	fmt.Fprintf(&b, "Kasir: %s\n", r.cashier())
	fmt.Fprintf(&b, "Customer: %s\n\n", r.CustomerName)

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%-20s %3s %12s %15s\n", "Item", "Qty", "Harga", "Total")
	for _, it := range r.Items {
		fmt.Fprintf(&b, "%-20s %3d %12s %15s\n",
			it.Name, it.Qty, tools.FormatRupiah(it.Price), tools.FormatRupiah(it.Total))
	}
	b.WriteString(rule + "\n\n")

	fmt.Fprintf(&b, "Subtotal: %15s\n", tools.FormatRupiah(r.Subtotal()))
	if r.Discount > 0 {
		fmt.Fprintf(&b, "Diskon:   %15s\n", "-"+tools.FormatRupiah(r.Discount))
	}
	fmt.Fprintf(&b, "Pajak:    %15s\n", tools.FormatRupiah(r.Tax))
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "TOTAL:    %15s\n\n", tools.FormatRupiah(r.Total))
	fmt.Fprintf(&b, "Pembayaran: %s\n\n", strings.ToUpper(r.PaymentMethod))

	b.WriteString(rule + "\n\n")
	b.WriteString("          Terima kasih telah berbelanja!\n")
	b.WriteString("   Barang yang sudah dibeli tidak dapat dikembalikan\n")
	b.WriteString("          kecuali ada perjanjian khusus\n\n")
	b.WriteString("               Powered by VibePOS\n")

	return b.String(), nil
}

var receiptTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Struk Transaksi - {{.Nr}}</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f0f0f0; padding: 40px 20px;">
  <div style="max-width: 600px; margin: 0 auto; background: #ffffff; padding: 30px; border-radius: 8px;">
    <div style="font-family: 'Courier New', monospace; width: 320px; margin: 0 auto; padding: 20px; border: 2px solid #000; font-size: 11px; line-height: 1.3; color: #000;">
      <div style="text-align: center; border-bottom: 2px solid #000; padding-bottom: 8px; margin-bottom: 12px;">
        <div style="font-size: 16px; font-weight: bold; text-transform: uppercase;">{{.Store}}</div>
        {{if .Address}}<div style="font-size: 10px; color: #333;">{{.Address}}</div>{{end}}
        {{if .Phone}}<div style="font-size: 10px; color: #333;">Telp: {{.Phone}}</div>{{end}}
      </div>
      <table style="width: 100%; font-size: 11px; margin-bottom: 12px;">
        <tr><td><b>No. Transaksi:</b></td><td style="text-align: right;">{{.Nr}}</td></tr>
        <tr><td><b>Tanggal:</b></td><td style="text-align: right;">{{.Date}}</td></tr>
        <tr><td><b>Waktu:</b></td><td style="text-align: right;">{{.Time}}</td></tr>
        <tr><td><b>Kasir:</b></td><td style="text-align: right;">{{.Cashier}}</td></tr>
        <tr><td><b>Customer:</b></td><td style="text-align: right;">{{.Customer}}</td></tr>
      </table>
      <table style="width: 100%; font-size: 10px; border-collapse: collapse; border-top: 2px solid #000; border-bottom: 2px solid #000;">
        <tr style="border-bottom: 1px solid #000;">
          <th style="text-align: left; padding: 2px;">Item</th>
          <th style="text-align: center; padding: 2px;">Qty</th>
          <th style="text-align: right; padding: 2px;">Harga</th>
          <th style="text-align: right; padding: 2px;">Total</th>
        </tr>
        {{range .Items}}<tr style="border-bottom: 1px dotted #ccc;">
          <td style="padding: 2px;">{{.Name}}</td>
          <td style="text-align: center; padding: 2px;">{{.Qty}}</td>
          <td style="text-align: right; padding: 2px;">{{.Price}}</td>
          <td style="text-align: right; padding: 2px;">{{.Total}}</td>
        </tr>{{end}}
      </table>
      <table style="width: 100%; font-size: 12px; margin-top: 10px;">
        <tr><td><b>Subtotal:</b></td><td style="text-align: right;">{{.Subtotal}}</td></tr>
        {{if .Discount}}<tr style="color: #d32f2f;"><td><b>Diskon:</b></td><td style="text-align: right;">-{{.Discount}}</td></tr>{{end}}
        <tr><td><b>Pajak:</b></td><td style="text-align: right;">{{.Tax}}</td></tr>
        <tr style="font-size: 16px; font-weight: bold; border-top: 2px solid #000;">
          <td style="padding-top: 8px;">TOTAL:</td><td style="text-align: right; padding-top: 8px;">{{.Total}}</td>
        </tr>
        <tr><td><b>Pembayaran:</b></td><td style="text-align: right; text-transform: uppercase;">{{.Payment}}</td></tr>
      </table>
      <div style="text-align: center; border-top: 2px dashed #000; margin-top: 15px; padding-top: 10px; font-size: 11px;">
        <div style="font-weight: bold; text-transform: uppercase; color: #2e7d32;">Terima Kasih Atas Kunjungan Anda!</div>
        <div style="font-style: italic; color: #666; margin-top: 8px;">
          Barang yang sudah dibeli tidak dapat dikembalikan<br>kecuali ada perjanjian khusus sebelumnya
        </div>
        {{if .CustomerEmail}}<div style="margin-top: 10px; color: #1976d2;">Email Customer: {{.CustomerEmail}}</div>{{end}}
        <div style="font-weight: bold; color: #4caf50; margin-top: 5px;">Powered by VibePOS</div>
      </div>
    </div>
  </div>
</body>
</html>
`))

type receiptItemView struct {
	Name  string
	Qty   int
	Price string
	Total string
}

// ReceiptHTML renders the email variant of the receipt.
func ReceiptHTML(r Receipt) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}

	items := make([]receiptItemView, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, receiptItemView{
			Name:  it.Name,
			Qty:   it.Qty,
			Price: tools.FormatRupiah(it.Price),
			Total: tools.FormatRupiah(it.Total),
		})
	}

	data := map[string]any{
		"Nr":            r.TransactionNumber,
		"Store":         r.StoreName,
		"Address":       r.StoreAddress,
		"Phone":         r.StorePhone,
		"Date":          r.CreatedAt.Format("02/01/2006"),
		"Time":          r.CreatedAt.Format("15:04:05"),
		"Cashier":       r.cashier(),
		"Customer":      r.CustomerName,
		"CustomerEmail": r.CustomerEmail,
		"Items":         items,
		"Subtotal":      tools.FormatRupiah(r.Subtotal()),
		"Discount":      "",
		"Tax":           tools.FormatRupiah(r.Tax),
		"Total":         tools.FormatRupiah(r.Total),
		"Payment":       r.PaymentMethod,
	}
	if r.Discount > 0 {
		data["Discount"] = tools.FormatRupiah(r.Discount)
	}

	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("format: render receipt: %w", err)
	}
	return buf.String(), nil
}
