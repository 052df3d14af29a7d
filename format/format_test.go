package format

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReceipt() Receipt {
	return Receipt{
		TransactionNumber: "TRX-2025-0001",
		CustomerName:      "Budi",
		CustomerEmail:     "budi@toko.co.id",
		CashierName:       "Siti",
		StoreName:         "Toko Maju",
		StoreAddress:      "Jl. Sudirman 12",
		StorePhone:        "021-555123",
		CreatedAt:         time.Date(2025, 3, 14, 10, 30, 0, 0, time.Local),
		PaymentMethod:     "cash",
		Items: []Item{
			{Name: "Kopi Susu", Qty: 2, Price: 1000, Total: 2000},
		},
		Discount: 0,
		Tax:      100,
		Total:    2100,
	}
}

func TestSubtotalReconciles(t *testing.T) {
	r := sampleReceipt()
	// items 2000, tax 100, total persisted as 2100
	assert.Equal(t, int64(2000), r.Subtotal())

	r.Discount = 500
	r.Total = 1600
	assert.Equal(t, int64(2000), r.Subtotal())
}

func TestValidate(t *testing.T) {
	r := sampleReceipt()
	require.NoError(t, r.Validate())

	r.Items = nil
	assert.Equal(t, ErrNoItems, r.Validate())

	r = sampleReceipt()
	r.Total = 0
	assert.Equal(t, ErrBadTotal, r.Validate())
}

func TestDiscountAmount(t *testing.T) {
	assert.Equal(t, int64(500), DiscountAmount(2000, 500, false))
	assert.Equal(t, int64(200), DiscountAmount(2000, 10, true))
	assert.Equal(t, int64(0), DiscountAmount(2000, 0, true))
}

func TestReceiptSubject(t *testing.T) {
	assert.Equal(t, "Struk Transaksi TRX-2025-0001 - Toko Maju", ReceiptSubject(sampleReceipt()))
}

func TestReceiptText(t *testing.T) {
	out, err := ReceiptText(sampleReceipt())
	require.NoError(t, err)

	assert.Contains(t, out, "Toko Maju")
	assert.Contains(t, out, "No. Transaksi: TRX-2025-0001")
	assert.Contains(t, out, "Kasir: Siti")
	assert.Contains(t, out, "Kopi Susu")
	assert.Contains(t, out, "Rp 2.100")
	assert.Contains(t, out, "Pembayaran: CASH")
	assert.Contains(t, out, "Terima kasih telah berbelanja!")
	assert.Contains(t, out, "Powered by VibePOS")
	assert.Contains(t, out, strings.Repeat("-", 70))

	// no discount row when discount is zero
	assert.NotContains(t, out, "Diskon")
}

func TestReceiptTextDiscountRow(t *testing.T) {
	r := sampleReceipt()
	r.Discount = 500
	r.Total = 1600

	out, err := ReceiptText(r)
	require.NoError(t, err)
	assert.Contains(t, out, "Diskon")
	assert.Contains(t, out, "-Rp 500")
}

func TestReceiptTextDefaultCashier(t *testing.T) {
	r := sampleReceipt()
	r.CashierName = ""
	out, err := ReceiptText(r)
	require.NoError(t, err)
	assert.Contains(t, out, "Kasir: Admin")
}

func TestReceiptHTML(t *testing.T) {
	out, err := ReceiptHTML(sampleReceipt())
	require.NoError(t, err)

	assert.Contains(t, out, "TRX-2025-0001")
	assert.Contains(t, out, "Toko Maju")
	assert.Contains(t, out, "Rp 2.100")
	assert.Contains(t, out, "budi@toko.co.id")
	assert.Contains(t, out, "Powered by VibePOS")
	assert.NotContains(t, out, "Diskon")
}

func TestReceiptHTMLEscapesItemNames(t *testing.T) {
	r := sampleReceipt()
	r.Items[0].Name = "<script>alert(1)</script>"
	out, err := ReceiptHTML(r)
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>alert(1)</script>")
}

func TestResetLinkRoundTrip(t *testing.T) {
	token := "YnVkaSU0MHRva28uY28uaWQ=_1741946400000_deadbeef"
	link := ResetLink("https://pos.example.com", "budi@toko.co.id", token)

	require.True(t, strings.HasPrefix(link, "https://pos.example.com/reset-password?"))

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, token, u.Query().Get("token"))
	assert.Equal(t, "budi@toko.co.id", u.Query().Get("email"))
}

func TestResetText(t *testing.T) {
	out := ResetText("Budi", "https://pos.example.com/reset-password?token=abc")
	assert.Contains(t, out, "Halo Budi!")
	assert.Contains(t, out, "https://pos.example.com/reset-password?token=abc")
	assert.Contains(t, out, "kedaluwarsa dalam 1 jam")

	out = ResetText("", "https://x")
	assert.Contains(t, out, "Halo User!")
}

func TestResetHTML(t *testing.T) {
	out, err := ResetHTML("Budi", "budi@toko.co.id", "https://pos.example.com/reset?t=1")
	require.NoError(t, err)
	assert.Contains(t, out, "Halo Budi!")
	assert.Contains(t, out, "budi@toko.co.id")
	assert.Contains(t, out, "https://pos.example.com/reset?t=1")
	assert.Contains(t, out, "1 jam")
}
