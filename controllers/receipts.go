package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	dbpkg "vibepos/db"
	"vibepos/dispatch"
	"vibepos/format"
	"vibepos/models"
	"vibepos/tools"
	"vibepos/workers"

	"github.com/gin-gonic/gin"
)

type receiptItemRequest struct {
	Name     string `json:"name" form:"name"`
	Quantity int    `json:"quantity" form:"quantity"`
	Price    int64  `json:"price" form:"price"`
	Total    int64  `json:"total" form:"total"`
}

type receiptRequest struct {
	TransactionNumber string               `json:"transaction_number"`
	CustomerName      string               `json:"customer_name"`
	CustomerEmail     string               `json:"customer_email"`
	CustomerPhone     string               `json:"customer_phone"`
	CashierName       string               `json:"cashier_name"`
	StoreName         string               `json:"store_name"`
	StoreAddress      string               `json:"store_address"`
	StorePhone        string               `json:"store_phone"`
	PaymentMethod     string               `json:"payment_method"`
	CreatedAt         string               `json:"created_at"` // RFC3339; empty = now
	Items             []receiptItemRequest `json:"items"`
	Discount          float64              `json:"discount"`
	DiscountType      string               `json:"discount_type"` // "amount" | "percentage"
	TaxAmount         int64                `json:"tax_amount"`
	TotalAmount       int64                `json:"total_amount"`
	Channels          []string             `json:"channels"` // "email", "whatsapp"
}

// POST /api/receipts/send (public for now; the POS front-end calls it right
// after committing the sale)
//
// Delivery is best-effort by contract: the sale is already durable, so this
// only queues sends and reports per-channel warnings. It never fails the sale.
func SendReceipt(c *gin.Context) {
	var req receiptRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, "payload inválido", http.StatusBadRequest)
		return
	}

	receipt, err := buildReceipt(req)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if len(req.Channels) == 0 {
		req.Channels = []string{"email"}
	}

	var queued, warnings []string
	for _, ch := range req.Channels {
		switch strings.ToLower(strings.TrimSpace(ch)) {
		case "email":
			if !tools.ValidateEmail(req.CustomerEmail) {
				warnings = append(warnings, "customer tidak memiliki email valid")
				continue
			}
			if enqueueReceipt(dispatch.ChannelEmail, req.CustomerEmail, req, receipt) {
				queued = append(queued, "email")
			} else {
				warnings = append(warnings, "antrian email penuh, coba lagi")
			}
		case "whatsapp":
			if !tools.ValidWhatsAppNumber(req.CustomerPhone) {
				warnings = append(warnings, "customer tidak memiliki nomor WhatsApp valid")
				continue
			}
			if enqueueReceipt(dispatch.ChannelWhatsApp, req.CustomerPhone, req, receipt) {
				queued = append(queued, "whatsapp")
			} else {
				warnings = append(warnings, "antrian whatsapp penuh, coba lagi")
			}
		default:
			warnings = append(warnings, fmt.Sprintf("channel %q tidak dikenal", ch))
		}
	}

	RespondSuccess(c, gin.H{"queued": queued, "warnings": warnings})
}

// GET /api/receipts/deliveries?transaction=NR
// The POS front-end polls this to turn queued sends into UI feedback.
func GetReceiptDeliveries(c *gin.Context) {
	tx := strings.TrimSpace(c.Query("transaction"))
	if tx == "" {
		RespondError(c, "transaction é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "database indisponível", http.StatusInternalServerError)
		return
	}

	var rows []models.DeliveryLog
	if err := db.Where("\"transaction\" = ?", tx).Order("id desc").Find(&rows).Error; err != nil {
		RespondError(c, "falha ao consultar entregas", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, rows)
}

func buildReceipt(req receiptRequest) (*format.Receipt, error) {
	if strings.TrimSpace(req.TransactionNumber) == "" {
		return nil, fmt.Errorf("transaction_number é obrigatório")
	}
	if len(req.Items) == 0 {
		return nil, format.ErrNoItems
	}

	items := make([]format.Item, 0, len(req.Items))
	var itemsSubtotal int64
	for _, it := range req.Items {
		total := it.Total
		if total == 0 {
			total = int64(it.Quantity) * it.Price
		}
		itemsSubtotal += total
		items = append(items, format.Item{Name: it.Name, Qty: it.Quantity, Price: it.Price, Total: total})
	}

	createdAt := time.Now()
	if req.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, req.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("created_at inválido: %v", err)
		}
		createdAt = t
	}

	storeName := req.StoreName
	if storeName == "" {
		storeName = "VibePOS"
	}
	customer := req.CustomerName
	if customer == "" {
		customer = "Customer"
	}

	discount := format.DiscountAmount(itemsSubtotal, req.Discount, strings.EqualFold(req.DiscountType, "percentage"))

	r := &format.Receipt{
		TransactionNumber: req.TransactionNumber,
		CustomerName:      customer,
		CustomerEmail:     req.CustomerEmail,
		CashierName:       req.CashierName,
		StoreName:         storeName,
		StoreAddress:      req.StoreAddress,
		StorePhone:        req.StorePhone,
		CreatedAt:         createdAt,
		PaymentMethod:     req.PaymentMethod,
		Items:             items,
		Discount:          discount,
		Tax:               req.TaxAmount,
		Total:             req.TotalAmount,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func enqueueReceipt(ch dispatch.Channel, to string, req receiptRequest, receipt *format.Receipt) bool {
	return notifyWorker.Enqueue(workers.ReceiptJob{
		Request: dispatch.Request{
			Channel:     ch,
			To:          to,
			DisplayName: req.CustomerName,
			Kind:        dispatch.KindReceipt,
			Receipt:     receipt,
		},
		Transaction: req.TransactionNumber,
	})
}
