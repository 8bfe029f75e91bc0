package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DisbursementParams adalah permintaan payout ke rekening bank member.
type DisbursementParams struct {
	ExternalID        string
	Amount            decimal.Decimal
	BankCode          string
	AccountNumber     string
	AccountHolderName string
	Description       string
}

// DisbursementResult adalah jawaban gateway atas pembuatan payout.
// Status akhir (COMPLETED/FAILED) datang belakangan lewat webhook.
type DisbursementResult struct {
	ID     string
	Status string
	Amount decimal.Decimal
}

// DisbursementGateway mengirim dana keluar. Implementasi produksi
// memakai Xendit; test memakai stub.
type DisbursementGateway interface {
	CreateDisbursement(params DisbursementParams) (*DisbursementResult, error)
}

// Status disbursement dari gateway.
const (
	DisbursementPending   = "PENDING"
	DisbursementCompleted = "COMPLETED"
	DisbursementFailed    = "FAILED"
)

// XenditGateway memanggil Xendit Payouts API v2.
type XenditGateway struct {
	SecretKey string
	BaseURL   string
	Client    *http.Client
}

func NewXenditGateway(secretKey string) *XenditGateway {
	return &XenditGateway{
		SecretKey: secretKey,
		BaseURL:   "https://api.xendit.co",
		Client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type xenditPayoutRequest struct {
	ReferenceID       string            `json:"reference_id"`
	ChannelCode       string            `json:"channel_code"`
	ChannelProperties map[string]string `json:"channel_properties"`
	Amount            decimal.Decimal   `json:"amount"`
	Currency          string            `json:"currency"`
	Description       string            `json:"description"`
	Type              string            `json:"type"`
}

type xenditPayoutResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateDisbursement membuat payout. ExternalID dipakai sebagai
// idempotency key: retry dengan id yang sama tidak membuat payout kedua.
// Tanpa secret key (lingkungan dev), payout di-mock sebagai PENDING.
func (g *XenditGateway) CreateDisbursement(params DisbursementParams) (*DisbursementResult, error) {
	if g.SecretKey == "" {
		log.Println("Xendit secret key kosong, disbursement di-mock")
		return &DisbursementResult{
			ID:     "mock_" + params.ExternalID,
			Status: DisbursementPending,
			Amount: params.Amount,
		}, nil
	}

	desc := params.Description
	if desc == "" {
		desc = "Withdrawal payout"
	}

	payload := xenditPayoutRequest{
		ReferenceID: params.ExternalID,
		ChannelCode: MapBankCode(params.BankCode),
		ChannelProperties: map[string]string{
			"account_number":      params.AccountNumber,
			"account_holder_name": params.AccountHolderName,
		},
		Amount:      params.Amount,
		Currency:    "IDR",
		Description: desc,
		Type:        "DIRECT_DISBURSEMENT",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, g.BaseURL+"/v2/payouts", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	auth := base64.StdEncoding.EncodeToString([]byte(g.SecretKey + ":"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Idempotency-key", params.ExternalID)

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("disbursement gagal: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("disbursement ditolak gateway: status %d", resp.StatusCode)
	}

	var result xenditPayoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	if result.ID == "" {
		result.ID = params.ExternalID
	}
	if result.Status == "" {
		result.Status = DisbursementPending
	}

	return &DisbursementResult{ID: result.ID, Status: result.Status, Amount: params.Amount}, nil
}

// Channel code Xendit untuk bank Indonesia yang umum.
var bankCodeMap = map[string]string{
	"bca":     "ID_BCA",
	"bni":     "ID_BNI",
	"bri":     "ID_BRI",
	"mandiri": "ID_MANDIRI",
	"cimb":    "ID_CIMB",
	"permata": "ID_PERMATA",
	"danamon": "ID_DANAMON",
	"btn":     "ID_BTN",
	"bsi":     "ID_BSI",
}

// MapBankCode menormalkan nama bank ke channel code gateway.
func MapBankCode(bankName string) string {
	normalized := strings.ToLower(strings.ReplaceAll(bankName, " ", ""))
	if code, ok := bankCodeMap[normalized]; ok {
		return code
	}
	return "ID_" + strings.ToUpper(normalized)
}
