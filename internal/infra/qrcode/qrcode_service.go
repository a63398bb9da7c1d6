package qrcode

import (
	"fmt"
	"net/url"
	"strconv"

	"starmobiles/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

const (
	upiScheme   = "upi"
	upiHost     = "pay"
	upiCurrency = "INR"
	defaultSize = 256
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	if size <= 0 {
		size = defaultSize
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// PaymentURI renders a UPI deep link: upi://pay?pa=...&pn=...&am=...&cu=INR
func PaymentURI(payment service.UPIPayment) string {
	query := url.Values{}
	query.Set("pa", payment.PayeeID)
	if payment.PayeeName != "" {
		query.Set("pn", payment.PayeeName)
	}
	query.Set("am", strconv.FormatInt(payment.Amount, 10)+".00")
	query.Set("cu", upiCurrency)
	if payment.Note != "" {
		query.Set("tn", payment.Note)
	}
	if payment.Reference != "" {
		query.Set("tr", payment.Reference)
	}

	return (&url.URL{Scheme: upiScheme, Host: upiHost, RawQuery: query.Encode()}).String()
}

func (s *qrcodeService) PaymentURI(payment service.UPIPayment) string {
	return PaymentURI(payment)
}

// GeneratePaymentQR renders the UPI deep link as a PNG.
func (s *qrcodeService) GeneratePaymentQR(payment service.UPIPayment) ([]byte, error) {
	if payment.PayeeID == "" {
		return nil, fmt.Errorf("payee id is required")
	}
	if payment.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %d", payment.Amount)
	}

	qrCode, err := qrcode.New(PaymentURI(payment), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParsePaymentURI parses a upi://pay link back into a payment.
func (s *qrcodeService) ParsePaymentURI(uri string) (*service.UPIPayment, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to parse payment uri: %w", err)
	}
	if parsed.Scheme != upiScheme || parsed.Host != upiHost {
		return nil, fmt.Errorf("invalid payment uri: %s", uri)
	}

	query := parsed.Query()
	if cu := query.Get("cu"); cu != "" && cu != upiCurrency {
		return nil, fmt.Errorf("unsupported currency: %s", cu)
	}

	payment := &service.UPIPayment{
		PayeeID:   query.Get("pa"),
		PayeeName: query.Get("pn"),
		Note:      query.Get("tn"),
		Reference: query.Get("tr"),
	}
	if payment.PayeeID == "" {
		return nil, fmt.Errorf("payment uri has no payee")
	}

	amount, err := strconv.ParseFloat(query.Get("am"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	payment.Amount = int64(amount)

	return payment, nil
}
