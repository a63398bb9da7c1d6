package service

// UPIPayment describes a UPI collect request encoded in a payment QR code.
type UPIPayment struct {
	PayeeID   string // VPA, e.g. starmobiles@okaxis
	PayeeName string
	Amount    int64 // whole rupees
	Note      string
	Reference string
}

// QRCodeService defines the interface for payment QR code generation and parsing
type QRCodeService interface {
	// PaymentURI renders the upi://pay deep link encoded in the QR code
	PaymentURI(payment UPIPayment) string

	// GeneratePaymentQR renders a PNG QR code for a UPI payment
	GeneratePaymentQR(payment UPIPayment) ([]byte, error)

	// ParsePaymentURI parses a upi://pay URI back into a payment
	ParsePaymentURI(uri string) (*UPIPayment, error)
}
