package models

// AppConfig is the singleton platform payment configuration: the PIX key
// deposits are sent to and an optional QR code image for it. Written only
// through the admin surface, read by every deposit view.
type AppConfig struct {
	PaymentKey string `db:"payment_key"`
	QRCodeURL  string `db:"qr_code_url"`
}
