package service

import (
	"fmt"
	"net/url"

	"github.com/skip2/go-qrcode"
)

// QRGenerator renders the hand-off code the rider scans at the door.
type QRGenerator interface {
	Generate(orderID, otp string) ([]byte, error)
}

type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(orderID, otp string) ([]byte, error) {
	q := url.Values{}
	q.Set("order_id", orderID)
	q.Set("otp", otp)
	qrData := fmt.Sprintf("%s/tracking?%s", g.BaseURL, q.Encode())
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}
