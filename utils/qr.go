package utils

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// TableLinkPNG renders the public ordering link for a table as a QR PNG.
func TableLinkPNG(baseURL, tenantSlug, tableLabel string) ([]byte, error) {
	link := fmt.Sprintf("%s/order?tenant=%s&table=%s", baseURL, tenantSlug, tableLabel)
	return qrcode.Encode(link, qrcode.Medium, 256)
}
