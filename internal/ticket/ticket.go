// Package ticket renders booking confirmations as printable PDFs.
package ticket

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math"
	"strings"

	"github.com/Domenick1991/cruisebooking/internal/domain"
	"github.com/Domenick1991/cruisebooking/internal/pricing"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

type Renderer struct {
	secret []byte
}

func NewRenderer(secret string) *Renderer {
	return &Renderer{secret: []byte(secret)}
}

// Payload is the QR content: booking:<id>|user:<id>|status:<status>|<signature>.
func (r *Renderer) Payload(b *domain.Booking) string {
	data := fmt.Sprintf("booking:%d|user:%d|status:%s", b.ID, b.UserID, b.Status)
	return data + "|" + r.sign(data)
}

// Verify checks a payload produced by Payload.
func (r *Renderer) Verify(payload string) bool {
	idx := strings.LastIndex(payload, "|")
	if idx < 0 {
		return false
	}
	data, sig := payload[:idx], payload[idx+1:]
	return hmac.Equal([]byte(sig), []byte(r.sign(data)))
}

func (r *Renderer) sign(data string) string {
	h := hmac.New(sha256.New, r.secret)
	h.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// Render produces an A4 PDF ticket. cruise may be nil when the cruise was
// deleted after booking.
func (r *Renderer) Render(b *domain.Booking, cruise *domain.Cruise, user *domain.User) ([]byte, error) {
	qrPNG, err := qrcode.Encode(r.Payload(b), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Booking #%d", b.ID), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, "Cruise Booking Confirmation")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	line := func(label, value string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(45, 8, label)
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 8, value)
		pdf.Ln(8)
	}

	line("Booking:", fmt.Sprintf("#%d (%s)", b.ID, b.Status))
	if user != nil {
		line("Passenger:", strings.TrimSpace(user.FirstName+" "+user.LastName))
		line("Email:", user.Email)
	}
	if cruise != nil {
		line("Cruise:", cruise.Name)
		line("Route:", cruise.DepartureLocation+" - "+cruise.DestinationLocation)
		line("Duration:", fmt.Sprintf("%d days", cruise.Duration))
	} else {
		line("Cruise:", fmt.Sprintf("#%d (no longer offered)", b.CruiseID))
	}
	line("Departure:", b.DepartureDate.Format("January 2, 2006"))
	line("Cabin:", capitalize(string(b.CabinType)))
	line("Guests:", fmt.Sprintf("%d adults, %d children", b.Adults, b.Children))
	pdf.Ln(4)

	if breakdown, ok := breakdownFor(b, cruise); ok {
		line("Base fare:", money(breakdown.BasePrice))
		line("Cabin upgrade:", money(breakdown.CabinUpgrade))
		line("Taxes & fees:", money(breakdown.TaxesFees))
		line("Gratuities:", money(breakdown.Gratuities))
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(45, 10, "Total:")
	pdf.Cell(0, 10, money(b.TotalPrice))
	pdf.Ln(12)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 45, 45, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// breakdownFor recomputes the breakdown and only returns it while it still
// adds up to the stored total.
func breakdownFor(b *domain.Booking, cruise *domain.Cruise) (pricing.Breakdown, bool) {
	if cruise == nil {
		return pricing.Breakdown{}, false
	}
	quote, err := pricing.Calculate(*cruise, pricing.Request{CabinType: b.CabinType, Adults: b.Adults, Children: b.Children})
	if err != nil || math.Abs(quote.TotalPrice-b.TotalPrice) > 0.005 {
		return pricing.Breakdown{}, false
	}
	return quote.Breakdown, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
