package pdf

import (
	"bytes"
	"fmt"

	"giftcard-fulfillment/internal/pkg/errs"

	"github.com/go-pdf/fpdf"
)

// Card dimensions in points, taken from the print template.
const (
	cardWidth  = 240.75
	cardHeight = 161.04

	// Baselines measured from the top of the card.
	codeY  = 71.0
	valueY = 101.0
)

// Renderer draws one voucher card: the code centered in the upper half, the
// face value below it.
type Renderer struct {
	currency string
}

func NewRenderer(currency string) *Renderer {
	return &Renderer{currency: currency}
}

func (r *Renderer) Render(code string, denomination int) ([]byte, error) {
	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: cardWidth, Ht: cardHeight},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	// Core fonts are cp1252; the currency label needs the central-European
	// code page.
	translate := doc.UnicodeTranslatorFromDescriptor("cp1250")

	doc.SetFont("Helvetica", "B", 12)
	r.drawCentered(doc, translate(code), codeY)

	doc.SetFont("Helvetica", "B", 14)
	r.drawCentered(doc, translate(fmt.Sprintf("%d %s", denomination, r.currency)), valueY)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, errs.Wrap(err, "failed to render voucher pdf")
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawCentered(doc *fpdf.Fpdf, text string, y float64) {
	x := (cardWidth - doc.GetStringWidth(text)) / 2
	doc.Text(x, y, text)
}
