// Package document is a small, format-neutral model of a single-column text
// document: a flat list of paragraphs made of styled runs. Serializers in
// other packages turn it into a concrete file format.
package document

import "strings"

// Alignment is horizontal paragraph alignment.
type Alignment int

const (
	// AlignLeft is the default alignment.
	AlignLeft Alignment = iota
	// AlignCenter centres the paragraph.
	AlignCenter
	// AlignRight right-aligns the paragraph.
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Document is an ordered sequence of paragraphs plus page setup and metadata.
type Document struct {
	Title      string
	Author     string
	Language   string // BCP 47 tag, e.g. "en" or "es"
	Page       Page
	Paragraphs []Paragraph
}

// Page holds page margins in inches.
type Page struct {
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64
}

// Paragraph is one block of text. Spacing values are in points, IndentLeft in
// inches, LineSpacing is a multiple of single spacing (0 means single).
type Paragraph struct {
	Align        Alignment
	SpaceBefore  float64
	SpaceAfter   float64
	LineSpacing  float64
	IndentLeft   float64
	BorderBottom *Border
	Float        *Image
	Runs         []Run

	// ClearFloats ends the paragraph below any floated image so the next
	// paragraph starts at full width.
	ClearFloats bool
}

// Border is a single bottom rule under a paragraph. Size is in eighths of a point.
type Border struct {
	Size  int
	Color string
}

// Run is a span of uniformly formatted text. Size is in points; Color is a
// six-digit hex RGB value without '#', empty for the default colour.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
	Size   float64
	Color  string
}

// Image is a picture floated at the right margin of the paragraph that holds it.
// Height is the display height in inches; width follows the pixel aspect ratio.
type Image struct {
	Name        string
	Format      string // "png", "jpeg" or "gif"
	Data        []byte
	PixelWidth  int
	PixelHeight int
	Height      float64
}

// Width returns the display width in inches.
func (i Image) Width() (width float64) {
	if i.PixelHeight == 0 {
		return width
	}
	width = i.Height * float64(i.PixelWidth) / float64(i.PixelHeight)
	return width
}

// Text returns the concatenated run text of the paragraph.
func (p Paragraph) Text() (text string) {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	text = sb.String()
	return text
}

// Append adds a paragraph to the end of the document.
func (d *Document) Append(p Paragraph) {
	d.Paragraphs = append(d.Paragraphs, p)
}

// Lines returns the text of every paragraph in document order.
func (d Document) Lines() (lines []string) {
	lines = make([]string, 0, len(d.Paragraphs))
	for _, p := range d.Paragraphs {
		lines = append(lines, p.Text())
	}
	return lines
}

// Text returns the plain-text flow of the document, one paragraph per line.
func (d Document) Text() (text string) {
	text = strings.Join(d.Lines(), "\n")
	return text
}

// Images returns every image referenced by the document, in order.
func (d Document) Images() (images []*Image) {
	for _, p := range d.Paragraphs {
		if p.Float != nil {
			images = append(images, p.Float)
		}
	}
	return images
}
