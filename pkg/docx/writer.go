// Package docx serializes a document.Document as an Office Open XML
// word-processing package (.docx).
//
// Only what the document model can express is emitted: paragraphs with
// spacing, indentation, alignment and an optional bottom border; runs with
// bold, italic, size and colour; and images floated at the right margin.
// Everything uses the Calibri default font from styles.xml.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikogura/ats-cv/pkg/document"
	"github.com/pkg/errors"
)

const (
	twipsPerPoint  = 20
	twipsPerInch   = 1440
	emuPerInch     = 914400
	lineUnit       = 240
	letterWidth    = 12240
	letterHeight   = 15840
	headerDistance = 720
	photoGap       = 0.12 // inches between floated photo and text
)

type part struct {
	name string
	data []byte
}

// media is an image stored under word/media with its relationship id.
type media struct {
	image *document.Image
	relID string
	part  string
	docPr int
}

// Encode writes doc as a .docx package to w.
func Encode(w io.Writer, doc document.Document) (err error) {
	images := collectMedia(doc)

	var body bytes.Buffer
	writeDocument(&body, doc, images)

	zw := zip.NewWriter(w)

	parts := []part{
		{partContentTypes, []byte(contentTypes)},
		{partRootRels, []byte(rootRels)},
		{partCore, coreProps(doc)},
		{partApp, []byte(appProps)},
		{partDocument, body.Bytes()},
		{partStyles, []byte(fmt.Sprintf(stylesTemplate, langTag(doc.Language)))},
		{partDocumentRels, documentRels(images)},
	}
	for _, m := range images {
		parts = append(parts, part{m.part, m.image.Data})
	}

	for _, p := range parts {
		var f io.Writer
		f, err = zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate})
		if err != nil {
			err = errors.Wrapf(err, "failed to create part %s", p.name)
			return err
		}
		_, err = f.Write(p.data)
		if err != nil {
			err = errors.Wrapf(err, "failed to write part %s", p.name)
			return err
		}
	}

	err = zw.Close()
	if err != nil {
		err = errors.Wrap(err, "failed to finish docx archive")
		return err
	}

	return err
}

// WriteFile encodes doc and stores it at path. The file is written to a
// temporary name in the same directory and renamed into place, so path is
// either the complete document or untouched.
func WriteFile(doc document.Document, path string) (err error) {
	outputDir := filepath.Dir(path)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	var tmp *os.File
	tmp, err = os.CreateTemp(outputDir, ".ats-cv-*.docx")
	if err != nil {
		err = errors.Wrapf(err, "failed to create temporary file in: %s", outputDir)
		return err
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	err = Encode(tmp, doc)
	if err != nil {
		_ = tmp.Close()
		return err
	}

	err = tmp.Close()
	if err != nil {
		err = errors.Wrapf(err, "failed to close temporary file: %s", tmpName)
		return err
	}

	err = os.Chmod(tmpName, 0644)
	if err != nil {
		err = errors.Wrapf(err, "failed to set permissions on: %s", tmpName)
		return err
	}

	err = os.Rename(tmpName, path)
	if err != nil {
		err = errors.Wrapf(err, "failed to write docx file: %s", path)
		return err
	}

	return err
}

func collectMedia(doc document.Document) (images []media) {
	for i, img := range doc.Images() {
		ext := img.Format
		if ext == "" {
			ext = "png"
		}
		images = append(images, media{
			image: img,
			relID: fmt.Sprintf("rIdImage%d", i+1),
			part:  fmt.Sprintf("word/media/image%d.%s", i+1, ext),
			docPr: i + 1,
		})
	}
	return images
}

func documentRels(images []media) (data []byte) {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="` + nsPkgRels + `">`)
	b.WriteString(`<Relationship Id="rIdStyles" Type="` + relStyles + `" Target="styles.xml"/>`)
	for _, m := range images {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`,
			m.relID, relImage, strings.TrimPrefix(m.part, "word/"))
	}
	b.WriteString(`</Relationships>`)
	data = b.Bytes()
	return data
}

func coreProps(doc document.Document) (data []byte) {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString(`<cp:coreProperties` +
		` xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
		` xmlns:dc="http://purl.org/dc/elements/1.1/"` +
		` xmlns:dcterms="http://purl.org/dc/terms/"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	writeElement(&b, "dc:title", doc.Title)
	writeElement(&b, "dc:creator", doc.Author)
	writeElement(&b, "cp:lastModifiedBy", doc.Author)
	writeElement(&b, "dc:language", doc.Language)
	b.WriteString(`</cp:coreProperties>`)
	data = b.Bytes()
	return data
}

func writeElement(b *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	b.WriteString("<" + name + ">")
	escape(b, value)
	b.WriteString("</" + name + ">")
}

func writeDocument(b *bytes.Buffer, doc document.Document, images []media) {
	byImage := make(map[*document.Image]media, len(images))
	for _, m := range images {
		byImage[m.image] = m
	}

	b.WriteString(xmlHeader)
	b.WriteString(`<w:document xmlns:w="` + nsW + `" xmlns:r="` + nsR + `" xmlns:wp="` + nsWP +
		`" xmlns:a="` + nsA + `" xmlns:pic="` + nsPic + `">`)
	b.WriteString(`<w:body>`)

	for _, p := range doc.Paragraphs {
		writeParagraph(b, p, byImage)
	}

	// A document must end with a paragraph before sectPr.
	if len(doc.Paragraphs) == 0 {
		b.WriteString(`<w:p/>`)
	}

	page := doc.Page
	fmt.Fprintf(b, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/>`+
		`<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="%d" w:footer="%d" w:gutter="0"/>`+
		`</w:sectPr>`,
		letterWidth, letterHeight,
		inchesToTwips(page.MarginTop), inchesToTwips(page.MarginRight),
		inchesToTwips(page.MarginBottom), inchesToTwips(page.MarginLeft),
		headerDistance, headerDistance)

	b.WriteString(`</w:body></w:document>`)
}

func writeParagraph(b *bytes.Buffer, p document.Paragraph, images map[*document.Image]media) {
	b.WriteString(`<w:p><w:pPr>`)

	if p.BorderBottom != nil {
		fmt.Fprintf(b, `<w:pBdr><w:bottom w:val="single" w:sz="%d" w:space="1" w:color="%s"/></w:pBdr>`,
			p.BorderBottom.Size, colorOrAuto(p.BorderBottom.Color))
	}

	b.WriteString(`<w:spacing`)
	fmt.Fprintf(b, ` w:before="%d" w:after="%d"`, pointsToTwips(p.SpaceBefore), pointsToTwips(p.SpaceAfter))
	if p.LineSpacing > 0 {
		fmt.Fprintf(b, ` w:line="%d" w:lineRule="auto"`, int(math.Round(p.LineSpacing*lineUnit)))
	}
	b.WriteString(`/>`)

	if p.IndentLeft > 0 {
		fmt.Fprintf(b, `<w:ind w:left="%d"/>`, inchesToTwips(p.IndentLeft))
	}

	if p.Align != document.AlignLeft {
		fmt.Fprintf(b, `<w:jc w:val="%s"/>`, p.Align.String())
	}

	b.WriteString(`</w:pPr>`)

	if p.Float != nil {
		if m, ok := images[p.Float]; ok {
			writeFloatingImage(b, m)
		}
	}

	for _, r := range p.Runs {
		writeRun(b, r)
	}

	if p.ClearFloats {
		b.WriteString(`<w:r><w:br w:type="textWrapping" w:clear="all"/></w:r>`)
	}

	b.WriteString(`</w:p>`)
}

func writeRun(b *bytes.Buffer, r document.Run) {
	if r.Text == "" {
		return
	}

	b.WriteString(`<w:r><w:rPr>`)
	if r.Bold {
		b.WriteString(`<w:b/><w:bCs/>`)
	}
	if r.Italic {
		b.WriteString(`<w:i/><w:iCs/>`)
	}
	if r.Color != "" {
		fmt.Fprintf(b, `<w:color w:val="%s"/>`, r.Color)
	}
	if r.Size > 0 {
		halfPoints := int(math.Round(r.Size * 2))
		fmt.Fprintf(b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, halfPoints, halfPoints)
	}
	b.WriteString(`</w:rPr>`)

	lines := strings.Split(r.Text, "\n")
	for i, line := range lines {
		if i > 0 {
			b.WriteString(`<w:br/>`)
		}
		segments := strings.Split(line, "\t")
		for j, seg := range segments {
			if j > 0 {
				b.WriteString(`<w:tab/>`)
			}
			if seg == "" {
				continue
			}
			b.WriteString(`<w:t xml:space="preserve">`)
			escape(b, seg)
			b.WriteString(`</w:t>`)
		}
	}

	b.WriteString(`</w:r>`)
}

// writeFloatingImage anchors the picture to the right margin with text
// wrapping on its left side.
func writeFloatingImage(b *bytes.Buffer, m media) {
	img := m.image
	cx := inchesToEMU(img.Width())
	cy := inchesToEMU(img.Height)
	gap := inchesToEMU(photoGap)

	b.WriteString(`<w:r><w:drawing>`)
	fmt.Fprintf(b, `<wp:anchor distT="0" distB="0" distL="%d" distR="0" simplePos="0" relativeHeight="251658240"`+
		` behindDoc="0" locked="0" layoutInCell="1" allowOverlap="0">`, gap)
	b.WriteString(`<wp:simplePos x="0" y="0"/>`)
	b.WriteString(`<wp:positionH relativeFrom="margin"><wp:align>right</wp:align></wp:positionH>`)
	b.WriteString(`<wp:positionV relativeFrom="paragraph"><wp:posOffset>0</wp:posOffset></wp:positionV>`)
	fmt.Fprintf(b, `<wp:extent cx="%d" cy="%d"/>`, cx, cy)
	b.WriteString(`<wp:effectExtent l="0" t="0" r="0" b="0"/>`)
	b.WriteString(`<wp:wrapSquare wrapText="left"/>`)
	fmt.Fprintf(b, `<wp:docPr id="%d" name="Photo %d"/>`, m.docPr, m.docPr)
	b.WriteString(`<wp:cNvGraphicFramePr><a:graphicFrameLocks noChangeAspect="1"/></wp:cNvGraphicFramePr>`)
	b.WriteString(`<a:graphic><a:graphicData uri="` + nsPic + `"><pic:pic>`)
	b.WriteString(`<pic:nvPicPr>`)
	fmt.Fprintf(b, `<pic:cNvPr id="%d" name="`, m.docPr)
	escape(b, img.Name)
	b.WriteString(`"/><pic:cNvPicPr/></pic:nvPicPr>`)
	fmt.Fprintf(b, `<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`, m.relID)
	fmt.Fprintf(b, `<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`, cx, cy)
	b.WriteString(`</pic:pic></a:graphicData></a:graphic>`)
	b.WriteString(`</wp:anchor></w:drawing></w:r>`)
}

func escape(b *bytes.Buffer, s string) {
	// EscapeText only fails on writer errors; bytes.Buffer never returns one.
	_ = xml.EscapeText(b, []byte(s))
}

func pointsToTwips(pt float64) (twips int) {
	twips = int(math.Round(pt * twipsPerPoint))
	return twips
}

func inchesToTwips(in float64) (twips int) {
	twips = int(math.Round(in * twipsPerInch))
	return twips
}

func inchesToEMU(in float64) (emu int64) {
	emu = int64(math.Round(in * emuPerInch))
	return emu
}

func colorOrAuto(c string) (v string) {
	v = c
	if v == "" {
		v = "auto"
	}
	return v
}

// langTag maps the document language to the w:lang value.
func langTag(code string) (tag string) {
	switch code {
	case "", "en":
		tag = "en-US"
	case "es":
		tag = "es-ES"
	default:
		tag = code
	}
	return tag
}
