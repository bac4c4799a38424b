package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikogura/ats-cv/pkg/document"
)

func sampleDocument() (doc document.Document) {
	doc = document.Document{
		Title:    "Jane Doe - Engineer",
		Author:   "Jane Doe",
		Language: "es",
		Page:     document.Page{MarginTop: 0.6, MarginBottom: 0.6, MarginLeft: 0.7, MarginRight: 0.7},
		Paragraphs: []document.Paragraph{
			{
				Align: document.AlignCenter,
				Runs:  []document.Run{{Text: "JANE DOE", Bold: true, Size: 26, Color: "003366"}},
			},
			{
				SpaceBefore:  14,
				SpaceAfter:   6,
				BorderBottom: &document.Border{Size: 4, Color: "003366"},
				Runs:         []document.Run{{Text: "CERTIFICATIONS & LANGUAGES", Bold: true, Size: 12}},
			},
			{
				IndentLeft:  0.2,
				LineSpacing: 1.15,
				Runs:        []document.Run{{Text: "• Shipped <v2>\nwith\ttabs", Italic: true}},
			},
		},
	}
	return doc
}

func readParts(t *testing.T, data []byte) (parts map[string]string) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Output is not a zip archive: %v", err)
	}

	parts = make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open part %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("Failed to read part %s: %v", f.Name, err)
		}
		parts[f.Name] = string(content)
	}
	return parts
}

func assertWellFormed(t *testing.T, name, content string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(content))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			t.Fatalf("Part %s is not well-formed XML: %v", name, err)
		}
	}
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, sampleDocument())
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	parts := readParts(t, buf.Bytes())

	required := []string{partContentTypes, partRootRels, partCore, partApp, partDocument, partStyles, partDocumentRels}
	for _, name := range required {
		content, ok := parts[name]
		if !ok {
			t.Errorf("Missing part %s", name)
			continue
		}
		assertWellFormed(t, name, content)
	}

	body := parts[partDocument]
	checks := []string{
		`<w:jc w:val="center"/>`,
		`<w:pBdr><w:bottom w:val="single" w:sz="4" w:space="1" w:color="003366"/></w:pBdr>`,
		`<w:spacing w:before="280" w:after="120"/>`,
		`<w:spacing w:before="0" w:after="0" w:line="276" w:lineRule="auto"/>`,
		`<w:ind w:left="288"/>`,
		`<w:sz w:val="52"/>`,
		`<w:color w:val="003366"/>`,
		`CERTIFICATIONS &amp; LANGUAGES`,
		`Shipped &lt;v2&gt;`,
		`<w:br/>`,
		`<w:tab/>`,
		`<w:pgMar w:top="864" w:right="1008" w:bottom="864" w:left="1008"`,
	}
	for _, want := range checks {
		if !strings.Contains(body, want) {
			t.Errorf("document.xml missing %s", want)
		}
	}

	if strings.Contains(body, "<w:tbl") {
		t.Error("document.xml must not contain tables")
	}

	if !strings.Contains(parts[partCore], "<dc:creator>Jane Doe</dc:creator>") {
		t.Error("core.xml missing creator")
	}

	if !strings.Contains(parts[partStyles], `<w:lang w:val="es-ES"/>`) {
		t.Error("styles.xml missing document language")
	}
}

func TestEncodeFloatingImage(t *testing.T) {
	img := &document.Image{
		Name:        "photo.png",
		Format:      "png",
		Data:        []byte("not-really-png"),
		PixelWidth:  300,
		PixelHeight: 400,
		Height:      1.4,
	}
	doc := sampleDocument()
	doc.Paragraphs[0].Float = img
	doc.Paragraphs[0].ClearFloats = true

	var buf bytes.Buffer
	err := Encode(&buf, doc)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	parts := readParts(t, buf.Bytes())

	if parts["word/media/image1.png"] != "not-really-png" {
		t.Error("Image bytes not stored under word/media")
	}

	rels := parts[partDocumentRels]
	if !strings.Contains(rels, `Id="rIdImage1"`) || !strings.Contains(rels, `Target="media/image1.png"`) {
		t.Errorf("Image relationship missing: %s", rels)
	}

	body := parts[partDocument]
	assertWellFormed(t, partDocument, body)

	checks := []string{
		`<wp:anchor`,
		`<wp:positionH relativeFrom="margin"><wp:align>right</wp:align></wp:positionH>`,
		`<wp:wrapSquare wrapText="left"/>`,
		`<wp:extent cx="960120" cy="1280160"/>`,
		`r:embed="rIdImage1"`,
	}
	for _, want := range checks {
		if !strings.Contains(body, want) {
			t.Errorf("document.xml missing %s", want)
		}
	}

	// The drawing run precedes the name text.
	if strings.Index(body, "<w:drawing>") > strings.Index(body, "JANE DOE") {
		t.Error("Expected photo anchor before the name run")
	}

	// The clearing break closes the header paragraph, before the first heading.
	clearBreak := `<w:r><w:br w:type="textWrapping" w:clear="all"/></w:r></w:p>`
	clearAt := strings.Index(body, clearBreak)
	if clearAt < 0 {
		t.Fatalf("document.xml missing clearing break")
	}
	if clearAt < strings.Index(body, "JANE DOE") || clearAt > strings.Index(body, "CERTIFICATIONS") {
		t.Error("Expected clearing break at the end of the header paragraph")
	}
	if strings.Count(body, `w:clear="all"`) != 1 {
		t.Error("Expected exactly one clearing break")
	}
}

func TestEncodeEmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, document.Document{})
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	parts := readParts(t, buf.Bytes())
	if !strings.Contains(parts[partDocument], "<w:p/>") {
		t.Error("Expected a placeholder paragraph in an empty body")
	}
}

func TestWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "nested", "dir", "CV_Optimized_ATS.docx")

	err := WriteFile(sampleDocument(), outPath)
	if err != nil {
		t.Fatalf("Failed to write docx: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read written file: %v", err)
	}
	readParts(t, data)

	entries, err := os.ReadDir(filepath.Dir(outPath))
	if err != nil {
		t.Fatalf("Failed to list output dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the output file, found %d entries", len(entries))
	}
}

func TestWriteFileReplacesExisting(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "cv.docx")

	err := os.WriteFile(outPath, []byte("old"), 0600)
	if err != nil {
		t.Fatalf("Failed to create existing file: %v", err)
	}

	err = WriteFile(sampleDocument(), outPath)
	if err != nil {
		t.Fatalf("Failed to write docx: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read written file: %v", err)
	}
	if string(data) == "old" {
		t.Error("Expected existing file to be replaced")
	}
}

func TestWriteFileBadDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "file")

	err := os.WriteFile(blocker, []byte("x"), 0600)
	if err != nil {
		t.Fatalf("Failed to create blocker file: %v", err)
	}

	err = WriteFile(sampleDocument(), filepath.Join(blocker, "cv.docx"))
	if err == nil {
		t.Error("Expected error writing under a regular file, got nil")
	}
}
