package ingestion

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>Skills</w:t></w:r></w:p>
<w:p><w:r><w:t>Go,</w:t></w:r><w:r><w:t xml:space="preserve"> Kubernetes</w:t></w:r></w:p>
</w:body>
</w:document>`

const testRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func buildDocx(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"word/document.xml":            testDocumentXML,
		"word/_rels/document.xml.rels": testRelsXML,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractText_Docx(t *testing.T) {
	text, err := ExtractText("resume.DOCX", buildDocx(t))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSkills\nGo, Kubernetes", text)
}

func TestExtractText_UnsupportedExtension(t *testing.T) {
	_, err := ExtractText("resume.txt", []byte("hello"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestExtractText_Empty(t *testing.T) {
	_, err := ExtractText("resume.pdf", nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestExtractText_CorruptPDF(t *testing.T) {
	_, err := ExtractText("resume.pdf", []byte("definitely not a pdf"))
	assert.Error(t, err)
}

func TestStripDocxXML(t *testing.T) {
	got := stripDocxXML(`<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t></w:r></w:p><w:p><w:r><w:t>c</w:t><w:br/><w:t>d</w:t></w:r></w:p>`)
	assert.Equal(t, "a\tb\nc\nd", got)
}

func TestNewMetadata(t *testing.T) {
	m, err := NewMetadata("uploads/My Resume.PDF", []byte("abc"))
	require.NoError(t, err)

	assert.Equal(t, "My Resume.PDF", m.FileName)
	assert.Equal(t, ExtPDF, m.Extension)
	assert.Equal(t, MimePDF, m.MimeType)
	assert.Equal(t, int64(3), m.SizeBytes)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", m.Hash)
}

func TestNewMetadata_Errors(t *testing.T) {
	_, err := NewMetadata("resume.exe", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = NewMetadata("resume.docx", nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}
