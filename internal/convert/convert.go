// Package convert turns PDF and XML files into Base64 text and back.
package convert

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the document type a conversion works on.
type Kind string

const (
	KindPDF Kind = "pdf"
	KindXML Kind = "xml"
)

var (
	ErrUnknownKind   = errors.New("unsupported document kind")
	ErrEmptyInput    = errors.New("input is empty")
	ErrInvalidBase64 = errors.New("input is not valid base64")
	ErrNotText       = errors.New("decoded content is not valid UTF-8 text")
)

const (
	warnNotPDF       = "the file does not look like a PDF"
	warnNotXML       = "the file does not look like XML"
	warnMalformedXML = "the content was decoded but is not well-formed XML"
)

var pdfMagic = []byte("%PDF-")

// ParseKind validates a kind name such as "pdf" or "XML".
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindPDF, KindXML:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Extension returns the file extension for the kind, with the leading dot.
func (k Kind) Extension() string {
	return "." + string(k)
}

// ContentType is the MIME type of a decoded document.
func (k Kind) ContentType() string {
	if k == KindPDF {
		return "application/pdf"
	}
	return "application/xml; charset=utf-8"
}

// DefaultFilename is used for decoded documents.
func (k Kind) DefaultFilename() string {
	if k == KindPDF {
		return "document.pdf"
	}
	return "converted.xml"
}

// Encoded is the Base64 form of an uploaded file.
type Encoded struct {
	Base64   string
	Filename string
	Size     int
	Warnings []string
}

// Decoded is a document recovered from Base64.
type Decoded struct {
	Kind     Kind
	Data     []byte
	Filename string
	Warnings []string
}

// Text returns the decoded document as a string. Only meaningful for XML.
func (d Decoded) Text() string {
	return string(d.Data)
}

// EncodeFile encodes data as standard padded Base64. A file whose name and
// content do not match kind is still encoded, with a warning.
func EncodeFile(kind Kind, filename string, data []byte) (Encoded, error) {
	if len(data) == 0 {
		return Encoded{}, ErrEmptyInput
	}

	var warnings []string
	if !looksLike(kind, filename, data) {
		warnings = append(warnings, mismatchWarning(kind))
	}

	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "converted" + kind.Extension()
	}

	return Encoded{
		Base64:   base64.StdEncoding.EncodeToString(data),
		Filename: name + ".txt",
		Size:     len(data),
		Warnings: warnings,
	}, nil
}

// DecodeBase64 decodes input back into a document. A data URI prefix
// ("data:application/pdf;base64,") and embedded whitespace are tolerated.
func DecodeBase64(kind Kind, input string) (Decoded, error) {
	payload := strings.TrimSpace(input)
	if i := strings.Index(payload, ","); i >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[i+1:]
	}
	payload = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, payload)
	if payload == "" {
		return Decoded{}, ErrEmptyInput
	}

	data, err := decodeStd(payload)
	if err != nil {
		return Decoded{}, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}

	out := Decoded{Kind: kind, Data: data, Filename: kind.DefaultFilename()}

	switch kind {
	case KindXML:
		if !utf8.Valid(data) {
			return Decoded{}, ErrNotText
		}
		if !WellFormedXML(data) {
			out.Warnings = append(out.Warnings, warnMalformedXML)
		}
	case KindPDF:
		if !bytes.HasPrefix(data, pdfMagic) {
			out.Warnings = append(out.Warnings, warnNotPDF)
		}
	}

	return out, nil
}

// decodeStd decodes standard Base64, accepting input whose trailing '=' padding was dropped.
func decodeStd(payload string) ([]byte, error) {
	if len(payload)%4 != 0 && !strings.HasSuffix(payload, "=") {
		return base64.RawStdEncoding.DecodeString(payload)
	}
	return base64.StdEncoding.DecodeString(payload)
}

// WellFormedXML reports whether data parses as a single well-formed XML document.
func WellFormedXML(data []byte) bool {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true

	depth, roots := 0, 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return roots == 1 && depth == 0
		}
		if err != nil {
			return false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return false
			}
		}
	}
}

func looksLike(kind Kind, filename string, data []byte) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	switch kind {
	case KindPDF:
		return ext == ".pdf" || bytes.HasPrefix(data, pdfMagic)
	case KindXML:
		trimmed := bytes.TrimLeft(data, "\uFEFF \t\r\n")
		return ext == ".xml" || bytes.HasPrefix(trimmed, []byte("<"))
	}
	return false
}

func mismatchWarning(kind Kind) string {
	if kind == KindPDF {
		return warnNotPDF
	}
	return warnNotXML
}
