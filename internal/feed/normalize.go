package feed

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	itemTag       = "itemList"
	resultCodeTag = "resultCode"
	resultMsgTag  = "resultMsg"
	successCode   = "0"
)

// Normalize parses a raw feed payload into records. The document-level result
// code is checked before any items are surfaced: a provider-reported error
// yields ErrRemoteAPI no matter how many item elements the payload carries.
// A well-formed success payload with zero items returns an empty slice.
func Normalize(raw []byte) ([]Record, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "feed: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	var (
		records    []Record
		resultCode string
		resultMsg  string
		codeSeen   bool
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapKind(ErrMalformedResponse, err, "feed: parse response")
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case itemTag:
			rec, err := decodeItem(decoder, se)
			if err != nil {
				return nil, wrapKind(ErrMalformedResponse, err, "feed: parse item")
			}
			records = append(records, rec)
		case resultCodeTag:
			text, err := elementText(decoder, se)
			if err != nil {
				return nil, wrapKind(ErrMalformedResponse, err, "feed: parse result code")
			}
			resultCode = text
			codeSeen = true
		case resultMsgTag:
			text, err := elementText(decoder, se)
			if err != nil {
				return nil, wrapKind(ErrMalformedResponse, err, "feed: parse result message")
			}
			resultMsg = text
		}
	}

	if codeSeen && resultCode != successCode {
		return nil, &RemoteAPIError{Code: resultCode, Message: resultMsg}
	}

	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// decodeItem reads one item element and builds a record from its children.
// Empty or whitespace-only child text never becomes a field.
func decodeItem(decoder *xml.Decoder, start xml.StartElement) (Record, error) {
	rec := Record{}
	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			text, err := elementText(decoder, t)
			if err != nil {
				return nil, err
			}
			if v, ok := coerceValue(text); ok {
				rec[t.Name.Local] = v
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return rec, nil
			}
		}
	}
}

// elementText collects the character data of an element up to its end tag.
func elementText(decoder *xml.Decoder, start xml.StartElement) (string, error) {
	var buf bytes.Buffer
	depth := 0
	for {
		tok, err := decoder.Token()
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.CharData:
			if depth == 0 {
				buf.Write(t)
			}
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return buf.String(), nil
			}
			depth--
		}
	}
}
