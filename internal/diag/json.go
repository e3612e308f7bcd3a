package diag

import (
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ToJSON renders a sink's messages as a JSON array, the structured
// counterpart to the human "[severity][line:col]: text" format. Built
// field-by-field with sjson.Set rather than encoding/json/Marshal, matching
// the tidwall/gjson-family approach the rest of the ecosystem in this
// pack's dependency graph favors for ad hoc JSON construction.
func ToJSON(s *Sink) ([]byte, error) {
	doc := "[]"
	var err error
	for i, m := range s.messages {
		doc, err = sjson.Set(doc, itoaPath(i, "severity"), m.Severity.String())
		if err != nil {
			return nil, err
		}
		doc, err = sjson.Set(doc, itoaPath(i, "text"), m.Text)
		if err != nil {
			return nil, err
		}
		if m.HasSpan {
			doc, err = sjson.Set(doc, itoaPath(i, "line"), m.Span.Start.Line)
			if err != nil {
				return nil, err
			}
			doc, err = sjson.Set(doc, itoaPath(i, "column"), m.Span.Start.Column)
			if err != nil {
				return nil, err
			}
			if m.Span.File != nil {
				doc, err = sjson.Set(doc, itoaPath(i, "file"), m.Span.File.Name)
				if err != nil {
					return nil, err
				}
			}
		}
	}
	return pretty.Pretty([]byte(doc)), nil
}

func itoaPath(i int, field string) string {
	return "" + indexString(i) + "." + field
}

func indexString(i int) string {
	// sjson accepts array indices as plain decimal path segments.
	const digits = "0123456789"
	if i == 0 {
		return "0"
	}
	buf := make([]byte, 0, 4)
	for i > 0 {
		buf = append([]byte{digits[i%10]}, buf...)
		i /= 10
	}
	return string(buf)
}
