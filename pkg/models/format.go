package models

import (
	"fmt"
	"strings"
)

// Format selects the serialization of query results. It drives the Accept
// header sent to the endpoint.
type Format string

const (
	FormatText Format = "txt"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXML  Format = "xml"

	DefaultFormat = FormatText
)

var Formats = []Format{FormatText, FormatJSON, FormatCSV, FormatXML}

// AcceptHeader returns the media type requested for f. Unknown values fall
// back to text/plain.
func (f Format) AcceptHeader() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatXML:
		return "text/xml"
	default:
		return "text/plain"
	}
}

func (f Format) String() string {
	return string(f)
}

// ParseFormat is used by user-facing inputs. An empty value selects the
// default format.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultFormat, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %s (expected one of txt, json, csv, xml)", s)
}
