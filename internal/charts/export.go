package charts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/xeipuuv/gojsonschema"
)

// Export formats accepted by Encode.
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

//go:embed spec.schema.json
var specSchema []byte

// Encode writes specs to w as indented JSON or msgpack. JSON output is
// checked against the embedded schema before anything is written.
func Encode(w io.Writer, specs []Spec, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		data, err := json.MarshalIndent(specs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal chart specs: %w", err)
		}
		if err := ValidateJSON(data); err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("write chart specs: %w", err)
		}
		return nil
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		if err := enc.Encode(specs); err != nil {
			return fmt.Errorf("encode chart specs as msgpack: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown export format %q (want %q or %q)", format, FormatJSON, FormatMsgpack)
	}
}

// Decode reads specs previously written by Encode.
func Decode(r io.Reader, format string) ([]Spec, error) {
	var specs []Spec
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read chart specs: %w", err)
		}
		if err := ValidateJSON(data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &specs); err != nil {
			return nil, fmt.Errorf("decode chart specs: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&specs); err != nil {
			return nil, fmt.Errorf("decode chart specs as msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown export format %q (want %q or %q)", format, FormatJSON, FormatMsgpack)
	}
	return specs, nil
}

// ValidateJSON checks an encoded spec list against the embedded schema.
func ValidateJSON(data []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(specSchema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("chart specs failed validation: %s", strings.Join(details, "; "))
}
