package chart

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/reoring/gviz"
)

// Format is a serialization of a wrapper specification.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	}
	return "", false
}

// FindFormatByName accepts json, yaml, yml and toml.
func FindFormatByName(name string) (Format, bool) {
	return FormatFromPath("x." + name)
}

// DecodeSpec reads a specification in the given format.
func DecodeSpec(data []byte, f Format) (Spec, error) {
	var (
		b   *gviz.Bag
		err error
	)
	switch f {
	case FormatJSON:
		b, err = gviz.ParseJSON(data)
	case FormatYAML:
		b, err = gviz.ParseYAML(data)
	case FormatTOML:
		b, err = gviz.ParseTOML(data)
	default:
		return Spec{}, errors.Newf("unknown format %q", f)
	}
	if err != nil {
		return Spec{}, err
	}
	return SpecFromBag(b)
}

// EncodeSpec writes a specification in the given format.
func EncodeSpec(s Spec, f Format) ([]byte, error) {
	b, err := s.ToBag()
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatJSON:
		return []byte(b.ToJSONIndent("  ") + "\n"), nil
	case FormatYAML:
		return b.ToYAML()
	case FormatTOML:
		return b.ToTOML()
	}
	return nil, errors.Newf("unknown format %q", f)
}

// ReadSpecFile reads a specification file; the extension selects the format.
func ReadSpecFile(path string) (Spec, error) {
	f, ok := FormatFromPath(path)
	if !ok {
		return Spec{}, errors.WithHint(errors.Newf("unsupported file %s", path), "use .json, .yaml, .yml or .toml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, errors.Wrap(err, "read spec")
	}
	s, err := DecodeSpec(data, f)
	if err != nil {
		return Spec{}, errors.Wrapf(err, "decode %s", path)
	}
	return s, nil
}

// WriteSpecFile writes a specification file in the format of its extension.
func WriteSpecFile(path string, s Spec) error {
	f, ok := FormatFromPath(path)
	if !ok {
		return errors.WithHint(errors.Newf("unsupported file %s", path), "use .json, .yaml, .yml or .toml")
	}
	data, err := EncodeSpec(s, f)
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write spec")
}
