package gviz

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ParseYAML parses a YAML mapping into a Bag. Date literal strings become
// dates, as do timestamps the decoder returns as time.Time.
func ParseYAML(data []byte) (*Bag, error) {
	var node any
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&node); err != nil {
		return nil, singleIssue(CodeParseError, "/", err.Error())
	}
	v := fromWire(node)
	b, ok := v.AsObject()
	if !ok {
		return nil, singleIssue(CodeInvalidType, "/", "expected mapping, got "+v.Kind().String())
	}
	return b, nil
}

// ToYAML renders b as YAML. Dates are written as date literals so the output
// parses back to the same bag.
func (b *Bag) ToYAML() ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(b.wire()); err != nil {
		return nil, errors.Wrap(err, "gviz: encode yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "gviz: encode yaml")
	}
	return buf.Bytes(), nil
}
