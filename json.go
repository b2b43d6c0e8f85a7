package gviz

// ToJSON returns the complete JSON text of b with keys sorted. Dates are
// written as date literals and non-finite numbers as null, so encoding cannot
// fail.
func (b *Bag) ToJSON() string {
	data, err := CurrentJSONDriver().Marshal(b.wire())
	if err != nil {
		return "{}"
	}
	return string(data)
}

// ToJSONIndent is ToJSON with indentation.
func (b *Bag) ToJSONIndent(indent string) string {
	data, err := CurrentJSONDriver().MarshalIndent(b.wire(), "", indent)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// String implements fmt.Stringer.
func (b *Bag) String() string { return b.ToJSON() }

// MarshalJSON implements json.Marshaler.
func (b *Bag) MarshalJSON() ([]byte, error) {
	return CurrentJSONDriver().Marshal(b.wire())
}

// UnmarshalJSON implements json.Unmarshaler, replacing the content of b.
func (b *Bag) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	b.entries = parsed.entries
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return CurrentJSONDriver().Marshal(v.wire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
