package gviz

import "context"

// Codec converts between a wire representation A and a domain representation
// B. Implementations live in the codec package.
type Codec[A, B any] interface {
	Decode(ctx context.Context, a A) (B, error) // wire -> domain
	Encode(ctx context.Context, b B) (A, error) // domain -> wire
}

// Decode is a thin wrapper over Codec.Decode.
func Decode[A, B any](ctx context.Context, c Codec[A, B], a A) (B, error) {
	return c.Decode(ctx, a)
}

// Encode is a thin wrapper over Codec.Encode.
func Encode[A, B any](ctx context.Context, c Codec[A, B], b B) (A, error) {
	return c.Encode(ctx, b)
}

// SafeDecode decodes a, returning (zero, false) on error.
func SafeDecode[A, B any](ctx context.Context, c Codec[A, B], a A) (B, bool) {
	v, err := c.Decode(ctx, a)
	if err != nil {
		var zero B
		return zero, false
	}
	return v, true
}
