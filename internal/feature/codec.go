package feature

import (
	"context"
	"fmt"
)

// Encoder adapts a typed encode function to EncodeFunc. Values of any other
// type are rejected with ErrInvalidArgument; a pointer to T is accepted.
func Encoder[T any](fn func(ctx context.Context, value T) ([]byte, error)) EncodeFunc {
	return func(ctx context.Context, value any) ([]byte, error) {
		switch v := value.(type) {
		case T:
			return fn(ctx, v)
		case *T:
			if v != nil {
				return fn(ctx, *v)
			}
		}
		var zero T
		return nil, fmt.Errorf("%w: expected %T, got %T", ErrInvalidArgument, zero, value)
	}
}

// Decoder adapts a typed decode function to DecodeFunc.
func Decoder[T any](fn func(data []byte) (T, error)) DecodeFunc {
	return func(data []byte) (any, error) {
		return fn(data)
	}
}

// ReadAs reads characteristic key through ops and asserts the decoded type.
func ReadAs[T any](ctx context.Context, ops *Operations, key string) (T, error) {
	var zero T
	v, err := ops.Read(ctx, key)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%s/%s: decoded %T, want %T", ops.Name(), key, v, zero)
	}
	return typed, nil
}
