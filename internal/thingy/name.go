package thingy

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/vitaminmoo/thingy-tool/internal/feature"
)

// MaxNameLength is the longest advertising name the device accepts.
const MaxNameLength = 10

// Name is the decoded value of the device name characteristic.
type Name struct {
	Name string `json:"name"`
}

// NameService reads and writes the advertised device name.
type NameService struct {
	ops *feature.Operations
}

// NewNameService creates the name feature on top of transport t.
func NewNameService(t feature.Transport) *NameService {
	s := &NameService{}
	s.ops = feature.NewOperations("name", t, feature.Service{UUID: TCSUUID}, map[string]feature.Characteristic{
		"default": {
			UUID:   TCSNameUUID,
			Decode: feature.Decoder(s.DecodeName),
			Encode: feature.Encoder(func(_ context.Context, text string) ([]byte, error) {
				return s.EncodeName(text)
			}),
		},
	})
	return s
}

// Operations exposes the descriptor table for registration and exploration.
func (s *NameService) Operations() *feature.Operations {
	return s.ops
}

// DecodeName interprets the whole payload as UTF-8 text.
func (s *NameService) DecodeName(data []byte) (Name, error) {
	return Name{Name: strings.ToValidUTF8(string(data), "\uFFFD")}, nil
}

// EncodeName packs text one byte per UTF-16 code unit, keeping only the low
// byte of each, so names are expected to be ASCII. Characters outside the
// BMP take two code units and count twice against MaxNameLength.
func (s *NameService) EncodeName(text string) ([]byte, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: the name is not valid UTF-8", feature.ErrInvalidArgument)
	}
	units := utf16.Encode([]rune(text))
	if len(units) > MaxNameLength {
		return nil, fmt.Errorf("%w: the name can't be more than %d characters long", feature.ErrInvalidArgument, MaxNameLength)
	}

	encoded := make([]byte, len(units))
	for i, u := range units {
		encoded[i] = byte(u & 0xff)
	}
	return encoded, nil
}

// Get reads the current device name.
func (s *NameService) Get(ctx context.Context) (Name, error) {
	return feature.ReadAs[Name](ctx, s.ops, "default")
}

// Set writes a new device name. The device applies it on the next advertisement.
func (s *NameService) Set(ctx context.Context, text string) error {
	return s.ops.Write(ctx, text, "default")
}
