package pixel

import (
	"errors"
	"testing"
)

func TestTypeProperties(t *testing.T) {
	tests := []struct {
		typ      Type
		size     int
		integral bool
		valid    bool
	}{
		{UINT8, 1, true, true},
		{INT16, 2, true, true},
		{INT32, 4, true, true},
		{FLOAT, 4, false, true},
		{DOUBLE, 8, false, true},
		{Type("FOO"), 0, false, false},
		{Type(""), 0, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.Size(); got != tt.size {
				t.Errorf("Size() = %d, want %d", got, tt.size)
			}
			if got := tt.typ.IsIntegral(); got != tt.integral {
				t.Errorf("IsIntegral() = %v, want %v", got, tt.integral)
			}
			if got := tt.typ.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestTypeOf(t *testing.T) {
	if got := TypeOf[uint8](); got != UINT8 {
		t.Errorf("TypeOf[uint8]() = %s, want %s", got, UINT8)
	}
	if got := TypeOf[int16](); got != INT16 {
		t.Errorf("TypeOf[int16]() = %s, want %s", got, INT16)
	}
	if got := TypeOf[int32](); got != INT32 {
		t.Errorf("TypeOf[int32]() = %s, want %s", got, INT32)
	}
	if got := TypeOf[float32](); got != FLOAT {
		t.Errorf("TypeOf[float32]() = %s, want %s", got, FLOAT)
	}
	if got := TypeOf[float64](); got != DOUBLE {
		t.Errorf("TypeOf[float64]() = %s, want %s", got, DOUBLE)
	}
}

func TestFromSize(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		integral bool
		want     Type
		wantErr  bool
	}{
		{"1-byte integer", 1, true, UINT8, false},
		{"2-byte integer", 2, true, INT16, false},
		{"4-byte integer", 4, true, INT32, false},
		{"4-byte float", 4, false, FLOAT, false},
		{"8-byte float", 8, false, DOUBLE, false},
		{"8-byte integer", 8, true, "", true},
		{"3-byte integer", 3, true, "", true},
		{"2-byte float", 2, false, "", true},
		{"zero width", 0, true, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromSize(tt.size, tt.integral)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedWidth) {
					t.Fatalf("FromSize(%d, %v) error = %v, want ErrUnsupportedWidth",
						tt.size, tt.integral, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromSize(%d, %v) unexpected error: %v", tt.size, tt.integral, err)
			}
			if got != tt.want {
				t.Errorf("FromSize(%d, %v) = %s, want %s", tt.size, tt.integral, got, tt.want)
			}
		})
	}
}

// TestTagWidthAgreement checks the invariant that a tag's width round-trips
// through FromSize.
func TestTagWidthAgreement(t *testing.T) {
	for _, typ := range []Type{UINT8, INT16, INT32, FLOAT, DOUBLE} {
		got, err := FromSize(typ.Size(), typ.IsIntegral())
		if err != nil {
			t.Errorf("FromSize(%d, %v) unexpected error: %v", typ.Size(), typ.IsIntegral(), err)
			continue
		}
		if got != typ {
			t.Errorf("FromSize(%d, %v) = %s, want %s", typ.Size(), typ.IsIntegral(), got, typ)
		}
	}
}
