package utils

import "testing"

func TestDecodeHexUTF8(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"with prefix", "0x7265616c2d657374617465", "real-estate", false},
		{"without prefix", "7265616c2d657374617465", "real-estate", false},
		{"empty", "0x", "", false},
		{"odd length", "0x123", "", true},
		{"not hex", "0xzz", "", true},
		{"invalid utf8", "0xff", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeHexUTF8(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeHexUTF8() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DecodeHexUTF8() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeUTF8Hex(t *testing.T) {
	encoded := EncodeUTF8Hex("Qm123")
	if encoded != "0x516d313233" {
		t.Errorf("EncodeUTF8Hex() = %q", encoded)
	}
	decoded, err := DecodeHexUTF8(encoded)
	if err != nil || decoded != "Qm123" {
		t.Errorf("round trip = %q, %v", decoded, err)
	}
}
