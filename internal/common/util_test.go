package common

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestMakeRandHexString(t *testing.T) {
	t.Parallel()

	s, err := MakeRandHexString(16)
	if err != nil {
		t.Fatalf("MakeRandHexString error: %v", err)
	}
	if len(s) != 32 {
		t.Fatalf("length: got %d want 32", len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		t.Fatalf("result is not valid hex: %v", err)
	}

	other, err := MakeRandHexString(16)
	if err != nil {
		t.Fatalf("MakeRandHexString error: %v", err)
	}
	if s == other {
		t.Fatalf("two random keys collided: %q", s)
	}
}

func TestGenerateRandByteArray(t *testing.T) {
	t.Parallel()

	a, err := GenerateRandByteArray(32)
	if err != nil {
		t.Fatalf("GenerateRandByteArray error: %v", err)
	}
	if len(a) != 32 {
		t.Fatalf("length: got %d want 32", len(a))
	}

	b, err := GenerateRandByteArray(32)
	if err != nil {
		t.Fatalf("GenerateRandByteArray error: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("two random salts are identical")
	}
}

func TestWipeByteArray(t *testing.T) {
	t.Parallel()

	buf := []byte{0xfe, 0xe9, 0x00, 0x42}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %d, want 0", i, v)
		}
	}

	WipeByteArray(nil)
}
