package encoding

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testState struct {
	ID    int64    `msgpack:"id"`
	Name  string   `msgpack:"name"`
	Flag  bool     `msgpack:"flag"`
	Items []string `msgpack:"items,omitempty"`
}

func tamper(token string) string {
	b := []byte(token)
	if b[0] == 'A' {
		b[0] = 'B'
	} else {
		b[0] = 'A'
	}
	return string(b)
}

func TestNewEncoder(t *testing.T) {
	if _, err := NewEncoder([]byte("short")); err != nil {
		t.Fatalf("NewEncoder with short key failed: %v", err)
	}
	if _, err := NewEncoder([]byte("this-is-a-32-byte-key-for-aes!!!")); err != nil {
		t.Fatalf("NewEncoder with 32-byte key failed: %v", err)
	}
	if _, err := NewEncoder([]byte("a-key-that-is-much-longer-than-thirty-two-bytes")); err != nil {
		t.Fatalf("NewEncoder with long key failed: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	original := testState{ID: 12345, Name: "cart", Flag: true, Items: []string{"a", "b"}}

	for _, sensitive := range []bool{false, true} {
		token, err := enc.Encode(original, sensitive)
		if err != nil {
			t.Fatalf("Encode(sensitive=%v) failed: %v", sensitive, err)
		}

		var decoded testState
		if err := enc.Decode(token, sensitive, &decoded); err != nil {
			t.Fatalf("Decode(sensitive=%v) failed: %v", sensitive, err)
		}
		if diff := cmp.Diff(original, decoded); diff != "" {
			t.Errorf("round trip (sensitive=%v) mismatch (-want +got):\n%s", sensitive, diff)
		}
	}
}

func TestSignatureVerificationFailure(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	token, err := enc.Encode(testState{ID: 123, Name: "test"}, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var decoded testState
	err = enc.Decode(tamper(token), false, &decoded)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Decode(tampered) error = %v, want ErrSignatureInvalid", err)
	}
}

func TestDecryptionFailure(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	token, err := enc.Encode(testState{ID: 123, Name: "test"}, true)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var decoded testState
	err = enc.Decode(tamper(token), true, &decoded)
	if !errors.Is(err, ErrDecryptFailed) {
		t.Errorf("Decode(tampered) error = %v, want ErrDecryptFailed", err)
	}
}

func TestInvalidFormat(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	var decoded testState
	err := enc.Decode("invalidbase64withoutseparator", false, &decoded)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Decode() error = %v, want ErrInvalidFormat", err)
	}
}

func TestDifferentKeysCannotDecode(t *testing.T) {
	enc1, _ := NewEncoder([]byte("key-one"))
	enc2, _ := NewEncoder([]byte("key-two"))

	token, err := enc1.Encode(testState{ID: 123}, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var decoded testState
	if err := enc2.Decode(token, false, &decoded); err == nil {
		t.Error("expected error when decoding with a different key")
	}
}
