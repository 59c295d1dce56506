package errors

import (
	"fmt"
	"testing"
)

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"plain registered error": {
			err:      ErrNonce,
			wantCode: ErrNonce.ABCICode(),
			wantLog:  "nonce mismatch",
		},
		"wrapped registered error": {
			err:      Wrap(ErrUnauthorized, "threshold not reached"),
			wantCode: ErrUnauthorized.ABCICode(),
			wantLog:  "threshold not reached: unauthorized",
		},
		"nil is success": {
			err:      nil,
			wantCode: SuccessABCICode,
			wantLog:  "",
		},
		"stdlib error is redacted": {
			err:      fmt.Errorf("secret detail"),
			wantCode: internalABCICode,
			wantLog:  internalABCILog,
		},
		"stdlib error is visible in debug": {
			err:      fmt.Errorf("secret detail"),
			debug:    true,
			wantCode: internalABCICode,
			wantLog:  "secret detail",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want code %d, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want log %q, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(ErrPanic.New("stack"), false); ErrPanic.Is(err) {
		t.Fatal("panic must be redacted")
	}
	if err := Redact(ErrPanic.New("stack"), true); !ErrPanic.Is(err) {
		t.Fatal("debug mode must not redact")
	}
	if err := Redact(ErrNotFound, false); !ErrNotFound.Is(err) {
		t.Fatal("registered errors must not be redacted")
	}
}

func TestABCIError(t *testing.T) {
	if err := ABCIError(SuccessABCICode, ""); err != nil {
		t.Fatalf("success code produced %v", err)
	}

	err := ABCIError(ErrNonce.ABCICode(), "replayed")
	if !ErrNonce.Is(err) {
		t.Fatalf("want nonce error, got %v", err)
	}
	if code, _ := ABCIInfo(err, false); code != ErrNonce.ABCICode() {
		t.Fatalf("want code %d, got %d", ErrNonce.ABCICode(), code)
	}

	err = ABCIError(987654, "custom")
	if code, _ := ABCIInfo(err, false); code != 987654 {
		t.Fatalf("want code 987654, got %d", code)
	}
	if ErrNotFound.Is(err) {
		t.Fatal("unknown code matched a registered error")
	}
}
