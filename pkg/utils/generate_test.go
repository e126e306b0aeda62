package utils

import (
	"strconv"
	"strings"
	"testing"
)

func TestGenerateOTP_SixDigitsInRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP failed: %v", err)
		}

		if len(code) != 6 {
			t.Fatalf("Expected 6 digits, got %q", code)
		}
		if code[0] == '0' {
			t.Fatalf("Code must not start with zero, got %q", code)
		}

		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("Code %q is not numeric: %v", code, err)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("Code %d out of range", n)
		}
	}
}

func TestGenerateSlug(t *testing.T) {
	slug := GenerateSlug("  How to Treat a Burn ")

	if !strings.HasPrefix(slug, "how-to-treat-a-burn-") {
		t.Errorf("Unexpected slug prefix: %q", slug)
	}

	suffix := strings.TrimPrefix(slug, "how-to-treat-a-burn-")
	if len(suffix) != 5 {
		t.Errorf("Expected 5 char suffix, got %q", suffix)
	}
	if strings.ToLower(suffix) != suffix {
		t.Errorf("Suffix should be lowercase, got %q", suffix)
	}

	if GenerateSlug("Burns") == GenerateSlug("Burns") {
		t.Error("Two slugs for the same title should differ")
	}
}
