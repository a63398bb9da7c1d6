package util

import (
	"strings"
	"testing"
	"time"
)

func TestFormatPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		price    int64
		expected string
	}{
		{name: "zero", price: 0, expected: "₹0"},
		{name: "hundreds", price: 999, expected: "₹999"},
		{name: "thousands", price: 1500, expected: "₹1,500"},
		{name: "lakh", price: 123456, expected: "₹1,23,456"},
		{name: "ten lakh", price: 1234567, expected: "₹12,34,567"},
		{name: "crore", price: 10000000, expected: "₹1,00,00,000"},
		{name: "negative", price: -2000, expected: "-₹2,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatPrice(tt.price); got != tt.expected {
				t.Fatalf("FormatPrice(%d) = %s, want %s", tt.price, got, tt.expected)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		expected string
	}{
		{in: "9876543210", expected: "+919876543210"},
		{in: "+919876543210", expected: "+919876543210"},
		{in: " 9876543210 ", expected: "+919876543210"},
		{in: "", expected: ""},
	}

	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.expected {
			t.Fatalf("NormalizePhone(%q) = %s, want %s", tt.in, got, tt.expected)
		}
	}
}

func TestChecksum(t *testing.T) {
	t.Parallel()

	got, err := Checksum(strings.NewReader("abc"))
	if err != nil {
		t.Fatalf("Checksum returned error: %v", err)
	}
	if want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"; got != want {
		t.Fatalf("Checksum = %s, want %s", got, want)
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "zero bytes", bytes: 0, expected: "0 B"},
		{name: "bytes under kilobyte", bytes: 512, expected: "512 B"},
		{name: "exact kilobyte", bytes: 1024, expected: "1.0 KB"},
		{name: "fractional kilobyte", bytes: 1536, expected: "1.5 KB"},
		{name: "megabyte", bytes: 1024 * 1024, expected: "1.0 MB"},
		{name: "gigabyte", bytes: 5 * 1024 * 1024 * 1024, expected: "5.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatBytes(tt.bytes); got != tt.expected {
				t.Fatalf("FormatBytes(%d) = %s, want %s", tt.bytes, got, tt.expected)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{name: "under one minute", duration: 45 * time.Second, expected: "45s"},
		{name: "rounded second to minute", duration: 59*time.Second + 500*time.Millisecond, expected: "1m0s"},
		{name: "minutes and seconds", duration: 2*time.Minute + 30*time.Second, expected: "2m30s"},
		{name: "hours and minutes", duration: time.Hour + 30*time.Minute, expected: "1h30m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatDuration(tt.duration); got != tt.expected {
				t.Fatalf("FormatDuration(%s) = %s, want %s", tt.duration, got, tt.expected)
			}
		})
	}
}
