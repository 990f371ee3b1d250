package core

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1.00", true},
		{"1.0", "1.00", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"1.005", "1.005", true}, // no rounding
		{" 2.50 ", "2.50", true},
		{"-1", "-1.00", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyArithmeticIsExact(t *testing.T) {
	sum := Money{}
	for i := 0; i < 10; i++ {
		sum = sum.Add(MustParseMoney("0.10"))
	}
	if !sum.Equal(MustParseMoney("1")) {
		t.Fatalf("expected 1.00, got %s", sum)
	}
	if got := MustParseMoney("200").Sub(MustParseMoney("50")); got.String() != "150.00" {
		t.Fatalf("expected 150.00, got %s", got)
	}
	if MoneyFromCents(1234).String() != "12.34" {
		t.Fatalf("unexpected cents conversion: %s", MoneyFromCents(1234))
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Money `json:"a"`
	}{A: MustParseMoney("10.5")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"a":10.50}` {
		t.Fatalf("unexpected json %s", b)
	}

	for _, in := range []string{`12.34`, `"12.34"`} {
		var m Money
		if err := json.Unmarshal([]byte(in), &m); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if !m.Equal(MustParseMoney("12.34")) {
			t.Fatalf("unmarshal %s: got %s", in, m)
		}
	}

	var m Money
	if err := json.Unmarshal([]byte(`"twelve"`), &m); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
}

func TestMoneyScanValue(t *testing.T) {
	v, err := MustParseMoney("99.99").Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	var m Money
	if err := m.Scan(v); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if m.String() != "99.99" {
		t.Fatalf("round trip got %s", m)
	}
	if err := m.Scan([]byte("0.30")); err != nil || m.String() != "0.30" {
		t.Fatalf("scan bytes got %s (err=%v)", m, err)
	}
}
