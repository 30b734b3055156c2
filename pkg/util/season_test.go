package util

import "testing"

func TestParseSeasonLabel(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2016-17", 2016},
		{"2099-00", 2099},
		{"2016-2017", 2016},
		{"2020", 2020},
		{" 2021-22 ", 2021},
	}
	for _, tt := range tests {
		got, err := ParseSeasonLabel(tt.in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("%q: got %d want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseSeasonLabelInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "16-17", "2016-19", "2016-", "2016-2018"} {
		if _, err := ParseSeasonLabel(in); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestSeasonLabel(t *testing.T) {
	if got := SeasonLabel(2016); got != "2016-17" {
		t.Fatalf("unexpected label %s", got)
	}
	if got := SeasonLabel(2099); got != "2099-00" {
		t.Fatalf("unexpected label %s", got)
	}
}

func TestParseIntDefault(t *testing.T) {
	if ParseIntDefault("", 7) != 7 || ParseIntDefault("x", 7) != 7 || ParseIntDefault("12", 7) != 12 || ParseIntDefault(" 12 ", 7) != 12 {
		t.Fatalf("unexpected ParseIntDefault result")
	}
}
