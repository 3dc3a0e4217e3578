package feed

import "testing"

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{raw: "", want: 1},
		{raw: "1", want: 1},
		{raw: "2", want: 2},
		{raw: "0", want: 1},
		{raw: "-3", want: 1},
		{raw: "abc", want: 1},
		{raw: "2.5", want: 1},
		{raw: "99", want: 99},
	}

	for _, tt := range tests {
		if got := ParsePage(tt.raw); got != tt.want {
			t.Errorf("ParsePage(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		number     int
		wantOffset int
		wantPages  int
		wantNext   bool
		wantPrev   bool
	}{
		{name: "empty", total: 0, number: 1, wantOffset: 0, wantPages: 1},
		{name: "first of two", total: 13, number: 1, wantOffset: 0, wantPages: 2, wantNext: true},
		{name: "last of two", total: 13, number: 2, wantOffset: 10, wantPages: 2, wantPrev: true},
		{name: "beyond end", total: 13, number: 3, wantOffset: 20, wantPages: 2, wantPrev: true},
		{name: "exact multiple", total: 20, number: 2, wantOffset: 10, wantPages: 2, wantPrev: true},
		{name: "clamped", total: 5, number: 0, wantOffset: 0, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, offset := newPage(tt.total, tt.number, 10)
			if offset != tt.wantOffset {
				t.Errorf("offset = %d, want %d", offset, tt.wantOffset)
			}
			if p.NumPages != tt.wantPages {
				t.Errorf("NumPages = %d, want %d", p.NumPages, tt.wantPages)
			}
			if p.HasNext != tt.wantNext || p.HasPrevious != tt.wantPrev {
				t.Errorf("HasNext/HasPrevious = %v/%v, want %v/%v", p.HasNext, p.HasPrevious, tt.wantNext, tt.wantPrev)
			}
			if p.Items == nil {
				t.Error("Items should be empty, not nil")
			}
		})
	}
}
