package repository

import "testing"

func TestPaginationOptions_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   PaginationOptions
		want PaginationOptions
	}{
		{"zero value", PaginationOptions{}, PaginationOptions{Page: 1, Limit: 20, SortBy: "created_at", SortDir: -1}},
		{"kept", PaginationOptions{Page: 3, Limit: 50, SortBy: "title", SortDir: 1}, PaginationOptions{Page: 3, Limit: 50, SortBy: "title", SortDir: 1}},
		{"limit too large", PaginationOptions{Page: 1, Limit: 500, SortBy: "title", SortDir: -1}, PaginationOptions{Page: 1, Limit: 20, SortBy: "title", SortDir: -1}},
		{"negative page", PaginationOptions{Page: -2, Limit: 10, SortDir: 7}, PaginationOptions{Page: 1, Limit: 10, SortBy: "created_at", SortDir: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDefaultPaginationOptions(t *testing.T) {
	opts := DefaultPaginationOptions()
	if opts != opts.Normalize() {
		t.Errorf("DefaultPaginationOptions() = %+v is not normalized", opts)
	}
}
