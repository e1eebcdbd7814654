package pagination

import (
	"context"
	"errors"
	"math"
	"net/http/httptest"
	"testing"
)

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// queryNumbers pages through 1..total with Query, fetching from memory.
func queryNumbers(t *testing.T, total, page, size int) Page[int] {
	t.Helper()
	source := numbers(total)
	p, err := Query(context.Background(), page, size,
		func(ctx context.Context) (int, error) { return len(source), nil },
		func(ctx context.Context, offset, limit int) ([]int, error) {
			if offset < 0 {
				t.Fatalf("negative offset %d", offset)
			}
			start := min(offset, len(source))
			end := min(start+limit, len(source))
			return source[start:end], nil
		},
	)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	return p
}

func TestQueryPages(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		page, size  int
		wantItems   int
		wantPages   int
		wantNext    bool
		wantPrev    bool
		wantFirst   int
		wantPageNum int
	}{
		{name: "first page of 25", total: 25, page: 1, size: 10, wantItems: 10, wantPages: 3, wantNext: true, wantPrev: false, wantFirst: 1, wantPageNum: 1},
		{name: "middle page of 25", total: 25, page: 2, size: 10, wantItems: 10, wantPages: 3, wantNext: true, wantPrev: true, wantFirst: 11, wantPageNum: 2},
		{name: "last page of 25", total: 25, page: 3, size: 10, wantItems: 5, wantPages: 3, wantNext: false, wantPrev: true, wantFirst: 21, wantPageNum: 3},
		{name: "empty source", total: 0, page: 1, size: 10, wantItems: 0, wantPages: 0, wantNext: false, wantPrev: false, wantPageNum: 1},
		{name: "page past the end", total: 5, page: 4, size: 10, wantItems: 0, wantPages: 1, wantNext: false, wantPrev: true, wantPageNum: 4},
		{name: "page zero clamps to first", total: 25, page: 0, size: 10, wantItems: 10, wantPages: 3, wantNext: true, wantPrev: false, wantFirst: 1, wantPageNum: 1},
		{name: "negative page clamps to first", total: 25, page: -3, size: 10, wantItems: 10, wantPages: 3, wantNext: true, wantPrev: false, wantFirst: 1, wantPageNum: 1},
		{name: "exact multiple", total: 20, page: 2, size: 10, wantItems: 10, wantPages: 2, wantNext: false, wantPrev: true, wantFirst: 11, wantPageNum: 2},
		{name: "huge page is capped", total: 25, page: math.MaxInt, size: MaxSize, wantItems: 0, wantPages: 1, wantNext: false, wantPrev: true, wantPageNum: MaxPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := queryNumbers(t, tt.total, tt.page, tt.size)

			if len(p.Items) != tt.wantItems {
				t.Errorf("items: got %d, want %d", len(p.Items), tt.wantItems)
			}
			if p.TotalCount != tt.total {
				t.Errorf("total count: got %d, want %d", p.TotalCount, tt.total)
			}
			if p.TotalPages != tt.wantPages {
				t.Errorf("total pages: got %d, want %d", p.TotalPages, tt.wantPages)
			}
			if p.HasNext != tt.wantNext {
				t.Errorf("has next: got %v, want %v", p.HasNext, tt.wantNext)
			}
			if p.HasPrevious != tt.wantPrev {
				t.Errorf("has previous: got %v, want %v", p.HasPrevious, tt.wantPrev)
			}
			if p.PageNumber != tt.wantPageNum {
				t.Errorf("page number: got %d, want %d", p.PageNumber, tt.wantPageNum)
			}
			if tt.wantItems > 0 && p.Items[0] != tt.wantFirst {
				t.Errorf("first item: got %d, want %d", p.Items[0], tt.wantFirst)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{100, 20, 5},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name               string
		page, size         int
		wantPage, wantSize int
	}{
		{name: "valid", page: 2, size: 20, wantPage: 2, wantSize: 20},
		{name: "zero page", page: 0, size: 20, wantPage: 1, wantSize: 20},
		{name: "zero size", page: 1, size: 0, wantPage: 1, wantSize: DefaultSize},
		{name: "negative size", page: 1, size: -5, wantPage: 1, wantSize: DefaultSize},
		{name: "oversized", page: 1, size: 1000, wantPage: 1, wantSize: MaxSize},
		{name: "page past int range", page: math.MaxInt, size: 10, wantPage: MaxPage, wantSize: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, s := Normalize(tt.page, tt.size)
			if p != tt.wantPage || s != tt.wantSize {
				t.Errorf("got (%d, %d), want (%d, %d)", p, s, tt.wantPage, tt.wantSize)
			}
		})
	}
}

func TestOffsetNeverOverflows(t *testing.T) {
	for _, size := range []int{1, DefaultSize, MaxSize} {
		page, size := Normalize(math.MaxInt, size)
		if off := Offset(page, size); off < 0 {
			t.Errorf("Offset(%d, %d) = %d, want non-negative", page, size, off)
		}
	}
}

func TestQuery(t *testing.T) {
	source := numbers(25)
	var gotOffset, gotLimit int

	page, err := Query(context.Background(), 3, 10,
		func(ctx context.Context) (int, error) { return len(source), nil },
		func(ctx context.Context, offset, limit int) ([]int, error) {
			gotOffset, gotLimit = offset, limit
			end := offset + limit
			if end > len(source) {
				end = len(source)
			}
			return source[offset:end], nil
		},
	)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if gotOffset != 20 || gotLimit != 10 {
		t.Errorf("fetch called with offset=%d limit=%d, want 20/10", gotOffset, gotLimit)
	}
	if len(page.Items) != 5 || page.HasNext || !page.HasPrevious {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestQueryPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := Query(context.Background(), 1, 10,
		func(ctx context.Context) (int, error) { return 0, boom },
		func(ctx context.Context, offset, limit int) ([]int, error) { return nil, nil },
	)
	if !errors.Is(err, boom) {
		t.Errorf("count error: got %v", err)
	}

	_, err = Query(context.Background(), 1, 10,
		func(ctx context.Context) (int, error) { return 3, nil },
		func(ctx context.Context, offset, limit int) ([]int, error) { return nil, boom },
	)
	if !errors.Is(err, boom) {
		t.Errorf("fetch error: got %v", err)
	}
}

func TestNewNeverReturnsNilItems(t *testing.T) {
	p := New[string](nil, 1, 10, 0)
	if p.Items == nil {
		t.Error("Items should be an empty slice, not nil")
	}
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name               string
		query              string
		wantPage, wantSize int
		wantErr            bool
	}{
		{name: "defaults", query: "", wantPage: 1, wantSize: 20},
		{name: "explicit", query: "pageNumber=3&pageSize=5", wantPage: 3, wantSize: 5},
		{name: "zero page clamped", query: "pageNumber=0", wantPage: 1, wantSize: 20},
		{name: "huge size capped", query: "pageSize=5000", wantPage: 1, wantSize: MaxSize},
		{name: "huge page capped", query: "pageNumber=1152921504606846977&pageSize=10", wantPage: MaxPage, wantSize: 10},
		{name: "non numeric page", query: "pageNumber=abc", wantErr: true},
		{name: "non numeric size", query: "pageSize=x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/contact?"+tt.query, nil)
			page, size, err := ParseQuery(r, 20)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page != tt.wantPage || size != tt.wantSize {
				t.Errorf("got (%d, %d), want (%d, %d)", page, size, tt.wantPage, tt.wantSize)
			}
		})
	}
}
