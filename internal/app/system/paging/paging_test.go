package paging

import (
	"errors"
	"net/http/httptest"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    Window
		wantErr bool
	}{
		{"defaults", "/api/profiles", Window{Skip: 0, Limit: DefaultLimit}, false},
		{"explicit", "/api/profiles?skip=20&limit=50", Window{Skip: 20, Limit: 50}, false},
		{"max limit", "/api/profiles?limit=100", Window{Skip: 0, Limit: 100}, false},
		{"limit too large", "/api/profiles?limit=101", Window{}, true},
		{"limit zero", "/api/profiles?limit=0", Window{}, true},
		{"negative skip", "/api/profiles?skip=-1", Window{}, true},
		{"non-numeric", "/api/profiles?skip=abc", Window{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(httptest.NewRequest("GET", tt.target, nil))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWindow) {
					t.Errorf("Parse() err = %v, want ErrInvalidWindow", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestWindow_FindOptions(t *testing.T) {
	opts := Window{Skip: 5, Limit: 7}.FindOptions()
	if opts.Skip == nil || *opts.Skip != 5 {
		t.Errorf("Skip = %v, want 5", opts.Skip)
	}
	if opts.Limit == nil || *opts.Limit != 7 {
		t.Errorf("Limit = %v, want 7", opts.Limit)
	}
}
