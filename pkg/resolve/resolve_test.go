package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/codeGROOVE-dev/steamcheck/pkg/steamapi"
)

type fakeVanityResolver struct {
	known map[string]string
	calls int
	err   error
}

func (f *fakeVanityResolver) ResolveVanityURL(_ context.Context, vanity string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	id, ok := f.known[vanity]
	if !ok {
		return "", steamapi.ErrVanityNotFound
	}
	return id, nil
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantErr   error
		wantCalls int
	}{
		{
			name:  "bare steamid64 passes through",
			input: "76561197960287930",
			want:  "76561197960287930",
		},
		{
			name:  "steamid64 with surrounding whitespace",
			input: "  76561197960287930\n",
			want:  "76561197960287930",
		},
		{
			name:  "profiles URL",
			input: "https://steamcommunity.com/profiles/76561197960287930/",
			want:  "76561197960287930",
		},
		{
			name:      "vanity URL",
			input:     "https://steamcommunity.com/id/gaben/",
			want:      "76561197960287930",
			wantCalls: 1,
		},
		{
			name:      "vanity URL with query string",
			input:     "https://steamcommunity.com/id/gaben?l=english",
			want:      "76561197960287930",
			wantCalls: 1,
		},
		{
			name:      "bare vanity name",
			input:     "gaben",
			want:      "76561197960287930",
			wantCalls: 1,
		},
		{
			name:    "empty input",
			input:   "   ",
			wantErr: ErrEmptyInput,
		},
		{
			name:      "unknown vanity",
			input:     "nobody-here",
			wantErr:   ErrNotFound,
			wantCalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeVanityResolver{known: map[string]string{"gaben": "76561197960287930"}}
			r := New(fake)
			got, err := r.Resolve(context.Background(), tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if fake.calls != tt.wantCalls {
				t.Errorf("provider calls = %d, want %d", fake.calls, tt.wantCalls)
			}
		})
	}
}

// Resolving a resolver's own output must be the identity function.
func TestResolveIdempotent(t *testing.T) {
	fake := &fakeVanityResolver{known: map[string]string{"gaben": "76561197960287930"}}
	r := New(fake)

	first, err := r.Resolve(context.Background(), "gaben")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := r.Resolve(context.Background(), first)
	if err != nil {
		t.Fatalf("Resolve of resolved ID: %v", err)
	}
	if second != first {
		t.Errorf("second resolution = %q, want %q", second, first)
	}
	if fake.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (no lookup for a SteamID64)", fake.calls)
	}
}

// Upstream failures must surface unchanged so the boundary can classify them.
func TestResolvePropagatesAPIErrors(t *testing.T) {
	apiErr := &steamapi.APIError{
		Endpoint:   steamapi.EndpointResolveVanity,
		StatusCode: 429,
		Kind:       steamapi.KindRateLimited,
	}
	r := New(&fakeVanityResolver{err: apiErr})

	_, err := r.Resolve(context.Background(), "someone")
	var got *steamapi.APIError
	if !errors.As(err, &got) {
		t.Fatalf("Resolve error = %v, want *steamapi.APIError", err)
	}
	if got.Kind != steamapi.KindRateLimited {
		t.Errorf("Kind = %v, want KindRateLimited", got.Kind)
	}
}
