package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSanitizeAPIKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		apiKey string
		want   string
	}{
		{
			name:   "empty key",
			apiKey: "",
			want:   "",
		},
		{
			name:   "short key fully redacted",
			apiKey: "sk-12345",
			want:   RedactedValue,
		},
		{
			name:   "long key keeps edges",
			apiKey: "sk-abcdefghijklmnop",
			want:   "sk-a" + RedactedValue + "mnop",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeAPIKey(tt.apiKey); got != tt.want {
				t.Errorf("SanitizeAPIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizePrompt(t *testing.T) {
	t.Parallel()

	t.Run("strips control characters", func(t *testing.T) {
		t.Parallel()
		got := SanitizePrompt("hello\x00world\x1b[31m", false)
		if strings.ContainsRune(got, 0) || strings.ContainsRune(got, 0x1b) {
			t.Errorf("control characters not removed: %q", got)
		}
	})

	t.Run("keeps newlines and tabs", func(t *testing.T) {
		t.Parallel()
		got := SanitizePrompt("line one\n\tline two", false)
		if got != "line one\n\tline two" {
			t.Errorf("SanitizePrompt() = %q", got)
		}
	})

	t.Run("truncates previews", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("a", MaxPreviewLength+50)
		got := SanitizePrompt(long, false)
		if len(got) != MaxPreviewLength+3 {
			t.Errorf("preview length = %d, want %d", len(got), MaxPreviewLength+3)
		}
		if !strings.HasSuffix(got, "...") {
			t.Error("truncated preview should end with ellipsis")
		}
	})

	t.Run("full log allows longer content", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("a", MaxPreviewLength+50)
		got := SanitizePrompt(long, true)
		if len(got) != len(long) {
			t.Errorf("full log length = %d, want %d", len(got), len(long))
		}
	})
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("TruncateString() = %q, want unchanged", got)
	}
	if got := TruncateString("0123456789abc", 10); got != "0123456789..." {
		t.Errorf("TruncateString() = %q", got)
	}
}

func TestExtractSessionID(t *testing.T) {
	t.Parallel()

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		if got := ExtractSessionID(context.Background()); got != "" {
			t.Errorf("ExtractSessionID() = %q, want empty", got)
		}
	})

	t.Run("uuid value", func(t *testing.T) {
		t.Parallel()
		id := uuid.New()
		ctx := context.WithValue(context.Background(), SessionIDContextKey(), id)
		if got := ExtractSessionID(ctx); got != id.String() {
			t.Errorf("ExtractSessionID() = %q, want %q", got, id)
		}
	})

	t.Run("string value", func(t *testing.T) {
		t.Parallel()
		ctx := context.WithValue(context.Background(), SessionIDContextKey(), "abc")
		if got := ExtractSessionID(ctx); got != "abc" {
			t.Errorf("ExtractSessionID() = %q, want abc", got)
		}
	})
}

func TestExtractRequestID(t *testing.T) {
	t.Parallel()

	if got := ExtractRequestID(context.Background()); got != "" {
		t.Errorf("ExtractRequestID() = %q, want empty", got)
	}

	ctx := context.WithValue(context.Background(), RequestIDContextKey(), "req-1")
	if got := ExtractRequestID(ctx); got != "req-1" {
		t.Errorf("ExtractRequestID() = %q, want req-1", got)
	}
}
