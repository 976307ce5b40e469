package pipeline_test

import (
	"context"
	"testing"

	"github.com/caojiachen1/md2pdf/internal/pipeline"
)

func TestPreprocessMarkdown(t *testing.T) {
	t.Parallel()

	preprocessor := &pipeline.CommonMarkPreprocessor{}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "CRLF normalized",
			input: "line1\r\nline2\r\nline3",
			want:  "line1\nline2\nline3",
		},
		{
			name:  "bare CR normalized",
			input: "line1\rline2",
			want:  "line1\nline2",
		},
		{
			name:  "triple blank lines compressed",
			input: "para1\n\n\n\npara2",
			want:  "para1\n\npara2",
		},
		{
			name:  "double newline preserved",
			input: "para1\n\npara2",
			want:  "para1\n\npara2",
		},
		{
			name:  "mixed endings and blanks",
			input: "a\r\n\r\n\r\n\r\nb",
			want:  "a\n\nb",
		},
		{
			name:  "already clean",
			input: "# Title\n\nBody text.",
			want:  "# Title\n\nBody text.",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := preprocessor.PreprocessMarkdown(context.Background(), tt.input)
			if got != tt.want {
				t.Errorf("PreprocessMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPreprocessMarkdown_Idempotent(t *testing.T) {
	t.Parallel()

	preprocessor := &pipeline.CommonMarkPreprocessor{}
	input := "a\r\n\r\n\r\nb\rc"

	once := preprocessor.PreprocessMarkdown(context.Background(), input)
	twice := preprocessor.PreprocessMarkdown(context.Background(), once)

	if once != twice {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
}

func TestPreprocessMarkdown_CanceledContext(t *testing.T) {
	t.Parallel()

	preprocessor := &pipeline.CommonMarkPreprocessor{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := "a\r\nb"
	got := preprocessor.PreprocessMarkdown(ctx, input)

	if got != input {
		t.Errorf("PreprocessMarkdown() = %q, want unchanged on canceled context", got)
	}
}
