package hints

import (
	"strings"
	"testing"
)

// The browser tests use t.Setenv and swap IsInContainer, so none of them
// run in parallel.
func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name        string
		inContainer bool
		env         map[string]string
		wantParts   []string
		absentParts []string
		wantEmpty   bool
	}{
		{
			name: "ci without overrides suggests both vars",
			env:  map[string]string{"CI": "true"},
			wantParts: []string{
				"hint:",
				"ROD_NO_SANDBOX",
				"ROD_BROWSER_BIN",
			},
		},
		{
			name:        "container without overrides suggests sandbox var",
			inContainer: true,
			wantParts:   []string{"ROD_NO_SANDBOX"},
		},
		{
			name:        "sandbox var already set is not repeated",
			inContainer: true,
			env:         map[string]string{"ROD_NO_SANDBOX": "1"},
			absentParts: []string{"ROD_NO_SANDBOX"},
		},
		{
			name:        "browser binary already set is not repeated",
			env:         map[string]string{"ROD_BROWSER_BIN": "/usr/bin/chromium"},
			absentParts: []string{"ROD_BROWSER_BIN"},
		},
		{
			name:        "fully configured environment yields no hint",
			inContainer: true,
			env: map[string]string{
				"CI":              "true",
				"ROD_NO_SANDBOX":  "1",
				"ROD_BROWSER_BIN": "/usr/bin/chromium",
			},
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := IsInContainer
			defer func() { IsInContainer = orig }()
			inContainer := tt.inContainer
			IsInContainer = func() bool { return inContainer }

			for _, key := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "ROD_NO_SANDBOX", "ROD_BROWSER_BIN"} {
				t.Setenv(key, "")
			}
			for key, val := range tt.env {
				t.Setenv(key, val)
			}

			hint := ForBrowserConnect()

			if tt.wantEmpty {
				if hint != "" {
					t.Fatalf("ForBrowserConnect() = %q, want empty", hint)
				}
				return
			}
			for _, part := range tt.wantParts {
				if !strings.Contains(hint, part) {
					t.Errorf("ForBrowserConnect() = %q, missing %q", hint, part)
				}
			}
			for _, part := range tt.absentParts {
				if strings.Contains(hint, part) {
					t.Errorf("ForBrowserConnect() = %q, should not mention %q", hint, part)
				}
			}
		})
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	t.Run("always names the config flag", func(t *testing.T) {
		t.Parallel()

		hint := ForConfigNotFound(nil)
		if !strings.Contains(hint, "--config") {
			t.Errorf("ForConfigNotFound(nil) = %q, want --config mention", hint)
		}
	})

	t.Run("suggests creating the user config", func(t *testing.T) {
		t.Parallel()

		paths := []string{"./md2pdf.yaml", "/home/u/.config/md2pdf/config.yaml"}
		hint := ForConfigNotFound(paths)
		if !strings.Contains(hint, ".config/md2pdf/config.yaml") {
			t.Errorf("ForConfigNotFound(%v) = %q, want user config path", paths, hint)
		}
	})

	t.Run("skips non user paths", func(t *testing.T) {
		t.Parallel()

		hint := ForConfigNotFound([]string{"./md2pdf.yaml"})
		if strings.Contains(hint, "create") {
			t.Errorf("ForConfigNotFound() = %q, should not suggest creating a local file", hint)
		}
	})
}

func TestForKatexAssets(t *testing.T) {
	t.Parallel()

	hint := ForKatexAssets("build/assets")
	for _, part := range []string{"build/assets/katex", "katex.min.css", "auto-render.min.js", "--assets-dir"} {
		if !strings.Contains(hint, part) {
			t.Errorf("ForKatexAssets() = %q, missing %q", hint, part)
		}
	}
}

func TestHintFormatting(t *testing.T) {
	t.Parallel()

	// Every hint appends to an error message, so it must open with a
	// newline and the indented hint: marker.
	for name, hint := range map[string]string{
		"timeout":   ForTimeout(),
		"outputDir": ForOutputDirectory(),
		"katex":     ForKatexAssets("assets"),
		"config":    ForConfigNotFound(nil),
	} {
		if !strings.HasPrefix(hint, "\n  hint: ") {
			t.Errorf("%s hint = %q, want \"\\n  hint: \" prefix", name, hint)
		}
	}

	if got := format(""); got != "" {
		t.Errorf("format(\"\") = %q, want empty", got)
	}
	if got := formatHints(nil); got != "" {
		t.Errorf("formatHints(nil) = %q, want empty", got)
	}
	if got := formatHints([]string{"a", "b"}); got != "\n  hint: a; b" {
		t.Errorf("formatHints() = %q, want joined hint", got)
	}
}

func TestForTimeout(t *testing.T) {
	t.Parallel()

	if hint := ForTimeout(); !strings.Contains(hint, "--timeout") {
		t.Errorf("ForTimeout() = %q, want --timeout mention", hint)
	}
}

func TestForOutputDirectory(t *testing.T) {
	t.Parallel()

	if hint := ForOutputDirectory(); !strings.Contains(hint, "writable") {
		t.Errorf("ForOutputDirectory() = %q, want writability mention", hint)
	}
}
