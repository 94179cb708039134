package config

import "testing"

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"":      LogWarn,
		"warn":  LogWarn,
		"OFF":   LogOff,
		"Error": LogError,
		"info":  LogInfo,
		"debug": LogDebug,
		"huh":   LogWarn,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestEditorOrDefaultFallsBack(t *testing.T) {
	t.Setenv("EDITOR", "")
	if got := editorOrDefault(); got != defaultEditor {
		t.Errorf("editorOrDefault() = %q, want %q", got, defaultEditor)
	}
	t.Setenv("EDITOR", "  nvim  ")
	if got := editorOrDefault(); got != "nvim" {
		t.Errorf("editorOrDefault() = %q, want trimmed %q", got, "nvim")
	}
}

func TestEnvFlagSetIsNonEmptyConvention(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	if envFlagSet("NO_COLOR") {
		t.Error("empty NO_COLOR should not be set")
	}
	t.Setenv("NO_COLOR", "1")
	if !envFlagSet("NO_COLOR") {
		t.Error("non-empty NO_COLOR should be set")
	}
}
