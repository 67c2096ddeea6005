package misc

import "testing"

func TestGetAppName(t *testing.T) {
	t.Run("from executable", func(t *testing.T) {
		if name := GetAppName(); name == "" {
			t.Error("GetAppName() returned empty name")
		}
	})

	t.Run("overwritten", func(t *testing.T) {
		saved := appName
		defer func() { appName = saved }()

		appName = "colorsonly"
		if name := GetAppName(); name != "colorsonly" {
			t.Errorf("GetAppName() = %q, want %q", name, "colorsonly")
		}
	})
}

func TestVersionDefaults(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion() returned empty string")
	}
	if GetGitHash() == "" {
		t.Error("GetGitHash() returned empty string")
	}
}
