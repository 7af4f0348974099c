package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stamp(t *testing.T, version, commit, branch, buildTime string) {
	t.Helper()
	origVersion, origCommit, origBranch, origBuildTime := Version, GitCommit, GitBranch, BuildTime
	t.Cleanup(func() {
		Version, GitCommit, GitBranch, BuildTime = origVersion, origCommit, origBranch, origBuildTime
	})
	Version, GitCommit, GitBranch, BuildTime = version, commit, branch, buildTime
}

func TestGetDefaults(t *testing.T) {
	stamp(t, "dev", "", "", "")

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev should not be a release")
	}
}

func TestGetStamped(t *testing.T) {
	stamp(t, "1.0.0", "abc1234def", "main", "2024-01-15T10:30:00Z")

	info := Get()
	if !info.IsRelease {
		t.Error("1.0.0 should be a release")
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("expected commit shortened to 'abc1234', got %q", info.GitCommit)
	}
	if info.BuildDate.Year() != 2024 {
		t.Errorf("expected build year 2024, got %d", info.BuildDate.Year())
	}
}

func TestDirtyVersionIsNotRelease(t *testing.T) {
	stamp(t, "1.0.0-dirty", "", "", "")
	if Get().IsRelease {
		t.Error("dirty version should not be a release")
	}
}

func TestApplyVCS(t *testing.T) {
	info := &Info{}
	applyVCS(info, []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.time", Value: "2025-03-01T08:00:00Z"},
	})
	if info.GitCommit != "0123456789" || !info.IsDirty || info.BuildTime != "2025-03-01T08:00:00Z" {
		t.Errorf("unexpected info %+v", info)
	}

	stamped := &Info{GitCommit: "fixed", BuildTime: "x"}
	applyVCS(stamped, []debug.BuildSetting{{Key: "vcs.revision", Value: "other"}, {Key: "vcs.time", Value: "2025-03-01T08:00:00Z"}})
	if stamped.GitCommit != "fixed" || stamped.BuildTime != "x" {
		t.Errorf("link-time values must win, got %+v", stamped)
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"no commit", Info{Version: "dev"}, "dev"},
		{"commit", Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{"dirty", Info{Version: "1.0.0", GitCommit: "abc1234", IsDirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.info.Short(); got != tc.want {
				t.Errorf("Short() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	stamp(t, "1.0.0", "abc1234", "feature/new-thing", "2024-01-15T10:30:00Z")

	s := Get().String()
	for _, want := range []string{"1.0.0-abc1234", "(feature/new-thing)", "built 2024-01-15T10:30:00Z"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in %q", want, s)
		}
	}

	stamp(t, "1.0.0", "abc1234", "main", "")
	if strings.Contains(Get().String(), "main") {
		t.Error("main branch should not appear")
	}
}
