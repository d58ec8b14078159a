package version

import (
	"runtime/debug"
	"testing"
)

func TestResolve(t *testing.T) {
	vcs := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.modified", Value: "true"},
	}

	tests := []struct {
		name        string
		version     string
		commit      string
		info        *debug.BuildInfo
		wantVersion string
		wantCommit  string
	}{
		{
			name:        "ldflags win",
			version:     "v1.2.3",
			commit:      "feedbee",
			info:        &debug.BuildInfo{Main: debug.Module{Version: "v9.9.9"}, Settings: vcs},
			wantVersion: "v1.2.3",
			wantCommit:  "feedbee",
		},
		{
			name:        "module version and dirty revision",
			info:        &debug.BuildInfo{Main: debug.Module{Version: "v0.3.0"}, Settings: vcs},
			wantVersion: "v0.3.0",
			wantCommit:  "0123456-dirty",
		},
		{
			name:        "devel checkout",
			info:        &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			wantVersion: "dev",
			wantCommit:  "unknown",
		},
		{
			name:        "no build info",
			wantVersion: "dev",
			wantCommit:  "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, c := resolve(tt.version, tt.commit, tt.info)
			if v != tt.wantVersion || c != tt.wantCommit {
				t.Errorf("resolve() = %q, %q, want %q, %q", v, c, tt.wantVersion, tt.wantCommit)
			}
		})
	}
}

func TestShort(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "v1.4.0"
	if got := Short(); got != "1.4.0" {
		t.Errorf("Short() = %q, want %q", got, "1.4.0")
	}
}
