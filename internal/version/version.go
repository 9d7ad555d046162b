package version

import "runtime/debug"

// Version is overridden at build time with
// -ldflags "-X github.com/bnema/odoo-worksheet-cli/internal/version.Version=v1.2.3".
var Version = "dev"

// String appends the short VCS revision when the binary was stamped with one.
func String() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
			return Version + " (" + setting.Value[:7] + ")"
		}
	}

	return Version
}
