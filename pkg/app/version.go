package app

import (
	"fmt"
	"strings"

	"github.com/small-frappuccino/discordpager/pkg/util"
)

// Version is the current version of the discordpager package.
const Version = util.Version

var appVersion string

// AppVersion is the version of the application embedding discordpager.
func AppVersion() string {
	return appVersion
}

// SetAppVersion sets the version of the application embedding discordpager.
func SetAppVersion(v string) {
	appVersion = strings.TrimSpace(v)
}

// formatStartupMessage names the application and, when it differs, the
// discordpager version it runs on.
func formatStartupMessage(appName, appVersion, coreVersion string) string {
	appName = strings.TrimSpace(appName)
	appVersion = strings.TrimSpace(appVersion)
	coreVersion = strings.TrimSpace(coreVersion)

	switch {
	case appVersion == "":
		return fmt.Sprintf("🚀 Starting %s (discordpager %s)...", appName, coreVersion)
	case appVersion == coreVersion:
		return fmt.Sprintf("🚀 Starting %s %s...", appName, appVersion)
	default:
		return fmt.Sprintf("🚀 Starting %s %s (discordpager %s)...", appName, appVersion, coreVersion)
	}
}
