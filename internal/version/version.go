package version

// Version is overridden at build time with -ldflags "-X kmputil/internal/version.Version=...".
var Version = "1.1.0"
