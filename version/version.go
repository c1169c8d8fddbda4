package version

// Version is the current dirscout release. Overridden at build time via
// -ldflags "-X dirscout/version.Version=...".
var Version = "0.3.0"
