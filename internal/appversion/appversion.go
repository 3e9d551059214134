// Package appversion discovers the version of the host application, the
// value every migration task window is checked against.
package appversion

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/slok/migrator/internal/semver"
)

// Provider returns the current application version.
type Provider interface {
	AppVersion(ctx context.Context) (semver.Version, error)
}

// ProviderFunc is a helper to create a Provider from a function.
type ProviderFunc func(ctx context.Context) (semver.Version, error)

// AppVersion satisfies Provider.
func (f ProviderFunc) AppVersion(ctx context.Context) (semver.Version, error) { return f(ctx) }

// Static returns a provider that parses a fixed version string, a leading "v"
// is accepted. Parse errors are returned on every call.
func Static(version string) Provider {
	return ProviderFunc(func(_ context.Context) (semver.Version, error) {
		return parse(version)
	})
}

// BuildInfo returns a provider that reads the main module version embedded
// by the Go toolchain in the running binary.
func BuildInfo() Provider {
	return buildInfo(debug.ReadBuildInfo)
}

func buildInfo(read func() (*debug.BuildInfo, bool)) Provider {
	return ProviderFunc(func(_ context.Context) (semver.Version, error) {
		info, ok := read()
		if !ok || info == nil {
			return semver.Version{}, fmt.Errorf("build info not available")
		}
		if info.Main.Version == "" || info.Main.Version == "(devel)" {
			return semver.Version{}, fmt.Errorf("main module version not set: %q", info.Main.Version)
		}
		return parse(info.Main.Version)
	})
}

func parse(version string) (semver.Version, error) {
	v, err := semver.Parse(strings.TrimPrefix(strings.TrimSpace(version), "v"))
	if err != nil {
		return semver.Version{}, fmt.Errorf("could not parse app version: %w", err)
	}
	return v, nil
}
