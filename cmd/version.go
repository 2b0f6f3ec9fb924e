package cmd

import (
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/s0up4200/mgctl/config"
)

const repositorySlug = "s0up4200/mgctl"

var (
	appVersion   = "dev"
	appBuildTime = "unknown"

	checkLatest bool
)

// SetVersion records the build metadata injected by main
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
	rootCmd.Version = version
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print the version",
	Args:              cobra.NoArgs,
	PersistentPreRunE: initializeLogger,
	RunE:              runVersion,
}

var updateCmd = &cobra.Command{
	Use:               "update",
	Short:             "Update mgctl to the latest release",
	Args:              cobra.NoArgs,
	PersistentPreRunE: initializeLogger,
	RunE:              runUpdate,
}

func init() {
	versionCmd.Flags().BoolVar(&checkLatest, "check", false, "check for a newer release")
}

// initializeLogger sets up console logging for commands that run without a config
func initializeLogger(cmd *cobra.Command, args []string) error {
	level := "info"
	if debug {
		level = "debug"
	}
	logger = setupLogger(config.LoggingConfig{Level: level, Format: "console", Color: true})
	return nil
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Printf("mgctl %s (built %s)\n", appVersion, appBuildTime)

	if !checkLatest {
		return nil
	}

	current, err := parseVersion(appVersion)
	if err != nil {
		return err
	}

	latest, found, err := selfupdate.DetectLatest(cmd.Context(), selfupdate.ParseSlug(repositorySlug))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found || latest.LessOrEqual(current.String()) {
		fmt.Println("✓ You are running the latest version.")
		return nil
	}

	fmt.Printf("A newer version is available: %s\n", latest.Version())
	fmt.Println("Run 'mgctl update' to install it.")
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	current, err := parseVersion(appVersion)
	if err != nil {
		return err
	}

	logger.Info().Str("current", current.String()).Msg("Checking for updates...")

	latest, found, err := selfupdate.DetectLatest(cmd.Context(), selfupdate.ParseSlug(repositorySlug))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", repositorySlug)
	}
	if latest.LessOrEqual(current.String()) {
		fmt.Println("✓ You are running the latest version.")
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	if err := selfupdate.UpdateTo(cmd.Context(), latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}

	fmt.Printf("✓ Updated to %s\n", latest.Version())
	if latest.ReleaseNotes != "" {
		fmt.Fprintf(os.Stdout, "\nRelease notes:\n%s\n", latest.ReleaseNotes)
	}
	return nil
}

// parseVersion rejects development builds, which cannot be compared to releases
func parseVersion(v string) (semver.Version, error) {
	if v == "dev" {
		return semver.Version{}, fmt.Errorf("cannot check for updates on a development build")
	}
	parsed, err := semver.ParseTolerant(v)
	if err != nil {
		return semver.Version{}, fmt.Errorf("invalid version %q: %w", v, err)
	}
	return parsed, nil
}
