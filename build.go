//go:build ignore

// build.go - insarmap Build System
// Usage: go run build.go [-target=TARGET]
// Targets: build, test, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	module  = "insarmap"
	version = "1.0.0"
)

// BuildContext holds configuration for the build process
type BuildContext struct {
	Verbose bool
	Version string
	Commit  string
}

var (
	distDir = "dist"

	// Release platforms as GOOS/GOARCH
	releaseTargets = []string{
		"linux/amd64",
		"linux/arm64",
		"darwin/arm64",
		"windows/amd64",
	}

	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
)

func main() {
	target := flag.String("target", "build", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	ver := flag.String("version", version, "Version stamped into the binary")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	buildCtx := &BuildContext{
		Verbose: *verbose,
		Version: *ver,
		Commit:  gitCommit(),
	}

	switch *target {
	case "build":
		buildBinary(buildCtx, runtime.GOOS, runtime.GOARCH)
	case "test":
		runTests(buildCtx.Verbose)
	case "clean":
		clean()
	case "release":
		for _, platform := range releaseTargets {
			parts := strings.SplitN(platform, "/", 2)
			buildBinary(buildCtx, parts[0], parts[1])
		}
	default:
		showHelp()
		os.Exit(1)
	}

	duration := time.Since(startTime)
	printSuccess(fmt.Sprintf("Build completed in %s", duration.Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "        insarmap - Build System            " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

// gitCommit returns the short HEAD hash, or "unknown" outside a git checkout
func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

// Build the CLI for one platform
func buildBinary(ctx *BuildContext, goos, goarch string) {
	exeName := module
	if goos != runtime.GOOS || goarch != runtime.GOARCH {
		exeName = fmt.Sprintf("%s-%s-%s", module, goos, goarch)
	}
	if goos == "windows" {
		exeName += ".exe"
	}

	printInfo(fmt.Sprintf("Building %s for %s/%s...", module, goos, goarch))

	outputPath := filepath.Join(distDir, exeName)
	ldflags := fmt.Sprintf("-s -w -X %s/internal/config.Version=%s -X main.commit=%s -X main.buildDate=%s",
		module, ctx.Version, ctx.Commit, time.Now().UTC().Format(time.RFC3339))

	args := []string{"build", "-trimpath", "-ldflags", ldflags, "-o", outputPath, "./cmd/insarmap"}
	if ctx.Verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
	}

	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(), "GOOS="+goos, "GOARCH="+goarch, "CGO_ENABLED=0")
	if ctx.Verbose {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", exeName, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		sizeMB := float64(info.Size()) / 1024 / 1024
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", exeName, sizeMB))
	}
}

// Run tests
func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

// Clean build artifacts and logs
func clean() {
	printInfo("Cleaning build artifacts and logs...")
	for _, dir := range []string{distDir, "logs"} {
		if err := os.RemoveAll(dir); err != nil {
			printError(fmt.Sprintf("Failed to clean %s: %v", dir, err))
		}
	}
	printSuccess("Build artifacts cleaned")
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v] [-version=VERSION]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  build             Build insarmap for this platform (default)")
	fmt.Println("  test              Run all tests")
	fmt.Println("  clean             Remove dist/ and logs/")
	fmt.Println("  release           Cross-compile insarmap for all release platforms")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v                Verbose output")
	fmt.Println("  -version          Version stamped into the binary")
}
