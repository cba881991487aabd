package main

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"hostsmod/internal/hostsfile"
)

const dryRunBanner = "DRY-RUN DRY-RUN DRY-RUN DRY-RUN DRY-RUN DRY-RUN DRY-RUN DRY-RUN DRY-RUN DRY-RUN"

// printInfo prints an info message
func printInfo(format string, args ...interface{}) {
	fmt.Fprintf(output, format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(output, format, args...)
	}
}

// report prints the outcome of a run. res may be nil if the hosts file
// could not be read.
func report(path string, res *hostsfile.Result, err error) {
	if res == nil {
		return
	}
	show := dryRun || verbose

	if show {
		printInfo("original contents:\n>>>\n%s<<<\n", res.Original)
	}
	if err != nil {
		return
	}

	if !res.Changed && !res.Written && !dryRun {
		printInfo("no changes, not modifying hosts file\n")
		return
	}

	if show {
		printInfo("generated:\n>>>\n%s<<<\n", res.Generated)
		printInfo("%s", unifiedDiff(path, res.Original, res.Generated))
	}

	switch {
	case dryRun:
		printInfo("%s\nhosts file not modified\n", dryRunBanner)
	case res.Written:
		printInfo("hosts file updated\n")
	}
}

// unifiedDiff returns the changes between two versions of the hosts file,
// or an empty string if there are none
func unifiedDiff(path, original, generated string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(generated),
		FromFile: path,
		ToFile:   path + " (generated)",
		Context:  3,
	})
	if err != nil {
		return fmt.Sprintf("unable to compute diff: %v\n", err)
	}
	if diff != "" && !strings.HasSuffix(diff, "\n") {
		diff += "\n"
	}
	return diff
}
