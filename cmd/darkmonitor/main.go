// Package main provides the entry point for the darkmonitor CLI.
//
// darkmonitor routes its traffic through a local Tor daemon, verifies that
// the route is anonymized, searches for a keyword and prints a report.
//
// Usage:
//
//	darkmonitor <keyword>
//	darkmonitor <keyword> -o reports/acme.txt
//	darkmonitor init
//
// See --help for all available options.
package main

// main is the entry point for darkmonitor.
func main() {
	Execute()
}
