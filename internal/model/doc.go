// Package model defines the data passed from the scanner to the report writers.
//
// A ScanResult groups findings under labelled categories and remembers the
// order in which categories were created. A Report binds one ScanResult to
// the keyword it was produced for and the time it was generated.
package model
