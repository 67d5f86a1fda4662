// Package report renders scan reports.
//
// Three writers implement the Writer interface:
//   - SimpleWriter: the plain text report printed to the terminal or saved to a file
//   - MarkdownWriter: a Markdown document for sharing
//   - JSONWriter: structured output for other tools
//
// Render returns the plain text report as a string; SimpleWriter writes
// exactly that string.
package report
