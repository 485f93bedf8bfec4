// Package content turns a directory of Markdown files into rendered HTML pages.
//
// A Processor lists the content files of one category, orders them newest
// first, and for each file parses frontmatter, renders the Markdown body,
// substitutes the result into the category template and writes
// <outputDir>/<slug>.html. It returns one Summary per file in output order.
package content
