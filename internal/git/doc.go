// Package git reads source-control metadata of the project being built.
package git
