// Package build runs a complete site build.
//
// A Builder executes the stages of one build in order: prepare the output
// root, render each configured content category, then copy static assets.
// The first failing stage aborts the build; files already written stay in
// place. Every run is a full pass with no state carried between runs.
package build
