// Package preview serves a built site locally and rebuilds it when inputs
// change.
//
// Rebuilds are always full builds. Filesystem events are debounced and all
// rebuild requests, including periodic ones, pass through a single worker so
// two builds never write the output tree at the same time. Pages are not
// reloaded in the browser.
package preview
