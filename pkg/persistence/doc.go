// Package persistence stores per-camera release settings in a JSON file.
//
// Settings are keyed by camera model and serial number, so a camera picks
// up its save target, download directory and shooting properties again
// when it is reopened. Property values are kept as raw backend values
// under their neutral property names.
package persistence
