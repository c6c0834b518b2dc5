// Package liveview serves a camera viewfinder over HTTP.
//
// Routes:
//
//	GET /healthz            liveness probe
//	GET /stream.mjpg        multipart MJPEG stream of viewfinder frames
//	GET /snapshot.jpg       the latest frame
//	GET /histogram/:channel luminance, red, green or blue histogram
//	GET /properties         image properties with display text
//
// Frames reach the server through the viewfinder's image handler and are
// fanned out to every connected stream. Slow clients skip frames.
package liveview
