// Package backend defines the capability a vendor camera SDK exposes to
// the control layer.
//
// A Driver is the raw device I/O of one opened camera: property bytes,
// enumeration cursors, shutter trigger, object download and live-view
// polling. The control layer never assumes a Driver is reentrant or safe
// for concurrent use; it makes at most one call at a time per device.
//
// Drivers report asynchronous activity (property changes, object ready,
// release failures) through the function passed to RegisterEventCallback.
// That function may be invoked from any goroutine, including SDK owned
// threads.
//
// A Module lists the devices reachable through one SDK and creates
// drivers for them. Modules are registered with camera.Instance.
//
// Vendor status codes are preserved verbatim in *Error. Use errors.Is
// with ErrNotSupported to test for the not-supported condition regardless
// of the reporting component.
package backend
