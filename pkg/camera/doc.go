// Package camera is the consumer surface of the camera control layer.
//
// An Instance holds backend modules and profiles. Opening a descriptor
// yields a Device, which owns the driver, a single-goroutine executor that
// serializes every driver call, and a mailbox goroutine that turns driver
// callbacks into subscriber notifications.
//
// # Release control
//
// EnterReleaseControl starts a RemoteReleaseControl session. Release is
// asynchronous; the session moves through Idle, Releasing and
// Transferring and reports download progress as Started, InProgress and
// Finished events. A failed release moves to Error, which is reported by
// State until the next release starts. StartBulb opens the shutter for a
// bulb exposure with the camera UI locked.
//
// # Viewfinder
//
// StartViewfinder turns on the PC live-view output. Setting a frame
// handler polls the driver on the device executor; clearing it returns
// once the executor has delivered its last frame.
//
// # Threading
//
// Property handlers run on the mailbox goroutine. State, download and
// finished-transfer handlers run in order on an event goroutine of the
// release control. Both may call back into the device. Frame handlers run
// on the device executor and must not call blocking methods of the same
// device.
package camera
