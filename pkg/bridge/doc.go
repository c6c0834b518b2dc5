// Package bridge makes the cameras of one host usable from another.
//
// A Server wraps a local backend.Module and answers wire requests from
// remote clients. Each device is owned by the connection that opened it;
// other connections get StatusAlreadyOpen until the owner closes it or
// disconnects. Driver events and download progress are pushed to the
// owner as notifications.
//
// On the client side, Module and Driver implement backend.Module and
// backend.Driver over a Client, so a bridged camera is registered with a
// camera.Instance like any local SDK:
//
//	module := bridge.NewModule("", bridge.DefaultClientConfig("studio:15741"))
//	inst.RegisterModule(module)
//
// Driver calls carry no context; they are bounded by the client's request
// timeout.
package bridge
