package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/transport"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/wire"
)

// session is the server side of one client connection.
type session struct {
	server *Server
	conn   *transport.ServerConn
}

// errInvalidPayload marks a request whose payload could not be decoded.
var errInvalidPayload = errors.New("invalid payload")

// handle decodes one frame and sends the response.
func (sess *session) handle(data []byte) {
	typ, err := wire.PeekMessageType(data)
	if err != nil {
		sess.respond(&wire.Response{
			Status: wire.StatusInvalidParameter,
			Error:  &wire.ErrorPayload{Message: "invalid CBOR: " + err.Error()},
		})
		return
	}
	if typ != wire.MessageTypeRequest {
		sess.server.debug("ignoring message", slog.String("type", typ.String()))
		return
	}

	req, err := wire.DecodeRequest(data)
	if err != nil {
		sess.respond(&wire.Response{
			Status: wire.StatusInvalidOperation,
			Error:  &wire.ErrorPayload{Message: err.Error()},
		})
		return
	}

	resp := sess.dispatch(req)
	resp.MessageID = req.MessageID
	sess.server.debug("request handled",
		slog.String("conn", sess.conn.ConnID()),
		slog.Any("messageID", req.MessageID),
		slog.String("op", req.Operation.String()),
		slog.String("device", req.Device),
		slog.String("status", resp.Status.String()))
	sess.respond(resp)
}

func (sess *session) dispatch(req *wire.Request) *wire.Response {
	switch req.Operation {
	case wire.OpEnumerate:
		ctx, cancel := context.WithTimeout(context.Background(), sess.server.config.EnumerateTimeout)
		defer cancel()
		descs, err := sess.server.config.Module.Enumerate(ctx)
		if err != nil {
			return failure(err)
		}
		return success(descs)

	case wire.OpOpen:
		info, status, err := sess.server.open(sess, req.Device)
		if status != wire.StatusSuccess {
			return &wire.Response{Status: status, Error: wire.ErrorPayloadOf(err)}
		}
		return success(info)
	}

	dev, status := sess.server.owned(sess, req.Device)
	if status != wire.StatusSuccess {
		return &wire.Response{
			Status: status,
			Error:  &wire.ErrorPayload{Message: fmt.Sprintf("device %q is not open", req.Device)},
		}
	}

	if req.Operation == wire.OpClose {
		if err := sess.server.closeDevice(dev); err != nil {
			return failure(err)
		}
		return success(nil)
	}

	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.closed {
		return &wire.Response{Status: wire.StatusNotOpen}
	}

	result, err := sess.call(dev.driver, req)
	if err != nil {
		return failure(err)
	}
	return success(result)
}

// call runs one driver operation. The device lock is held.
func (sess *session) call(driver backend.Driver, req *wire.Request) (any, error) {
	switch req.Operation {
	case wire.OpInfo:
		return driver.Info(), nil

	case wire.OpPropertyIDs:
		return driver.PropertyIDs()

	case wire.OpPropertyInfos:
		return driver.PropertyInfos()

	case wire.OpGetProperty:
		var p wire.PropertyPayload
		if err := decode(req, &p); err != nil {
			return nil, err
		}
		data, err := driver.GetProperty(p.ID)
		if err != nil {
			return nil, err
		}
		return wire.DataPayload{Data: data}, nil

	case wire.OpSetProperty:
		var p wire.PropertyPayload
		if err := decode(req, &p); err != nil {
			return nil, err
		}
		return nil, driver.SetProperty(p.ID, p.Data)

	case wire.OpEnumerateProperty:
		var p wire.PropertyPayload
		if err := decode(req, &p); err != nil {
			return nil, err
		}
		return drain(driver, p.ID)

	case wire.OpTriggerRelease:
		return nil, driver.TriggerRelease()

	case wire.OpSendCommand:
		var p wire.CommandPayload
		if err := decode(req, &p); err != nil {
			return nil, err
		}
		return nil, driver.SendCommand(p.Command, p.Param)

	case wire.OpDownload:
		var obj backend.ObjectInfo
		if err := decode(req, &obj); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		err := driver.Download(obj, &buf, func(percent uint) {
			sess.notify(&wire.Notification{
				Device:   req.Device,
				Progress: &wire.Progress{Handle: obj.Handle, Percent: percent},
			})
		})
		if err != nil {
			return nil, err
		}
		return wire.DataPayload{Data: buf.Bytes()}, nil

	case wire.OpCancelDownload:
		var obj backend.ObjectInfo
		if err := decode(req, &obj); err != nil {
			return nil, err
		}
		return nil, driver.CancelDownload(obj)

	case wire.OpPollLiveView:
		frame, err := driver.PollLiveViewFrame()
		if err != nil {
			return nil, err
		}
		return wire.DataPayload{Data: frame}, nil

	case wire.OpReadHistogram:
		var p wire.HistogramPayload
		if err := decode(req, &p); err != nil {
			return nil, err
		}
		data, err := driver.ReadHistogram(p.Channel)
		if err != nil {
			return nil, err
		}
		return wire.DataPayload{Data: data}, nil
	}
	return nil, fmt.Errorf("%w: %s", errInvalidPayload, req.Operation)
}

// drain reads an enumeration cursor into a payload.
func drain(driver backend.Driver, id uint32) (wire.EnumeratePayload, error) {
	cursor, err := driver.EnumerateProperty(id)
	if err != nil {
		return wire.EnumeratePayload{}, err
	}
	defer cursor.Close()

	out := wire.EnumeratePayload{Count: cursor.Count()}
	for len(out.Values) < maxEnumValues {
		v, err := cursor.Next()
		if errors.Is(err, backend.ErrNotAvailable) {
			break
		}
		if err != nil {
			return wire.EnumeratePayload{}, err
		}
		out.Values = append(out.Values, v)
	}
	return out, nil
}

func decode(req *wire.Request, v any) error {
	if err := req.DecodePayload(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	return nil
}

func success(result any) *wire.Response {
	payload, err := wire.EncodePayload(result)
	if err != nil {
		return failure(err)
	}
	return &wire.Response{Status: wire.StatusSuccess, Payload: payload}
}

func failure(err error) *wire.Response {
	status := wire.StatusBackendError
	switch {
	case errors.Is(err, backend.ErrNotAvailable):
		status = wire.StatusNotAvailable
	case errors.Is(err, errInvalidPayload):
		status = wire.StatusInvalidParameter
	}
	return &wire.Response{Status: status, Error: wire.ErrorPayloadOf(err)}
}

func (sess *session) respond(resp *wire.Response) {
	data, err := wire.EncodeResponse(resp)
	if err != nil {
		sess.warn("encoding response failed", err)
		return
	}
	if err := sess.conn.Send(data); err != nil {
		sess.warn("sending response failed", err)
	}
}

func (sess *session) notify(notif *wire.Notification) {
	data, err := wire.EncodeNotification(notif)
	if err != nil {
		sess.warn("encoding notification failed", err)
		return
	}
	if err := sess.conn.Send(data); err != nil && !errors.Is(err, transport.ErrConnectionClosed) {
		sess.warn("sending notification failed", err)
	}
}

func (sess *session) warn(msg string, err error) {
	if logger := sess.server.config.Logger; logger != nil {
		logger.Warn(msg,
			slog.String("conn", sess.conn.ConnID()),
			slog.String("error", err.Error()))
	}
}
