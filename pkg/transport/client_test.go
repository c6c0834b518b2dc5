package transport

import (
	"context"
	"testing"
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/wire"
)

func TestClientPing(t *testing.T) {
	server, _ := startEchoServer(t)

	client := NewClient(ClientConfig{ConnectTimeout: time.Second})
	rtt, err := client.Ping(context.Background(), server.Addr().String())
	if err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if rtt <= 0 || rtt > time.Second {
		t.Errorf("unexpected round trip time %v", rtt)
	}
}

func TestClientSendReceive(t *testing.T) {
	server, _ := startEchoServer(t)

	conn, err := NewClient(ClientConfig{}).Connect(context.Background(), server.Addr().String())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer conn.Close()

	data, err := wire.EncodeResponse(&wire.Response{MessageID: 3, Status: wire.StatusNotOpen})
	if err != nil {
		t.Fatalf("EncodeResponse failed: %v", err)
	}
	if err := conn.Send(data); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	got, err := conn.Receive(time.Second)
	if err != nil {
		t.Fatalf("Receive failed: %v", err)
	}
	resp, err := wire.DecodeResponse(got)
	if err != nil {
		t.Fatalf("DecodeResponse failed: %v", err)
	}
	if resp.MessageID != 3 || resp.Status != wire.StatusNotOpen {
		t.Errorf("echoed response = %+v", resp)
	}

	conn.Close()
	if err := conn.Send(data); err != ErrConnectionClosed {
		t.Errorf("Send after close = %v, want ErrConnectionClosed", err)
	}
	if _, err := conn.Receive(time.Second); err != ErrConnectionClosed {
		t.Errorf("Receive after close = %v, want ErrConnectionClosed", err)
	}
}

func TestClientConnectFailure(t *testing.T) {
	server := NewServer(ServerConfig{Address: "127.0.0.1:0"})
	if err := server.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	addr := server.Addr().String()
	server.Stop()

	if _, err := NewClient(ClientConfig{}).Ping(context.Background(), addr); err == nil {
		t.Error("expected ping to a stopped server to fail")
	}
}
