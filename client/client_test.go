package client_test

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/nimbusnet/gameclient/api"
	"github.com/nimbusnet/gameclient/client"
	"github.com/nimbusnet/gameclient/message"
	"github.com/nimbusnet/gameclient/pool"
	"github.com/nimbusnet/gameclient/transport"
)

func startReliableServer(t *testing.T) (addr string, accepted chan net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	accepted = make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()
	t.Cleanup(func() { ln.Close() })
	return ln.Addr().String(), accepted
}

func startUnreliableEcho(t *testing.T) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen udp: %v", err)
	}
	go func() {
		buf := make([]byte, 2048)
		for {
			n, raddr, err := pc.ReadFrom(buf)
			if err != nil {
				return
			}
			pc.WriteTo(buf[:n], raddr)
		}
	}()
	t.Cleanup(func() { pc.Close() })
	return pc.LocalAddr().String()
}

func readFrame(t *testing.T, conn net.Conn) []byte {
	t.Helper()
	var lenPrefix [4]byte
	if _, err := io.ReadFull(conn, lenPrefix[:]); err != nil {
		t.Fatalf("read frame length: %v", err)
	}
	n := binary.BigEndian.Uint32(lenPrefix[:])
	body := make([]byte, n)
	if _, err := io.ReadFull(conn, body); err != nil {
		t.Fatalf("read frame body: %v", err)
	}
	return body
}

func writeFrame(t *testing.T, conn net.Conn, frame []byte) {
	t.Helper()
	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(frame)))
	if _, err := conn.Write(lenPrefix[:]); err != nil {
		t.Fatalf("write frame length: %v", err)
	}
	if _, err := conn.Write(frame); err != nil {
		t.Fatalf("write frame body: %v", err)
	}
}

func helloProducer(p *pool.MemoryPool) *message.Message {
	return message.New(0, false, []byte("HI!!"), p)
}

func newTransportConfig(reliableAddr, unreliableAddr string) transport.Config {
	cfg := transport.DefaultConfig()
	cfg.ReliableAddr = reliableAddr
	cfg.UnreliableAddr = unreliableAddr
	return cfg
}

// TestS1HappyPath: connect, server replies with Configure(id=7); expect
// client.ID() == 7 and ConnectionState() == Connected.
func TestS1HappyPath(t *testing.T) {
	reliableAddr, accepted := startReliableServer(t)
	unreliableAddr := startUnreliableEcho(t)

	conn := transport.New(newTransportConfig(reliableAddr, unreliableAddr), helloProducer)
	c := client.New(client.DefaultConfig())
	defer c.Close()

	connectErr := make(chan error, 1)
	go func() { connectErr <- c.Connect(conn) }()

	serverConn := <-accepted
	defer serverConn.Close()

	hello := readFrame(t, serverConn)
	if string(hello) == "" {
		t.Fatal("expected non-empty hello frame")
	}

	srvPool := pool.NewMemoryPool(pool.DefaultMemoryPoolConfig())
	cfgMsg := message.NewConfigure(7, srvPool)
	writeFrame(t, serverConn, cfgMsg.ToBuffer().Bytes())
	cfgMsg.Release()

	select {
	case err := <-connectErr:
		if err != nil {
			t.Fatalf("Connect: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Connect never returned")
	}

	if c.ID() != 7 {
		t.Fatalf("ID() = %d, want 7", c.ID())
	}
	if c.ConnectionState() != transport.Connected {
		t.Fatalf("ConnectionState() = %v, want Connected", c.ConnectionState())
	}
}

// TestS2HandshakeTimeout: peer never sends Configure; Connect must fail
// and leave the connection Disconnected.
func TestS2HandshakeTimeout(t *testing.T) {
	reliableAddr, accepted := startReliableServer(t)
	unreliableAddr := startUnreliableEcho(t)

	conn := transport.New(newTransportConfig(reliableAddr, unreliableAddr), helloProducer)
	cfg := client.DefaultConfig()
	cfg.HandshakeTimeout = 200 * time.Millisecond
	c := client.New(cfg)
	defer c.Close()

	connectErr := make(chan error, 1)
	go func() { connectErr <- c.Connect(conn) }()

	serverConn := <-accepted
	defer serverConn.Close()
	_ = readFrame(t, serverConn) // drain the hello, never reply

	select {
	case err := <-connectErr:
		if err == nil {
			t.Fatal("expected Connect to fail on handshake timeout")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Connect never returned")
	}

	if c.ConnectionState() != transport.Disconnected {
		t.Fatalf("ConnectionState() = %v, want Disconnected", c.ConnectionState())
	}
}

// TestS5PeerDisconnect: after handshake, the peer closes the reliable
// socket; expect a single disconnected event with locallyInitiated=false,
// and a subsequent Disconnect() call returns false.
func TestS5PeerDisconnect(t *testing.T) {
	reliableAddr, accepted := startReliableServer(t)
	unreliableAddr := startUnreliableEcho(t)

	conn := transport.New(newTransportConfig(reliableAddr, unreliableAddr), helloProducer)
	c := client.New(client.DefaultConfig())
	defer c.Close()

	disconnected := make(chan bool, 1)
	c.OnDisconnected(func(ev *api.DisconnectedEvent) { disconnected <- ev.LocallyInitiated })

	connectErr := make(chan error, 1)
	go func() { connectErr <- c.Connect(conn) }()

	serverConn := <-accepted
	_ = readFrame(t, serverConn)

	srvPool := pool.NewMemoryPool(pool.DefaultMemoryPoolConfig())
	cfgMsg := message.NewConfigure(3, srvPool)
	writeFrame(t, serverConn, cfgMsg.ToBuffer().Bytes())
	cfgMsg.Release()

	if err := <-connectErr; err != nil {
		t.Fatalf("Connect: %v", err)
	}

	serverConn.Close()

	select {
	case locallyInitiated := <-disconnected:
		if locallyInitiated {
			t.Fatal("expected peer-initiated disconnect")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("disconnected event never fired")
	}

	if c.Disconnect() {
		t.Fatal("Disconnect after peer-initiated teardown should return false")
	}
}

// TestMessageReceivedFanOut covers the ordinary application-message path:
// after handshake, an inbound non-command message reaches the registered
// message-received handler exactly once, with its payload intact.
func TestMessageReceivedFanOut(t *testing.T) {
	reliableAddr, accepted := startReliableServer(t)
	unreliableAddr := startUnreliableEcho(t)

	conn := transport.New(newTransportConfig(reliableAddr, unreliableAddr), helloProducer)
	c := client.New(client.DefaultConfig())
	defer c.Close()

	received := make(chan string, 1)
	c.OnMessageReceived(func(ev *api.MessageReceivedEvent) {
		msg := ev.Message.(*message.Message)
		received <- string(msg.Payload())
	})

	connectErr := make(chan error, 1)
	go func() { connectErr <- c.Connect(conn) }()

	serverConn := <-accepted
	_ = readFrame(t, serverConn)

	srvPool := pool.NewMemoryPool(pool.DefaultMemoryPoolConfig())
	cfgMsg := message.NewConfigure(1, srvPool)
	writeFrame(t, serverConn, cfgMsg.ToBuffer().Bytes())
	cfgMsg.Release()

	if err := <-connectErr; err != nil {
		t.Fatalf("Connect: %v", err)
	}

	appMsg := message.New(5, false, []byte("payload"), srvPool)
	writeFrame(t, serverConn, appMsg.ToBuffer().Bytes())
	appMsg.Release()

	select {
	case payload := <-received:
		if payload != "payload" {
			t.Fatalf("payload = %q, want %q", payload, "payload")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("message-received handler never fired")
	}

	serverConn.Close()
}
