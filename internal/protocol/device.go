package protocol

import (
	"context"
	"fmt"
	"net"
	"time"
)

// Device is the remote side of the protocol: it sends commands and waits
// for the acknowledgement on its own listener.
type Device struct {
	CommandAddr  string
	ResponseAddr string
	Timeout      time.Duration
}

// Send writes one command and closes the connection.
func (d *Device) Send(ctx context.Context, cmd Command) error {
	dl := net.Dialer{Timeout: d.Timeout}
	conn, err := dl.DialContext(ctx, "tcp", d.CommandAddr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", d.CommandAddr, err)
	}
	defer conn.Close()
	_, err = conn.Write([]byte(cmd.String()))
	return err
}

// Exchange sends cmd and waits for its response. The response listener is
// bound before the command goes out.
func (d *Device) Exchange(ctx context.Context, cmd Command) (Response, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", d.ResponseAddr)
	if err != nil {
		return Response{}, fmt.Errorf("listen %s: %w", d.ResponseAddr, err)
	}
	defer ln.Close()
	return d.exchange(ctx, ln, cmd)
}

func (d *Device) exchange(ctx context.Context, ln net.Listener, cmd Command) (Response, error) {
	if err := d.Send(ctx, cmd); err != nil {
		return Response{}, err
	}
	if d.Timeout > 0 {
		if tl, ok := ln.(*net.TCPListener); ok {
			_ = tl.SetDeadline(time.Now().Add(d.Timeout))
		}
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-done:
		}
	}()

	conn, err := ln.Accept()
	if err != nil {
		return Response{}, fmt.Errorf("await response: %w", err)
	}
	defer conn.Close()
	if d.Timeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(d.Timeout))
	}
	buf := make([]byte, defaultBufferSize)
	n, err := conn.Read(buf)
	if n == 0 {
		return Response{}, fmt.Errorf("read response: %w", err)
	}
	return ParseResponse(buf[:n])
}
