package protocol

import (
	"context"
	"fmt"
	"net"
	"time"
)

// DialResponder opens a fresh connection to the device per response,
// writes the list once and closes. Nothing is retried.
type DialResponder struct {
	Addr        string
	DialTimeout time.Duration
}

func (r *DialResponder) Send(ctx context.Context, resp Response) error {
	d := net.Dialer{Timeout: r.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", r.Addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", r.Addr, err)
	}
	defer conn.Close()
	if r.DialTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(r.DialTimeout))
	}
	if _, err := conn.Write([]byte(resp.String())); err != nil {
		return fmt.Errorf("write %s: %w", r.Addr, err)
	}
	return nil
}
