// Package printer owns the transport to the physical receipt device. The
// composer and ledger only ever see the Sink interface, so they are testable
// without hardware.
package printer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tarm/serial"
)

// Sink receives a finished ticket byte stream and transmits it to a physical
// device. Implementations acquire the device handle immediately before
// transmission and release it unconditionally afterward; a leaked handle
// must never survive a failed print.
type Sink interface {
	Transmit(ctx context.Context, payload []byte) error
}

// DeviceSink streams raw bytes to a character device node such as
// /dev/usb/lp0.
type DeviceSink struct {
	path    string
	timeout time.Duration
}

func NewDeviceSink(path string, timeout time.Duration) *DeviceSink {
	return &DeviceSink{path: path, timeout: timeout}
}

func (s *DeviceSink) Transmit(ctx context.Context, payload []byte) error {
	return transmit(ctx, s.timeout, func() error {
		f, err := os.OpenFile(s.path, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("open device %s: %w", s.path, err)
		}
		defer f.Close()
		if _, err := f.Write(payload); err != nil {
			return fmt.Errorf("write device %s: %w", s.path, err)
		}
		return nil
	})
}

// SerialSink streams raw bytes over a serial port, the other common hookup
// for thermal receipt printers.
type SerialSink struct {
	device  string
	baud    int
	timeout time.Duration
}

func NewSerialSink(device string, baud int, timeout time.Duration) *SerialSink {
	if baud == 0 {
		baud = 9600
	}
	return &SerialSink{device: device, baud: baud, timeout: timeout}
}

func (s *SerialSink) Transmit(ctx context.Context, payload []byte) error {
	return transmit(ctx, s.timeout, func() error {
		port, err := serial.OpenPort(&serial.Config{Name: s.device, Baud: s.baud})
		if err != nil {
			return fmt.Errorf("open serial port %s: %w", s.device, err)
		}
		defer port.Close()
		if _, err := port.Write(payload); err != nil {
			return fmt.Errorf("write serial port %s: %w", s.device, err)
		}
		return port.Flush()
	})
}

// transmit runs one device job under an explicit deadline. A stalled device
// must not block the request indefinitely; the job goroutine still closes
// its handle whenever the write eventually returns.
func transmit(ctx context.Context, timeout time.Duration, job func() error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- job()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return fmt.Errorf("print transmission: %w", ctx.Err())
	}
}
