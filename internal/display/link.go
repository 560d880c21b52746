package display

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// Link is the outbound channel to the display peer.
type Link interface {
	WriteFrame(frame []byte) error
	Close() error
}

// PortAuto asks OpenSerial to pick the first USB serial port.
const PortAuto = "auto"

// DefaultBaud matches the display peer firmware.
const DefaultBaud = 9600

var errNoUSBPort = errors.New("no USB serial port found")

// Overridden in tests.
var (
	openPort  = func(name string, mode *serial.Mode) (io.WriteCloser, error) { return serial.Open(name, mode) }
	listPorts = enumerator.GetDetailedPortsList
)

// WriterLink writes frames to any io.Writer. Used for dry runs and tests.
type WriterLink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterLink(w io.Writer) *WriterLink {
	return &WriterLink{w: w}
}

func (l *WriterLink) WriteFrame(frame []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.w.Write(frame)
	return err
}

// Close closes the underlying writer if it is an io.Closer.
func (l *WriterLink) Close() error {
	if c, ok := l.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// SerialLink is a Link over a serial port (8N1).
type SerialLink struct {
	*WriterLink
	Port string
}

// OpenSerial opens the named port at baud. A baud of 0 means 9600; a name of PortAuto
// resolves to the first USB port the OS reports.
func OpenSerial(name string, baud int) (*SerialLink, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	if name == PortAuto {
		found, err := findUSBPort()
		if err != nil {
			return nil, err
		}
		name = found
	}

	p, err := openPort(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %q: %w", name, err)
	}
	return &SerialLink{WriterLink: NewWriterLink(p), Port: name}, nil
}

func findUSBPort() (string, error) {
	ports, err := listPorts()
	if err != nil {
		return "", fmt.Errorf("list serial ports: %w", err)
	}
	for _, p := range ports {
		if p.IsUSB {
			return p.Name, nil
		}
	}
	return "", errNoUSBPort
}
