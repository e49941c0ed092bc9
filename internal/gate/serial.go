package gate

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"go.bug.st/serial"
)

// SerialLink is the production Link over a real serial port.
type SerialLink struct {
	port serial.Port
	buf  []byte
}

// Dial opens the device port. An empty portName triggers auto-detection.
// The firmware resets when the port opens, so Dial waits for it to come
// back before returning.
func Dial(portName string, baudRate int) (*SerialLink, error) {
	if portName == "" {
		detected, err := DetectPort()
		if err != nil {
			return nil, err
		}
		portName = detected
	}

	port, err := serial.Open(portName, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}

	time.Sleep(2 * time.Second) // device reset on open

	return &SerialLink{port: port}, nil
}

// DetectPort returns the first serial port that looks like the USB-attached
// device on this platform.
func DetectPort() (string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return "", fmt.Errorf("list serial ports: %w", err)
	}

	for _, p := range ports {
		switch runtime.GOOS {
		case "linux":
			if strings.Contains(p, "ttyACM") || strings.Contains(p, "ttyUSB") {
				return p, nil
			}
		case "darwin":
			if strings.Contains(p, "usbmodem") || strings.Contains(p, "usbserial") {
				return p, nil
			}
		case "windows":
			if strings.Contains(p, "COM") {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("no serial device found")
}

// ReadLine reads until a newline or the deadline. Bytes of a partial line
// are kept across calls so a slow device does not lose data to a timeout.
func (l *SerialLink) ReadLine(timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	one := make([]byte, 1)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return "", ErrTimeout
		}
		if err := l.port.SetReadTimeout(remaining); err != nil {
			return "", fmt.Errorf("set read timeout: %w", err)
		}

		n, err := l.port.Read(one)
		if err != nil {
			return "", fmt.Errorf("serial read: %w", err)
		}
		if n == 0 {
			// go.bug.st/serial signals a timeout as a zero-byte read.
			return "", ErrTimeout
		}

		if one[0] == '\n' {
			line := strings.TrimSpace(string(l.buf))
			l.buf = l.buf[:0]
			return line, nil
		}
		l.buf = append(l.buf, one[0])
	}
}

func (l *SerialLink) Write(p []byte) error {
	if _, err := l.port.Write(p); err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	return nil
}

// Flush drops any bytes buffered by the driver. Used once at loop startup
// so stale reports from before the restart are not replayed.
func (l *SerialLink) Flush() error {
	l.buf = l.buf[:0]
	return l.port.ResetInputBuffer()
}

func (l *SerialLink) Close() error {
	return l.port.Close()
}
