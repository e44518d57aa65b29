package proto

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

var ErrPortNotFound = errors.New("serial port not found")

type Options struct {
	BaudRate    int
	DataBits    int
	Parity      serial.Parity
	StopBits    serial.StopBits
	DTR         bool
	RTS         bool
	ReadTimeout time.Duration
}

// DefaultOptions is 115200 baud, 8N1.
func DefaultOptions() *Options {
	return &Options{
		BaudRate:    115200,
		DataBits:    8,
		Parity:      serial.NoParity,
		StopBits:    serial.OneStopBit,
		DTR:         true,
		RTS:         true,
		ReadTimeout: 10 * time.Millisecond,
	}
}

func NewSerial(name string) *Serial {
	return &Serial{name: name}
}

type Serial struct {
	name string
	port serial.Port
}

func (s *Serial) Name() string {
	return s.name
}

func (s *Serial) Ports() ([]string, error) {
	return serial.GetPortsList()
}

func (s *Serial) Open(opts *Options) error {
	ports, err := s.Ports()
	if err != nil {
		return errors.Wrap(err, "list serial ports")
	}

	matched := matchPort(ports, s.name)
	if matched == "" {
		return errors.Wrapf(ErrPortNotFound, "%q", s.name)
	}

	port, err := serial.Open(matched, &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
		Parity:   opts.Parity,
		StopBits: opts.StopBits,
	})
	if err != nil {
		return errors.Wrapf(err, "open %s", matched)
	}

	if err := port.SetDTR(opts.DTR); err != nil {
		_ = port.Close()
		return err
	}

	if err := port.SetRTS(opts.RTS); err != nil {
		_ = port.Close()
		return err
	}

	if opts.ReadTimeout > 0 {
		if err := port.SetReadTimeout(opts.ReadTimeout); err != nil {
			_ = port.Close()
			return err
		}
	}

	s.name = matched
	s.port = port
	return nil
}

func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}
	return s.port.Close()
}

func (s *Serial) Read(p []byte) (n int, err error) {
	return s.port.Read(p)
}

func (s *Serial) Write(p []byte) (n int, err error) {
	return s.port.Write(p)
}

func (s *Serial) Flush() error {
	return s.port.Drain()
}

func (s *Serial) ResetInputBuffer() error {
	return s.port.ResetInputBuffer()
}

func (s *Serial) SetReadTimeout(t time.Duration) error {
	return s.port.SetReadTimeout(t)
}

// matchPort prefers an exact name and falls back to the first port
// containing name.
func matchPort(ports []string, name string) string {
	for _, p := range ports {
		if p == name {
			return p
		}
	}
	for _, p := range ports {
		if strings.Contains(p, name) {
			return p
		}
	}
	return ""
}

// PortDetails lists the serial ports with their USB identification.
func PortDetails() ([]*enumerator.PortDetails, error) {
	return enumerator.GetDetailedPortsList()
}
