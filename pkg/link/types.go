package link

import "time"

// Protocol tokens and keywords.
const (
	// TokenPing is the handshake/ping request byte.
	TokenPing byte = 'H'
	// TokenFeed is the feed request byte.
	TokenFeed byte = 'F'

	// KeywordReady is contained in the reply to TokenPing.
	KeywordReady = "Ready"
	// KeywordComplete is contained in the final reply to TokenFeed.
	KeywordComplete = "Complete"
)

// DefaultReadTimeout bounds a single line read.
const DefaultReadTimeout = time.Second

// DefaultHandshakeAttempts is the number of pings sent before giving up.
const DefaultHandshakeAttempts = 3

// Config is what is needed to open a Transport.
type Config struct {
	// Port identifies the device, e.g. COM3 or /dev/ttyACM0.
	Port string
	// BaudRate must match the firmware.
	BaudRate int
	// ReadTimeout bounds every ReadLine.
	ReadTimeout time.Duration
}

// Transport is a byte oriented link to the peer.
type Transport interface {
	// Write sends raw bytes.
	Write([]byte) (int, error)
	// ReadLine reads up to and including a newline. It returns whatever
	// arrived, possibly nothing, when timeout elapses first.
	ReadLine(timeout time.Duration) ([]byte, error)
	// Available returns the number of received bytes ready to be read.
	Available() (int, error)
	// ResetInputBuffer discards received but unread bytes.
	ResetInputBuffer() error
	// Close releases the device.
	Close() error
}

// Opener opens a Transport.
type Opener interface {
	Open(Config) (Transport, error)
}

// OpenFunc is func type of Opener.
type OpenFunc func(Config) (Transport, error)

// Open implements Opener.
func (f OpenFunc) Open(conf Config) (Transport, error) {
	return f(conf)
}
