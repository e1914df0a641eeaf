// Package env provides the configuration of the feeder link.
package env

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/robotalks/feedlink/pkg/link"
)

// Config provides the options to open the link.
type Config struct {
	// Port is the serial device, e.g. COM3 or /dev/ttyACM0.
	Port string
	// BaudRate must match the firmware.
	BaudRate int
	// ReadTimeout bounds a single line read.
	ReadTimeout time.Duration
}

var defaultConfig = Config{
	Port:        defaultPort(),
	BaudRate:    115200,
	ReadTimeout: link.DefaultReadTimeout,
}

func defaultPort() string {
	if runtime.GOOS == "windows" {
		return "COM3"
	}
	return "/dev/ttyACM0"
}

func init() {
	loadEnv(&defaultConfig, os.Getenv)
}

func loadEnv(c *Config, getenv func(string) string) {
	if val := getenv("FEEDLINK_PORT"); val != "" {
		c.Port = val
	}
	if val := getenv("FEEDLINK_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil {
			c.BaudRate = baud
		} else {
			log.Printf("ignore FEEDLINK_BAUD=%q: %v", val, err)
		}
	}
	if val := getenv("FEEDLINK_READ_TIMEOUT"); val != "" {
		if dur, err := time.ParseDuration(val); err == nil {
			c.ReadTimeout = dur
		} else {
			log.Printf("ignore FEEDLINK_READ_TIMEOUT=%q: %v", val, err)
		}
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	SetupFlagsOn(flag.CommandLine, &defaultConfig)
}

// SetupFlagsOn binds flags of fs onto c.
func SetupFlagsOn(fs *flag.FlagSet, c *Config) {
	fs.StringVar(&c.Port, "port", c.Port, "Serial port of the feeder.")
	fs.IntVar(&c.BaudRate, "baud", c.BaudRate, "Baud rate, must match the firmware.")
	fs.DurationVar(&c.ReadTimeout, "read-timeout", c.ReadTimeout, "Timeout of a single line read.")
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("serial port must be specified")
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.BaudRate)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout %v", c.ReadTimeout)
	}
	return nil
}

// LinkConfig converts to link.Config.
func (c *Config) LinkConfig() link.Config {
	return link.Config{
		Port:        c.Port,
		BaudRate:    c.BaudRate,
		ReadTimeout: c.ReadTimeout,
	}
}
