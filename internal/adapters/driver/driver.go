// Package driver contains strip.Driver implementations: a log driver for
// headless runs, an in-memory recorder, an Open Pixel Control client and,
// behind the ws281x build tag, a Raspberry Pi NeoPixel driver.
package driver

import (
	"fmt"
	"strings"

	"github.com/okian/headlights/internal/domain/strip"
	"github.com/okian/headlights/pkg/logger"
)

// Driver names accepted by New.
const (
	NameLog    = "log"
	NameMemory = "memory"
	NameOPC    = "opc"
	NameWS281x = "ws281x"
)

// Config carries the hardware bring-up parameters.
type Config struct {
	Name        string
	Count       int
	Brightness  int
	OPCAddr     string
	OPCChannel  uint8
	GPIOPin     int
	DMA         int
	FrequencyHz int
	Invert      bool
}

// Names lists the drivers New understands.
func Names() []string {
	return []string{NameLog, NameMemory, NameOPC, NameWS281x}
}

// New builds the driver selected by cfg.Name.
func New(cfg Config, l logger.Logger) (strip.Driver, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case "", NameLog:
		return NewLog(l), nil
	case NameMemory:
		return NewMemory(), nil
	case NameOPC:
		return NewOPC(cfg.OPCAddr, cfg.OPCChannel), nil
	case NameWS281x:
		return newWS281x(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Name)
	}
}
