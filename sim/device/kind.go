package device

import (
	"fmt"
	"strings"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
)

// Kind identifies a device lane. Its value is the lane index.
type Kind int

const (
	KindPrinter Kind = iota
	KindDisk
	KindNetwork
	KindKeyboard
)

// NumLanes is the number of device lanes.
const NumLanes = 4

// Valid reports whether k names one of the device lanes.
func (k Kind) Valid() bool {
	return k >= KindPrinter && k <= KindKeyboard
}

func (k Kind) String() string {
	switch k {
	case KindPrinter:
		return "printer"
	case KindDisk:
		return "disk"
	case KindNetwork:
		return "network"
	case KindKeyboard:
		return "keyboard"
	default:
		return fmt.Sprintf("device(%d)", int(k))
	}
}

// ParseKind maps a device name to its Kind.
func ParseKind(name string) (Kind, error) {
	for k := KindPrinter; k <= KindKeyboard; k++ {
		if strings.EqualFold(name, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown device %q: %w", name, sim.ErrValidation)
}

// InterruptKind classifies an interrupt.
type InterruptKind int

const (
	InterruptTimer InterruptKind = iota
	InterruptIOComplete
	InterruptPageFault
	InterruptSystemCall
)

// Valid reports whether k is a known interrupt kind.
func (k InterruptKind) Valid() bool {
	return k >= InterruptTimer && k <= InterruptSystemCall
}

func (k InterruptKind) String() string {
	switch k {
	case InterruptTimer:
		return "TIMER"
	case InterruptIOComplete:
		return "IO_COMPLETE"
	case InterruptPageFault:
		return "PAGE_FAULT"
	case InterruptSystemCall:
		return "SYSTEM_CALL"
	default:
		return fmt.Sprintf("INTERRUPT(%d)", int(k))
	}
}

// ParseInterruptKind maps an interrupt name (case-insensitive) to its kind.
func ParseInterruptKind(name string) (InterruptKind, error) {
	for k := InterruptTimer; k <= InterruptSystemCall; k++ {
		if strings.EqualFold(name, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown interrupt %q: %w", name, sim.ErrValidation)
}
