package main

import (
	"fmt"
	"io"
	"strings"
)

type triState string

const (
	modeAuto triState = "auto"
	modeOn   triState = "on"
	modeOff  triState = "off"
)

func readTriState(flag, value string) (triState, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return modeAuto, nil
	case "on", "always":
		return modeOn, nil
	case "off", "never":
		return modeOff, nil
	default:
		return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

// enabled resolves auto against whether w is a terminal.
func (m triState) enabled(w io.Writer) bool {
	switch m {
	case modeOn:
		return true
	case modeOff:
		return false
	default:
		return isTerminal(w)
	}
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (expected %s)", format, strings.Join(allowed, "|"))
}
