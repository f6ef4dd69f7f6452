//go:build tinygo || !cgo

package gsurfaux

import (
	"errors"
)

func ui(cfg UIConfig) error {
	return errors.New("require cgo for UI rendering")
}
