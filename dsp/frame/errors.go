package frame

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-pick/dsp/core"
)

var (
	errNoChannels     = fmt.Errorf("%w: frame: no channels", core.ErrConfiguration)
	errChannelMissing = errors.New("frame: channel index out of range")
)

func validate(n, size, shift int) error {
	if size <= 0 {
		return fmt.Errorf("%w: frame: window size must be > 0: %d", core.ErrConfiguration, size)
	}
	if shift <= 0 {
		return fmt.Errorf("%w: frame: shift must be > 0: %d", core.ErrConfiguration, shift)
	}
	if size > n {
		return fmt.Errorf("%w: frame: window size %d exceeds signal length %d", core.ErrConfiguration, size, n)
	}
	return nil
}
