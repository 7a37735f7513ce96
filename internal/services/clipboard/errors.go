package clipboard

import "errors"

// ErrUnsupported reports that no clipboard utility is available on this system.
var ErrUnsupported = errors.New("no clipboard utility available")
