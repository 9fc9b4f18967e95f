package valueflow

import "github.com/cs-au-dk/goval/utils"

// Config configures the value-flow analysis of a function.
type Config struct {
	// WideningThreshold is the number of visits to a loop header after which the
	// values flowing into it and defined in it are widened.
	WideningThreshold int
}

// DefaultConfig creates a configuration from the command-line options.
func DefaultConfig() Config {
	return Config{
		WideningThreshold: utils.Opts().WideningThreshold(),
	}
}
