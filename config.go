package meshinterp

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/phil-mansfield/meshinterp/interpolate"
	"github.com/phil-mansfield/meshinterp/spatial"
)

const (
	// MinNeighborCount and MaxNeighborCount bound Config.NeighborCount.
	MinNeighborCount = spatial.MinNeighbors
	MaxNeighborCount = 32
	// DefaultNeighborCount is the neighborhood size used by DefaultConfig.
	DefaultNeighborCount = 10
)

// ErrInvalidConfig is wrapped by every error that Config.Validate returns.
var ErrInvalidConfig = errors.New("meshinterp: invalid config")

// Config holds the parameters of a Field.
type Config struct {
	// NeighborCount is the number of nearest nodes which are tessellated
	// around each query point.
	NeighborCount int
	// OutOfBoundsValue is written to every channel of a result when no
	// interpolation is possible.
	OutOfBoundsValue float64
	// ValueChannels is the number of values at each node. Zero means that it
	// is taken from the node store; otherwise it must match the store.
	ValueChannels int
	// Fallback is used when no enclosing simplex is found or when
	// barycentric interpolation fails.
	Fallback interpolate.Fallback
	// Workers is the number of goroutines QueryBatch uses when it is not
	// given a Dispatcher. 0 and 1 mean sequential evaluation and negative
	// values mean one worker per CPU.
	Workers int
	// Logger receives debug output. nil means the logrus standard logger.
	Logger *logrus.Logger
}

// DefaultConfig returns the configuration used when nothing else is known
// about the node set.
func DefaultConfig() Config {
	return Config{
		NeighborCount: DefaultNeighborCount,
		Fallback:      interpolate.DefaultFallback,
	}
}

// Validate returns an error wrapping ErrInvalidConfig if any field of c is
// out of range.
func (c *Config) Validate() error {
	if c.NeighborCount < MinNeighborCount || c.NeighborCount > MaxNeighborCount {
		return errors.Wrapf(
			ErrInvalidConfig, "NeighborCount is %d, must be in [%d, %d]",
			c.NeighborCount, MinNeighborCount, MaxNeighborCount,
		)
	} else if c.ValueChannels < 0 {
		return errors.Wrapf(
			ErrInvalidConfig, "ValueChannels is %d, must be non-negative",
			c.ValueChannels,
		)
	}

	switch c.Fallback.Scheme {
	case interpolate.SchemeInverseDistance:
		p := c.Fallback.Power
		if !(p > 0) || math.IsInf(p, 0) {
			return errors.Wrapf(
				ErrInvalidConfig, "inverse distance power is %g, must be positive",
				p,
			)
		}
	case interpolate.SchemeMean, interpolate.SchemeNearest,
		interpolate.SchemeConstant:
	default:
		return errors.Wrapf(
			ErrInvalidConfig, "unknown fallback scheme %s", c.Fallback.Scheme,
		)
	}

	return nil
}

func (c *Config) logger() *logrus.Logger {
	if c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}
