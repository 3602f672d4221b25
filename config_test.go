package meshinterp

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/phil-mansfield/meshinterp/interpolate"
)

func TestConfigValidate(t *testing.T) {
	table := []struct {
		mod func(*Config)
		ok  bool
	}{
		{func(c *Config) {}, true},
		{func(c *Config) { c.NeighborCount = 4 }, true},
		{func(c *Config) { c.NeighborCount = 32 }, true},
		{func(c *Config) { c.NeighborCount = 3 }, false},
		{func(c *Config) { c.NeighborCount = 33 }, false},
		{func(c *Config) { c.ValueChannels = -1 }, false},
		{func(c *Config) { c.ValueChannels = 3 }, true},
		{func(c *Config) { c.OutOfBoundsValue = math.NaN() }, true},
		{func(c *Config) { c.Fallback.Power = 0 }, false},
		{func(c *Config) { c.Fallback.Power = math.Inf(1) }, false},
		{func(c *Config) { c.Fallback.Power = 2.5 }, true},
		{func(c *Config) {
			c.Fallback = interpolate.Fallback{Scheme: interpolate.SchemeMean}
		}, true},
		{func(c *Config) { c.Fallback.Scheme = 17 }, false},
		{func(c *Config) { c.Workers = -3 }, true},
	}

	for i, test := range table {
		cfg := DefaultConfig()
		test.mod(&cfg)
		err := cfg.Validate()
		if test.ok && err != nil {
			t.Errorf("%d) unexpected error: %v", i, err)
		} else if !test.ok && !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%d) expected ErrInvalidConfig, got %v", i, err)
		}
	}

	assert.Error(t, (&Config{}).Validate(), "zero Config")
}

func TestConfigLogger(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, logrus.StandardLogger(), cfg.logger())

	l := logrus.New()
	cfg.Logger = l
	assert.Equal(t, l, cfg.logger())
}

func TestMethodString(t *testing.T) {
	assert.Equal(t, "Barycentric", MethodBarycentric.String())
	assert.Equal(t, "OutOfBounds", MethodOutOfBounds.String())
	assert.Equal(t, "Method(-1)", Method(-1).String())
}
