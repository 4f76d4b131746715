package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/armino/internal/core/domino"
)

func TestDefaultsMatchDominoConstants(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Equal(t, 1.0/200, c.Physics.TimeStep)
	assert.Equal(t, 0.03, c.Placement.MinSpacing)
	assert.Equal(t, 0.7, c.Trigger.Impulse)
	assert.Equal(t, 0.001, c.Surface.Thickness)
	assert.Equal(t, domino.DefaultSpec(), c.DominoSpec())
}

func TestLoadOverridesOnlyListedKeys(t *testing.T) {
	src := `
log:
  level: debug
placement:
  min_spacing: 0.05
feed:
  addr: ":8089"
`
	c, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "console", c.Log.Encoding)
	assert.Equal(t, 0.05, c.Placement.MinSpacing)
	assert.Equal(t, ":8089", c.Feed.Addr)
	assert.Equal(t, "/events", c.Feed.Path)
	assert.Equal(t, 2.0, c.Domino.Mass)
}

func TestLoadEmptyDocument(t *testing.T) {
	c, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader("domino:\n  weight: 3\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"zero spacing":      func(c *Config) { c.Placement.MinSpacing = 0 },
		"negative lift":     func(c *Config) { c.Domino.Lift = -1 },
		"no shards":         func(c *Config) { c.Surface.Shards = 0 },
		"bad encoding":      func(c *Config) { c.Log.Encoding = "xml" },
		"zero impulse":      func(c *Config) { c.Trigger.Impulse = 0 },
		"negative friction": func(c *Config) { c.Domino.Friction = -0.1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}

func TestShippedConfigMatchesDefaults(t *testing.T) {
	c, err := LoadFile("../../configs/armino.yaml")
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, Default(), c)
}
