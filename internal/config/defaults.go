package config

// Default values for optional configuration fields.
const (
	DefaultLogLevel = "info"
	DefaultEncoding = "binary"
)

func (c *WstapConfig) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	for i := range c.Channels {
		if c.Channels[i].Encoding == "" {
			c.Channels[i].Encoding = DefaultEncoding
		}
	}
}
