package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/magiconair/properties"
)

// Keys read by ImportProperties.
const (
	PropListen            = "server.listen"
	PropReadHeaderTimeout = "server.read-header-timeout"
	PropIdleTimeout       = "server.idle-timeout"
	PropShutdownTimeout   = "server.shutdown-timeout"
	PropMaxHeaderBytes    = "server.max-header-bytes"
)

// ImportProperties reads a Java style properties file into a profile called
// name. server.listen is required, every other key is optional.
func ImportProperties(path, name string) (*Profile, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}

	listen, ok := p.Get(PropListen)
	if !ok || listen == "" {
		return nil, errors.New("invalid or unsupported properties file: missing " + PropListen)
	}
	profile := &Profile{Name: name, Listen: listen}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{PropReadHeaderTimeout, &profile.ReadHeaderTimeout},
		{PropIdleTimeout, &profile.IdleTimeout},
		{PropShutdownTimeout, &profile.ShutdownTimeout},
	}
	for _, d := range durations {
		v, ok := p.Get(d.key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if v, ok := p.Get(PropMaxHeaderBytes); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s: %q is not a byte count", PropMaxHeaderBytes, v)
		}
		profile.MaxHeaderBytes = n
	}

	return profile, nil
}
