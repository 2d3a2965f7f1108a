package tz

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Load resolves an IANA zone name such as "Europe/Paris". An empty name is
// UTC.
func Load(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Wrapf(err, "tz: load %s", name)
	}
	return loc, nil
}
