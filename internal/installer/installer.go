package installer

import "context"

// Lookup resolves the package that installed pkg. A false result means the
// installer is unknown and no installer line is shown.
type Lookup interface {
	InstallerOf(ctx context.Context, pkg string) (string, bool)
}

type Config struct {
	Static   map[string]string `mapstructure:"static"`
	URL      string            `mapstructure:"url"`
	RetryMax int               `mapstructure:"retry_max"`
}

// Static is a fixed package to installer table.
type Static map[string]string

func (s Static) InstallerOf(_ context.Context, pkg string) (string, bool) {
	name, ok := s[pkg]
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// Chain asks each lookup in order and returns the first answer.
type Chain []Lookup

func (c Chain) InstallerOf(ctx context.Context, pkg string) (string, bool) {
	for _, l := range c {
		if name, ok := l.InstallerOf(ctx, pkg); ok {
			return name, true
		}
	}
	return "", false
}
