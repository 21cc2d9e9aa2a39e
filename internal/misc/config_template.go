package misc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// ErrConfigExists is returned when the destination already exists and overwrite is false.
var ErrConfigExists = errors.New("config file already exists")

// WriteConfigTemplate writes template to dst with owner-only permissions,
// creating parent directories as needed.
func WriteConfigTemplate(dst string, template []byte, overwrite bool) error {
	if dst == "" {
		return fmt.Errorf("config template: empty destination")
	}
	if !overwrite {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, dst)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o700); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		if errClose := out.Close(); errClose != nil {
			log.WithError(errClose).Warn("failed to close config file")
		}
	}()

	if _, err = out.Write(template); err != nil {
		return err
	}
	return out.Sync()
}
