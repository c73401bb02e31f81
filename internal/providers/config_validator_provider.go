package providers

import (
	"errors"
	"fmt"
	"presetd/internal/structures"
	"time"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	p := cv.conf.Persistence
	switch p.Driver {
	case "file":
		if p.Dir == "" {
			return errors.New("persistence.dir is required for the file driver")
		}
	case "sqlite", "redis":
		if p.DSN == "" {
			return fmt.Errorf("persistence.dsn is required for the %s driver", p.Driver)
		}
	}
	if p.Timeout < 0 {
		return errors.New("persistence.timeout must not be negative")
	}

	b := cv.conf.Backup
	if b.Enabled {
		if b.FilePath == "" {
			return errors.New("backup.filePath is required when backups are enabled")
		}
		if b.Interval < time.Second {
			return errors.New("backup.interval must be at least 1s")
		}
	}

	if tz := cv.conf.Selector.Timezone; tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("selector.timezone: %w", err)
		}
	}
	return nil
}
