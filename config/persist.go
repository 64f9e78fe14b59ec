package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/enumtag/errors"
	"github.com/teranos/enumtag/logger"
)

// backupCount is how many rotated copies Save keeps (.back1 newest)
const backupCount = 3

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	oldest := backupName(configPath, backupCount)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		// Keep going; a stale backup is not worth failing the save
		logger.Warnw("failed to delete old backup", logger.FieldFile, oldest, logger.FieldError, err)
	}

	// .back2 -> .back3, .back1 -> .back2
	for i := backupCount - 1; i >= 1; i-- {
		from := backupName(configPath, i)
		if _, err := os.Stat(from); err == nil {
			if err := os.Rename(from, backupName(configPath, i+1)); err != nil {
				return errors.Wrapf(err, "failed to rotate %s", from)
			}
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(backupName(configPath, 1), content, 0644); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

func backupName(configPath string, n int) string {
	return configPath + ".back" + string(rune('0'+n))
}

// Marshal renders the configuration as TOML
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config")
	}
	return data, nil
}

// Save writes the configuration to path as TOML, rotating backups of any existing file
func Save(c *Config, path string) error {
	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "refusing to save invalid configuration")
	}
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
