package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ImSingee/go-ex/ee"
	"github.com/spf13/viper"
)

// ErrInvalid is returned for values that fail validation
var ErrInvalid = fmt.Errorf("invalid config")

// IsNotExist reports whether err means the config file is missing
func IsNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return ee.Is(err, os.ErrNotExist) || errors.As(err, &notFound)
}
