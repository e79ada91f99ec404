// Package logging configures the logrus standard logger shared by the tools.
package logging

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// Levels accepted on the command line and in the configuration file.
var Levels = []string{"debug", "info", "warn", "error"}

// Setup sets the level and format of the standard logger. Output always
// goes to w so that results on stdout stay machine readable.
func Setup(w io.Writer, level string, json bool) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level '%s': %s", level, err)
	}
	log.SetOutput(w)
	log.SetLevel(lvl)
	if json {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	}
	return nil
}
