// File: loop/log.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package-internal structured logger. Quiet by default; embedders can
// raise the level to debug backend selection and event-drop decisions.

package loop

import (
	"io"
	"os"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&nested.Formatter{
		HideKeys:    true,
		FieldsOrder: []string{"component", "fd"},
	})
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
}

// SetLogLevel adjusts the verbosity of the library's internal logger.
func SetLogLevel(level logrus.Level) { log.SetLevel(level) }

// SetLogOutput redirects the library's internal logger.
func SetLogOutput(w io.Writer) { log.SetOutput(w) }
