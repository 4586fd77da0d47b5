// Package logflags configures the per-layer loggers used by wstat.
package logflags

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var supervisor = false
var proc = false
var reaper = false
var policy = false

var logOut io.WriteCloser

func makeLogger(flag bool, fields logrus.Fields) *logrus.Entry {
	logger := logrus.New().WithFields(fields)
	logger.Logger.Formatter = newFormatter(logOut == nil && isatty.IsTerminal(os.Stderr.Fd()))
	if logOut != nil {
		logger.Logger.Out = logOut
	} else {
		logger.Logger.Out = colorable.NewColorableStderr()
	}
	logger.Logger.Level = logrus.DebugLevel
	if !flag {
		logger.Logger.Level = logrus.ErrorLevel
	}
	return logger
}

func newFormatter(color bool) logrus.Formatter {
	return &logrus.TextFormatter{
		ForceColors:     color,
		DisableColors:   !color,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	}
}

// Supervisor returns true if the supervisor should log process
// lifecycle events.
func Supervisor() bool {
	return supervisor
}

// SupervisorLogger returns a logger for the supervisor.
func SupervisorLogger() *logrus.Entry {
	return makeLogger(supervisor, logrus.Fields{"layer": "supervisor"})
}

// Proc returns true if the proc package should log wait4 results.
func Proc() bool {
	return proc
}

// ProcLogger returns a logger for the proc package.
func ProcLogger() *logrus.Entry {
	return makeLogger(proc, logrus.Fields{"layer": "proc"})
}

// Reaper returns true if the reaper should log every reaped child.
func Reaper() bool {
	return reaper
}

// ReaperLogger returns a logger for the reaper.
func ReaperLogger() *logrus.Entry {
	return makeLogger(reaper, logrus.Fields{"layer": "reaper"})
}

// Policy returns true if exit policy decisions should be logged.
func Policy() bool {
	return policy
}

// PolicyLogger returns a logger for exit policies.
func PolicyLogger() *logrus.Entry {
	return makeLogger(policy, logrus.Fields{"layer": "policy"})
}

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

// Setup sets the layer flags based on the contents of logstr.
// If logDest is not empty logs will be redirected to the file descriptor
// or file path specified by logDest.
func Setup(logFlag bool, logstr string, logDest string) error {
	supervisor, proc, reaper, policy = false, false, false, false
	if logDest != "" {
		n, err := strconv.Atoi(logDest)
		if err == nil {
			logOut = os.NewFile(uintptr(n), "wstat-logs")
		} else {
			fh, err := os.Create(logDest)
			if err != nil {
				return fmt.Errorf("could not create log file: %w", err)
			}
			logOut = fh
		}
	}
	if !logFlag {
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	if logstr == "" {
		logstr = "supervisor"
	}
	for _, logcmd := range strings.Split(logstr, ",") {
		switch strings.TrimSpace(logcmd) {
		case "supervisor":
			supervisor = true
		case "proc":
			proc = true
		case "reaper":
			reaper = true
		case "policy":
			policy = true
		default:
			return fmt.Errorf("unknown log layer %q", logcmd)
		}
	}
	return nil
}

// Close closes the logger output.
func Close() {
	if logOut != nil {
		logOut.Close()
		logOut = nil
	}
}
