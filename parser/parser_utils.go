package parser

import (
	"log/slog"
	"strings"
)

// Tracing turns on debug logging of the recursive descent
var Tracing = false

var traceLevel int

func trace(msg string) string {
	if Tracing {
		slog.Debug(strings.Repeat("\t", traceLevel) + "BEGIN " + msg)
		traceLevel++
	}
	return msg
}

func untrace(msg string) {
	if Tracing {
		traceLevel--
		slog.Debug(strings.Repeat("\t", traceLevel) + "END " + msg)
	}
}
