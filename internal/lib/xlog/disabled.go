package xlog

import (
	"context"
	"log/slog"
)

// DisabledLogger drops every record, it is installed by --quiet
var DisabledLogger = slog.New(disabledHandler{})

type disabledHandler struct{}

func (disabledHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (disabledHandler) Handle(context.Context, slog.Record) error { return nil }
func (h disabledHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h disabledHandler) WithGroup(string) slog.Handler           { return h }
