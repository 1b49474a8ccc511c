package ast

import (
	"context"
	"log/slog"
)

// Slog wraps an Expr as a slog.LogValuer so that the expression is only
// rendered when the record is actually emitted.
func Slog(expr Expr) slog.LogValuer {
	return exprLogValuer{expr}
}

type exprLogValuer struct{ Expr }

func (l exprLogValuer) LogValue() slog.Value {
	return slog.StringValue(ExprString(l.Expr))
}

// LogValue renders a SourceLocation as a group of its file and line, which
// keeps JSON output queryable.
func (l SourceLocation) LogValue() slog.Value {
	if !l.Start.IsValid() {
		return slog.StringValue(l.String())
	}
	return slog.GroupValue(
		slog.String("file", l.File),
		slog.Int("line", l.Start.Line),
		slog.Int("column", l.Start.Column),
	)
}

// ExprHandler wraps a slog.Handler so that Expr attributes are lazily
// printed as source syntax.
func ExprHandler(underlying slog.Handler) slog.Handler {
	return &exprLogHandler{underlying: underlying}
}

func ExprLogger(underlying *slog.Logger) *slog.Logger {
	return slog.New(ExprHandler(underlying.Handler()))
}

type exprLogHandler struct {
	underlying slog.Handler
}

func (l *exprLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return l.underlying.Enabled(ctx, level)
}

func (l *exprLogHandler) Handle(ctx context.Context, record slog.Record) error {
	newRecord := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		newRecord.AddAttrs(wrapExprAttr(attr))
		return true
	})
	return l.underlying.Handle(ctx, newRecord)
}

func (l *exprLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	wrapped := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		wrapped[i] = wrapExprAttr(attr)
	}
	return ExprHandler(l.underlying.WithAttrs(wrapped))
}

func (l *exprLogHandler) WithGroup(name string) slog.Handler {
	return ExprHandler(l.underlying.WithGroup(name))
}

func wrapExprAttr(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() != slog.KindAny {
		return attr
	}
	if asExpr, isExpr := attr.Value.Any().(Expr); isExpr {
		attr.Value = slog.AnyValue(Slog(asExpr))
	}
	return attr
}
