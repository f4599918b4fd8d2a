package log

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// newHandler builds the rendering handler for the requested format.
func newHandler(format Format, w io.Writer, level slog.Leveler, term bool) slog.Handler {
	if format == JSONFormat {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	if f, ok := w.(*os.File); ok && term {
		w = colorable.NewColorable(f)
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !term,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Nil errors and empty components add nothing.
			if len(groups) == 0 && (a.Key == ErrorKey || a.Key == ComponentKey) {
				if v := a.Value.Any(); v == nil || v == "" {
					return slog.Attr{}
				}
			}
			return a
		},
	})
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
