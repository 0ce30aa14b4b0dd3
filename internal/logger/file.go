package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Writer returns a lumberjack writer for r below f.Path, creating the directory if needed.
func (f LogFile) Writer(r RollingFile) (io.Writer, error) {
	if r.Name == "" {
		return nil, errors.Wrap(ErrFileNameIsEmpty, f.Path)
	}

	if f.Path != "" {
		if err := os.MkdirAll(f.Path, 0o750); err != nil {
			return nil, errors.Wrapf(err, "can't create log directory %s", f.Path)
		}
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(f.Path, r.Name),
		MaxSize:    r.MaxSize,
		MaxAge:     r.MaxAge,
		MaxBackups: r.MaxBackups,
		Compress:   r.Compress,
	}, nil
}

// newFileWriter opens one rolling file per level stream.
func newFileWriter(f LogFile) (*LevelWriter, error) {
	var lw LevelWriter

	streams := []struct {
		dst  *io.Writer
		file RollingFile
	}{
		{&lw.Trace, f.Trace},
		{&lw.Info, f.Info},
		{&lw.Warn, f.Warn},
		{&lw.Error, f.Error},
	}

	for _, s := range streams {
		w, err := f.Writer(s.file)
		if err != nil {
			return nil, err
		}

		*s.dst = w
	}

	return &lw, nil
}
