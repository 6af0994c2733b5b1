package clog

import (
	"runtime"

	"go.uber.org/zap/zapcore"
	"golang.org/x/exp/errors"
)

// source returns the frame recorded by golang.org/x/exp/errors/fmt.Errorf
// when err was created, or nil for errors that carry no frame.
func source(err error) *runtime.Frame {
	f, ok := err.(errors.Formatter)
	if !ok {
		return nil
	}
	fp := &framePrinter{}
	f.FormatError(fp)
	if fp.Function == "" || fp.File == "" {
		return nil
	}
	return &fp.Frame
}

type framePrinter struct {
	runtime.Frame
}

func (p *framePrinter) Print(args ...interface{}) {}

func (p *framePrinter) Printf(format string, args ...interface{}) {
	// only the first frame is kept; wrapped errors print theirs after it
	if p.File != "" {
		return
	}
	switch {
	case format == "%s\n    " && len(args) == 1:
		if fn, ok := args[0].(string); ok {
			p.Function = fn
		}
	case format == "%s:%d\n" && len(args) == 2:
		if file, ok := args[0].(string); ok {
			p.File = file
		}
		if line, ok := args[1].(int); ok {
			p.Line = line
		}
	}
}

func (*framePrinter) Detail() bool {
	return true
}

type errContext struct {
	frame *runtime.Frame
}

func (c errContext) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return enc.AddObject("reportLocation", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddString("filePath", c.frame.File)
		enc.AddString("functionName", c.frame.Function)
		enc.AddInt("lineNumber", c.frame.Line)
		return nil
	}))
}
