package log

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/fatih/color"
)

// VerboseEnv turns on debug output when set to "1".
const VerboseEnv = "PREVIEW_VERBOSE"

var (
	PrintError  = color.New(color.FgRed).PrintlnFunc()
	PrintWarn   = color.New(color.FgYellow).PrintlnFunc()
	PrintInfo   = color.New(color.FgCyan).PrintlnFunc()
	PrintfInfo  = color.New(color.FgCyan).PrintfFunc()
	PrintfError = color.New(color.FgRed).PrintfFunc()

	level = &slog.LevelVar{}
)

// Setup installs the coloured handler as the default slog logger. Inside
// Lambda, colour codes and timestamps are dropped from the output.
func Setup(w io.Writer, verbose bool) {
	h := New(w, &slog.HandlerOptions{Level: level})
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		color.NoColor = true
		h.omitTime = true
	}
	SetVerbose(verbose || os.Getenv(VerboseEnv) == "1")
	slog.SetDefault(slog.New(h))
}

// SetVerbose switches debug output on or off for the installed handler.
func SetVerbose(verbose bool) {
	if verbose {
		level.Set(slog.LevelDebug)
		return
	}
	level.Set(slog.LevelInfo)
}

// FromContext returns the default logger annotated with the Lambda request
// ID carried by ctx, if any.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With(slog.String("request_id", lc.AwsRequestID))
	}
	return logger
}

func Info(msg string, v ...interface{}) {
	slog.Info(msg, v...)
}

func Debug(msg string, v ...interface{}) {
	slog.Debug(msg, v...)
}

func Warn(msg string, v ...interface{}) {
	slog.Warn(msg, v...)
}

func Error(msg string, v ...interface{}) {
	slog.Error(msg, v...)
}
