package internallogging

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/thediveo/enumflag/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelIds maps log levels to their names (enumflag identifiers).
var LevelIds = map[zapcore.Level][]string{
	zapcore.DebugLevel:  {"debug"},
	zapcore.InfoLevel:   {"info"},
	zapcore.WarnLevel:   {"warn"},
	zapcore.ErrorLevel:  {"error"},
	zapcore.DPanicLevel: {"dpanic"},
	zapcore.PanicLevel:  {"panic"},
	zapcore.FatalLevel:  {"fatal"},
}

// LevelNames returns the level names, from the most to the least verbose.
func LevelNames() []string {
	keys := []int{}
	for k := range LevelIds {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)

	values := []string{}
	for _, k := range keys {
		values = append(values, LevelIds[zapcore.Level(k)][0])
	}

	return values
}

// LevelFlag defines an enum flag for a zapcore.Level, with completion for its names.
func LevelFlag(fs *pflag.FlagSet, p *zapcore.Level, name, short, descr string) {
	addendum := fmt.Sprintf(" {%s}", strings.Join(LevelNames(), ","))
	fs.VarP(enumflag.New(p, "level", LevelIds, enumflag.EnumCaseInsensitive), name, short, descr+addendum)
}

// New creates a console logger writing to w at the given level.
func New(level zapcore.Level, w io.Writer) *zap.Logger {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), zap.NewAtomicLevelAt(level))

	return zap.New(core)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}

	return l
}
