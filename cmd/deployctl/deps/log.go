package deps

import (
	"flag"

	"github.com/go-logr/logr"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/vpittamp/backstage-app/cmd/deployctl/rootcmd"
)

func ProvideLogFactory(streams rootcmd.IOStreams) LogFactory {
	opts := &zap.Options{
		Development:     true,
		DestWriter:      streams.ErrOut,
		Level:           zapcore.InfoLevel,
		StacktraceLevel: zapcore.ErrorLevel,
	}
	opts.BindFlags(flag.CommandLine)

	return &ZapLogFactory{
		opts: opts,
	}
}

type LogFactory interface {
	Logger() logr.Logger
}

type ZapLogFactory struct {
	opts *zap.Options
}

func (f *ZapLogFactory) Logger() logr.Logger {
	return zap.New(zap.UseFlagOptions(f.opts))
}
