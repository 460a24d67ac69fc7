package deps

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/dig"

	"github.com/vpittamp/backstage-app/cmd/deployctl/promotecmd"
	"github.com/vpittamp/backstage-app/cmd/deployctl/pushcmd"
	"github.com/vpittamp/backstage-app/cmd/deployctl/rootcmd"
	"github.com/vpittamp/backstage-app/cmd/deployctl/tagcmd"
	"github.com/vpittamp/backstage-app/cmd/deployctl/versioncmd"
	internalcmd "github.com/vpittamp/backstage-app/internal/cmd"
)

func ProvideIOStreams() rootcmd.IOStreams {
	return rootcmd.IOStreams{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}

func ProvideArgs() []string {
	return os.Args[1:]
}

type RootSubCommandResult struct {
	dig.Out

	SubCommand *cobra.Command `group:"rootSubCommands"`
}

func ProvideTagCmd() RootSubCommandResult {
	return RootSubCommandResult{
		SubCommand: tagcmd.NewCmd(),
	}
}

func ProvidePushCmd(f LogFactory) RootSubCommandResult {
	return RootSubCommandResult{
		SubCommand: pushcmd.NewCmd(&defaultPusherFactory{logFactory: f}),
	}
}

type defaultPusherFactory struct {
	logFactory LogFactory
}

func (f *defaultPusherFactory) Pusher() *internalcmd.Pusher {
	return internalcmd.NewPusher(
		internalcmd.WithLog{Log: f.logFactory.Logger()},
	)
}

func ProvidePromoteCmd(clientFactory internalcmd.ClientFactory, f LogFactory) RootSubCommandResult {
	return RootSubCommandResult{
		SubCommand: promotecmd.NewCmd(clientFactory, &defaultPusherFactory{logFactory: f}, f.Logger()),
	}
}

func ProvideVersionCmd() RootSubCommandResult {
	return RootSubCommandResult{
		SubCommand: versioncmd.NewCmd(),
	}
}
