package pushcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	internalcmd "github.com/vpittamp/backstage-app/internal/cmd"
)

type PusherFactory interface {
	Pusher() *internalcmd.Pusher
}

func NewCmd(pusherFactory PusherFactory) *cobra.Command {
	const (
		cmdUse   = "push archive reference"
		cmdShort = "push a built image archive to the registry"
		cmdLong  = "push an OCI image archive produced by the build step to the " +
			"given repository:tag reference"
	)

	cmd := &cobra.Command{
		Use:   cmdUse,
		Short: cmdShort,
		Long:  cmdLong,
		Args:  cobra.ExactArgs(2),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		archivePath, reference := args[0], args[1]

		pusher := pusherFactory.Pusher()

		image, err := pusher.Load(archivePath)
		if err != nil {
			return err
		}

		if err := pusher.Push(cmd.Context(), reference, image); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "pushed %s\n", reference)

		return nil
	}

	return cmd
}
