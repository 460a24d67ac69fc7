package tagcmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vpittamp/backstage-app/cmd/deployctl/util"
	internalcmd "github.com/vpittamp/backstage-app/internal/cmd"
)

func NewCmd() *cobra.Command {
	const (
		cmdUse   = "tag"
		cmdShort = "print the image tag a deploy of the current tree would use"
		cmdLong  = "print the image tag a deploy of the current tree would use, " +
			"either a timestamped dev tag or a normalized release version"
	)

	cmd := &cobra.Command{
		Use:   cmdUse,
		Short: cmdShort,
		Long:  cmdLong,
		Args:  cobra.NoArgs,
	}

	var opts options

	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		tag, err := resolveTag(opts)
		if err != nil {
			return err
		}

		cmd.Println(tag)

		return nil
	}

	return cmd
}

func resolveTag(opts options) (string, error) {
	if opts.ReleaseVersion != "" {
		return internalcmd.ReleaseTag(opts.ReleaseVersion)
	}

	return internalcmd.NewTagger().DevTag(opts.Revision), nil
}

type options struct {
	Revision       string
	ReleaseVersion string
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(
		&o.Revision,
		"revision",
		util.EnvOr("GIT_REVISION", ""),
		"Short commit hash appended to dev tags",
	)
	flags.StringVar(
		&o.ReleaseVersion,
		"release-version",
		util.EnvOr("VERSION", ""),
		"Release version (MAJOR.MINOR.PATCH); when set, a release tag is produced instead of a dev tag",
	)
}
