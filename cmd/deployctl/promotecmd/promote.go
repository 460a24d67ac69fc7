package promotecmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"sigs.k8s.io/yaml"

	"github.com/vpittamp/backstage-app/cmd/deployctl/pushcmd"
	"github.com/vpittamp/backstage-app/cmd/deployctl/util"
	"github.com/vpittamp/backstage-app/internal/cli"
	internalcmd "github.com/vpittamp/backstage-app/internal/cmd"
)

func NewCmd(
	clientFactory internalcmd.ClientFactory,
	pusherFactory pushcmd.PusherFactory,
	log logr.Logger,
) *cobra.Command {
	const (
		cmdUse   = "promote"
		cmdShort = "publish an image tag and drive it through the Kargo pipeline"
		cmdLong  = "refresh the warehouses subscribed to the image repository and, " +
			"with --wait, block until the target stage serves the pushed tag " +
			"healthy and verified"
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
		printer := cli.NewPrinter(
			cli.WithOut{Out: cmd.OutOrStdout()},
			cli.WithErr{Err: cmd.ErrOrStderr()},
		)

		// Configuration problems surface before any push or query.
		tag, err := opts.resolveTag()
		if err != nil {
			return err
		}
		if opts.Wait && opts.Stage == "" {
			return internalcmd.ErrMissingStage
		}

		repoURL := fmt.Sprintf("%s/%s/%s", opts.Registry, opts.RegistryNamespace, opts.Image)

		if opts.Archive != "" {
			pusher := pusherFactory.Pusher()
			image, err := pusher.Load(opts.Archive)
			if err != nil {
				return err
			}
			reference := repoURL + ":" + tag
			if err := pusher.Push(cmd.Context(), reference, image); err != nil {
				return err
			}
			if err := printer.PrintfOut("pushed %s\n", reference); err != nil {
				return err
			}
		}

		client, err := clientFactory.Client()
		if err != nil {
			return err
		}

		promoter := internalcmd.NewPromoter(client, internalcmd.WithLog{Log: log})

		result, err := promoter.Promote(cmd.Context(), internalcmd.PromoteRequest{
			Project:   opts.Project,
			RepoURL:   repoURL,
			Tag:       tag,
			Warehouse: opts.Warehouse,
			Stage:     opts.Stage,
			Wait:      opts.Wait,
			Timeout:   time.Duration(opts.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			dumpLastStatus(printer, err)
			return err
		}

		if len(result.Warehouses) > 0 {
			rows := make([][]string, 0, len(result.Warehouses))
			for _, name := range result.Warehouses {
				rows = append(rows, []string{name, strconv.FormatBool(result.Refreshed[name])})
			}
			if err := printer.PrintTable([]string{"WAREHOUSE", "REFRESHED"}, rows); err != nil {
				return err
			}
		} else if err := printer.PrintfErr(
			"warning: no warehouse subscribes to %s\n", repoURL,
		); err != nil {
			return err
		}

		if opts.Wait {
			return printer.PrintfOut(
				"stage %s now serves %s:%s (freight %s)\n",
				result.Stage, repoURL, tag, result.FreightName,
			)
		}

		return printer.PrintfOut("triggered promotion pipeline for %s:%s\n", repoURL, tag)
	}

	return cmd
}

// dumpLastStatus prints the stage status captured by a promotion timeout so
// operators can diagnose without re-running the wait.
func dumpLastStatus(printer *cli.Printer, err error) {
	var timeoutErr *internalcmd.PromotionTimeoutError
	if !errors.As(err, &timeoutErr) || timeoutErr.LastStatus == nil {
		return
	}

	raw, marshalErr := yaml.Marshal(timeoutErr.LastStatus)
	if marshalErr != nil {
		return
	}

	_ = printer.PrintfErr("last observed status of stage %s:\n%s", timeoutErr.Stage, raw)
}

type options struct {
	Registry          string
	RegistryNamespace string
	Image             string
	Project           string
	Warehouse         string
	Stage             string
	Wait              bool
	TimeoutSeconds    int
	Archive           string
	Tag               string
	Revision          string
	ReleaseVersion    string
}

func (o *options) resolveTag() (string, error) {
	if o.Tag != "" {
		return o.Tag, nil
	}
	if o.ReleaseVersion != "" {
		return internalcmd.ReleaseTag(o.ReleaseVersion)
	}

	return internalcmd.NewTagger().DevTag(o.Revision), nil
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(
		&o.Registry,
		"registry",
		util.EnvOr("REGISTRY", "ghcr.io"),
		"Registry host to push to and resolve warehouses against",
	)
	flags.StringVar(
		&o.RegistryNamespace,
		"registry-namespace",
		util.EnvOr("REGISTRY_NAMESPACE", "vpittamp"),
		"Registry namespace holding the image repository",
	)
	flags.StringVar(
		&o.Image,
		"image",
		util.EnvOr("IMAGE_NAME", "backstage-app"),
		"Image repository name",
	)
	flags.StringVar(
		&o.Project,
		"project",
		util.EnvOr("KARGO_PROJECT", "backstage"),
		"Kargo project namespace holding warehouses, freight and stages",
	)
	flags.StringVar(
		&o.Warehouse,
		"warehouse",
		util.EnvOr("KARGO_WAREHOUSE", ""),
		"Warehouse to refresh, bypassing subscription discovery",
	)
	flags.StringVar(
		&o.Stage,
		"stage",
		util.EnvOr("KARGO_STAGE", ""),
		"Stage to wait on; required with --wait",
	)
	flags.BoolVar(
		&o.Wait,
		"wait",
		util.EnvBool("WAIT_FOR_PROMOTION", false),
		"Wait until the stage serves the pushed tag healthy and verified",
	)
	flags.IntVar(
		&o.TimeoutSeconds,
		"timeout",
		util.EnvInt("PROMOTION_TIMEOUT", 300),
		"Combined freight and promotion wait budget in seconds",
	)
	flags.StringVar(
		&o.Archive,
		"archive",
		"",
		"OCI image archive to push before triggering the pipeline",
	)
	flags.StringVar(
		&o.Tag,
		"tag",
		"",
		"Exact image tag; defaults to a generated dev or release tag",
	)
	flags.StringVar(
		&o.Revision,
		"revision",
		util.EnvOr("GIT_REVISION", ""),
		"Short commit hash appended to generated dev tags",
	)
	flags.StringVar(
		&o.ReleaseVersion,
		"release-version",
		util.EnvOr("VERSION", ""),
		"Release version (MAJOR.MINOR.PATCH); when set, the release tag is used",
	)
}
