package promotecmd_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	kargov1alpha1 "github.com/vpittamp/backstage-app/apis/kargo/v1alpha1"
	"github.com/vpittamp/backstage-app/cmd/deployctl/promotecmd"
	internalcmd "github.com/vpittamp/backstage-app/internal/cmd"
)

type stubClientFactory struct {
	kcli   client.Client
	called bool
}

func (f *stubClientFactory) Client() (*internalcmd.Client, error) {
	f.called = true
	return internalcmd.NewClient(f.kcli), nil
}

type stubPusherFactory struct {
	called bool
}

func (f *stubPusherFactory) Pusher() *internalcmd.Pusher {
	f.called = true
	return internalcmd.NewPusher()
}

func newTestCmd(
	t *testing.T, kcli client.Client, args []string,
) (*cobra.Command, *stubClientFactory, *stubPusherFactory, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	clientFactory := &stubClientFactory{kcli: kcli}
	pusherFactory := &stubPusherFactory{}

	cmd := promotecmd.NewCmd(clientFactory, pusherFactory, logr.Discard())
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	return cmd, clientFactory, pusherFactory, out, errOut
}

func TestPromote_MissingStageFailsFast(t *testing.T) {
	cmd, clientFactory, pusherFactory, _, _ := newTestCmd(t, nil, []string{
		"--tag", "v1.2.3",
		"--wait=true",
		"--stage", "",
	})

	err := cmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, internalcmd.ErrMissingStage)
	assert.False(t, clientFactory.called)
	assert.False(t, pusherFactory.called)
}

func TestPromote_InvalidReleaseVersionFailsFast(t *testing.T) {
	cmd, clientFactory, pusherFactory, _, _ := newTestCmd(t, nil, []string{
		"--release-version", "latest",
		"--wait=false",
	})

	err := cmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, internalcmd.ErrInvalidVersion)
	assert.False(t, clientFactory.called)
	assert.False(t, pusherFactory.called)
}

func TestPromote_TriggersRefresh(t *testing.T) {
	scheme, err := internalcmd.NewScheme()
	require.NoError(t, err)

	warehouse := &kargov1alpha1.Warehouse{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "backstage-app",
			Namespace: "backstage",
		},
		Spec: kargov1alpha1.WarehouseSpec{
			Subscriptions: []kargov1alpha1.RepoSubscription{
				{Image: &kargov1alpha1.ImageSubscription{
					RepoURL: "ghcr.io/vpittamp/backstage-app",
				}},
			},
		},
	}

	kcli := fake.NewClientBuilder().
		WithScheme(scheme).
		WithObjects(warehouse).
		Build()

	cmd, _, pusherFactory, out, _ := newTestCmd(t, kcli, []string{
		"--registry", "ghcr.io",
		"--registry-namespace", "vpittamp",
		"--image", "backstage-app",
		"--project", "backstage",
		"--tag", "v1.2.3",
		"--wait=false",
	})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	// No --archive means nothing gets pushed.
	assert.False(t, pusherFactory.called)

	assert.Contains(t, out.String(), "WAREHOUSE")
	assert.Contains(t, out.String(), "backstage-app")
	assert.Contains(t, out.String(),
		"triggered promotion pipeline for ghcr.io/vpittamp/backstage-app:v1.2.3")

	refreshed := &kargov1alpha1.Warehouse{}
	require.NoError(t, kcli.Get(context.Background(), client.ObjectKey{
		Namespace: "backstage", Name: "backstage-app",
	}, refreshed))
	assert.NotEmpty(t, refreshed.Annotations[kargov1alpha1.AnnotationKeyRefresh])
}

func TestPromote_WarnsWithoutSubscriber(t *testing.T) {
	scheme, err := internalcmd.NewScheme()
	require.NoError(t, err)

	kcli := fake.NewClientBuilder().WithScheme(scheme).Build()

	cmd, _, _, _, errOut := newTestCmd(t, kcli, []string{
		"--registry", "ghcr.io",
		"--registry-namespace", "vpittamp",
		"--image", "backstage-app",
		"--project", "backstage",
		"--tag", "v1.2.3",
		"--wait=false",
	})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, errOut.String(), "warning: no warehouse subscribes")
}
