package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	kargov1alpha1 "github.com/vpittamp/backstage-app/apis/kargo/v1alpha1"
	"github.com/vpittamp/backstage-app/internal/testutil"
)

func testScheme(t *testing.T) *runtime.Scheme {
	t.Helper()

	scheme, err := NewScheme()
	require.NoError(t, err)

	return scheme
}

func newWarehouse(namespace, name string, repoURLs ...string) *kargov1alpha1.Warehouse {
	warehouse := &kargov1alpha1.Warehouse{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
	}
	for _, repoURL := range repoURLs {
		warehouse.Spec.Subscriptions = append(warehouse.Spec.Subscriptions, kargov1alpha1.RepoSubscription{
			Image: &kargov1alpha1.ImageSubscription{RepoURL: repoURL},
		})
	}

	return warehouse
}

func TestClient_WarehousesSubscribedTo(t *testing.T) {
	t.Parallel()

	const repoURL = "ghcr.io/vpittamp/backstage-app"

	for name, tc := range map[string]struct {
		Objects  []client.Object
		Expected []string
	}{
		"no warehouses": {},
		"no subscriber": {
			Objects: []client.Object{
				newWarehouse("backstage", "other", "ghcr.io/vpittamp/other-app"),
			},
		},
		"single subscriber": {
			Objects: []client.Object{
				newWarehouse("backstage", "backstage-app", repoURL),
				newWarehouse("backstage", "other", "ghcr.io/vpittamp/other-app"),
			},
			Expected: []string{"backstage-app"},
		},
		"multiple subscribers": {
			Objects: []client.Object{
				newWarehouse("backstage", "backstage-app", repoURL),
				newWarehouse("backstage", "mirror", "ghcr.io/vpittamp/other-app", repoURL),
			},
			Expected: []string{"backstage-app", "mirror"},
		},
		"near miss is not a match": {
			Objects: []client.Object{
				newWarehouse("backstage", "trailing-slash", repoURL+"/"),
				newWarehouse("backstage", "case", "ghcr.io/vpittamp/Backstage-app"),
			},
		},
		"other namespace not listed": {
			Objects: []client.Object{
				newWarehouse("elsewhere", "backstage-app", repoURL),
			},
		},
	} {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			kcli := fake.NewClientBuilder().
				WithScheme(testScheme(t)).
				WithObjects(tc.Objects...).
				Build()
			c := NewClient(kcli)

			names, err := c.WarehousesSubscribedTo(context.Background(), "backstage", repoURL)

			require.NoError(t, err)
			assert.ElementsMatch(t, tc.Expected, names)
		})
	}
}

func TestClient_WarehousesSubscribedTo_QueryFailed(t *testing.T) {
	t.Parallel()

	kcli := testutil.NewClient()
	kcli.On("List", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection refused"))
	c := NewClient(kcli)

	_, err := c.WarehousesSubscribedTo(context.Background(), "backstage", "ghcr.io/vpittamp/backstage-app")

	require.ErrorIs(t, err, ErrQueryFailed)
}

func TestClient_RefreshWarehouse(t *testing.T) {
	t.Parallel()

	warehouse := newWarehouse("backstage", "backstage-app", "ghcr.io/vpittamp/backstage-app")
	kcli := fake.NewClientBuilder().
		WithScheme(testScheme(t)).
		WithObjects(warehouse).
		Build()
	c := NewClient(kcli)

	require.NoError(t, c.RefreshWarehouse(
		context.Background(), "backstage", "backstage-app", "2024-01-01T12:00:00Z",
	))

	refreshed := &kargov1alpha1.Warehouse{}
	require.NoError(t, kcli.Get(
		context.Background(),
		client.ObjectKey{Namespace: "backstage", Name: "backstage-app"},
		refreshed,
	))
	assert.Equal(t,
		"2024-01-01T12:00:00Z",
		refreshed.Annotations[kargov1alpha1.AnnotationKeyRefresh],
	)

	// A later trigger overwrites the previous token.
	require.NoError(t, c.RefreshWarehouse(
		context.Background(), "backstage", "backstage-app", "2024-01-01T12:00:01Z",
	))
	require.NoError(t, kcli.Get(
		context.Background(),
		client.ObjectKey{Namespace: "backstage", Name: "backstage-app"},
		refreshed,
	))
	assert.Equal(t,
		"2024-01-01T12:00:01Z",
		refreshed.Annotations[kargov1alpha1.AnnotationKeyRefresh],
	)
}

func TestClient_RefreshWarehouse_NotFound(t *testing.T) {
	t.Parallel()

	kcli := fake.NewClientBuilder().
		WithScheme(testScheme(t)).
		Build()
	c := NewClient(kcli)

	err := c.RefreshWarehouse(context.Background(), "backstage", "missing", "2024-01-01T12:00:00Z")

	require.ErrorIs(t, err, ErrResourceNotFound)
}

func newFreight(namespace, name, repoURL, tag string) *kargov1alpha1.Freight {
	return &kargov1alpha1.Freight{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Images: []kargov1alpha1.Image{
			{RepoURL: repoURL, Tag: tag},
		},
	}
}

func TestClient_FindFreight(t *testing.T) {
	t.Parallel()

	const (
		repoURL = "ghcr.io/vpittamp/backstage-app"
		tag     = "dev-20240101-120000-abc1234"
	)

	for name, tc := range map[string]struct {
		Objects  []client.Object
		Expected string
		Found    bool
	}{
		"no freight": {},
		"exact match": {
			Objects: []client.Object{
				newFreight("backstage", "freight-abc", repoURL, tag),
			},
			Expected: "freight-abc",
			Found:    true,
		},
		"near miss tag": {
			Objects: []client.Object{
				newFreight("backstage", "freight-abc", repoURL, "dev-20240101-120000-abc1235"),
			},
		},
		"near miss repository": {
			Objects: []client.Object{
				newFreight("backstage", "freight-abc", repoURL+"x", tag),
			},
		},
		"match among several images": {
			Objects: []client.Object{
				&kargov1alpha1.Freight{
					ObjectMeta: metav1.ObjectMeta{
						Name:      "freight-multi",
						Namespace: "backstage",
					},
					Images: []kargov1alpha1.Image{
						{RepoURL: "ghcr.io/vpittamp/other-app", Tag: "v1.0.0"},
						{RepoURL: repoURL, Tag: tag},
					},
				},
			},
			Expected: "freight-multi",
			Found:    true,
		},
	} {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			kcli := fake.NewClientBuilder().
				WithScheme(testScheme(t)).
				WithObjects(tc.Objects...).
				Build()
			c := NewClient(kcli)

			freight, found, err := c.FindFreight(context.Background(), "backstage", repoURL, tag)

			require.NoError(t, err)
			require.Equal(t, tc.Found, found)
			if tc.Found {
				assert.Equal(t, tc.Expected, freight.Name)
			}
		})
	}
}

func TestClient_FindFreight_QueryFailed(t *testing.T) {
	t.Parallel()

	kcli := testutil.NewClient()
	kcli.On("List", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection refused"))
	c := NewClient(kcli)

	_, found, err := c.FindFreight(
		context.Background(), "backstage", "ghcr.io/vpittamp/backstage-app", "dev-1",
	)

	require.ErrorIs(t, err, ErrQueryFailed)
	assert.False(t, found)
}

func TestClient_GetStage(t *testing.T) {
	t.Parallel()

	stage := &kargov1alpha1.Stage{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "production",
			Namespace: "backstage",
		},
		Status: kargov1alpha1.StageStatus{
			FreightSummary: "freight-abc",
			Health:         kargov1alpha1.StageHealthStateHealthy,
		},
	}
	kcli := fake.NewClientBuilder().
		WithScheme(testScheme(t)).
		WithObjects(stage).
		Build()
	c := NewClient(kcli)

	got, err := c.GetStage(context.Background(), "backstage", "production")

	require.NoError(t, err)
	assert.Equal(t, "freight-abc", got.Status.FreightSummary)
}

func TestClient_GetStage_NotFound(t *testing.T) {
	t.Parallel()

	kcli := fake.NewClientBuilder().
		WithScheme(testScheme(t)).
		Build()
	c := NewClient(kcli)

	_, err := c.GetStage(context.Background(), "backstage", "missing")

	require.ErrorIs(t, err, ErrStageNotFound)
}

func TestClient_GetStage_QueryFailed(t *testing.T) {
	t.Parallel()

	kcli := testutil.NewClient()
	kcli.On("Get", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection refused"))
	c := NewClient(kcli)

	_, err := c.GetStage(context.Background(), "backstage", "production")

	require.ErrorIs(t, err, ErrQueryFailed)
	require.NotErrorIs(t, err, ErrStageNotFound)
}
