package cmd

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"

	kargov1alpha1 "github.com/vpittamp/backstage-app/apis/kargo/v1alpha1"
)

func NewClient(client client.Client) *Client {
	return &Client{
		client: client,
	}
}

// Client is a thin, read-mostly view over the Kargo resources the deploy
// tooling cares about. The only write it performs is the refresh annotation.
type Client struct {
	client client.Client
}

// WarehousesSubscribedTo returns the names of all warehouses in namespace
// with at least one subscription to repoURL. An empty result is not an
// error; callers decide whether that is fatal.
func (c *Client) WarehousesSubscribedTo(
	ctx context.Context, namespace, repoURL string,
) ([]string, error) {
	warehouseList := &kargov1alpha1.WarehouseList{}
	if err := c.client.List(ctx, warehouseList, client.InNamespace(namespace)); err != nil {
		return nil, fmt.Errorf("%w: listing warehouses in %s: %w", ErrQueryFailed, namespace, err)
	}

	var names []string
	for i := range warehouseList.Items {
		if warehouseList.Items[i].SubscribesTo(repoURL) {
			names = append(names, warehouseList.Items[i].Name)
		}
	}

	return names, nil
}

// RefreshWarehouse writes token to the refresh annotation of the named
// warehouse, overwriting any prior value. The Kargo controller is
// edge-triggered on that value, so callers must supply a fresh token per
// call.
func (c *Client) RefreshWarehouse(ctx context.Context, namespace, name, token string) error {
	warehouse := &kargov1alpha1.Warehouse{}
	key := client.ObjectKey{Namespace: namespace, Name: name}
	if err := c.client.Get(ctx, key, warehouse); err != nil {
		if apierrors.IsNotFound(err) {
			return fmt.Errorf("%w: warehouse %s/%s", ErrResourceNotFound, namespace, name)
		}
		return fmt.Errorf("%w: getting warehouse %s/%s: %w", ErrQueryFailed, namespace, name, err)
	}

	patch := client.MergeFrom(warehouse.DeepCopy())
	annotations := warehouse.GetAnnotations()
	if annotations == nil {
		annotations = map[string]string{}
	}
	annotations[kargov1alpha1.AnnotationKeyRefresh] = token
	warehouse.SetAnnotations(annotations)

	if err := c.client.Patch(ctx, warehouse, patch); err != nil {
		return fmt.Errorf("annotating warehouse %s/%s: %w", namespace, name, err)
	}

	return nil
}

// FindFreight lists freight in namespace and returns the first whose image
// set references repoURL at exactly tag. The second return is false when no
// freight matches, which is distinct from a failed query.
func (c *Client) FindFreight(
	ctx context.Context, namespace, repoURL, tag string,
) (*kargov1alpha1.Freight, bool, error) {
	freightList := &kargov1alpha1.FreightList{}
	if err := c.client.List(ctx, freightList, client.InNamespace(namespace)); err != nil {
		return nil, false, fmt.Errorf("%w: listing freight in %s: %w", ErrQueryFailed, namespace, err)
	}

	for i := range freightList.Items {
		if freightList.Items[i].ReferencesImage(repoURL, tag) {
			return &freightList.Items[i], true, nil
		}
	}

	return nil, false, nil
}

// GetStage fetches the named stage in a single read so that all fields of
// the returned status come from one consistent snapshot.
func (c *Client) GetStage(ctx context.Context, namespace, name string) (*kargov1alpha1.Stage, error) {
	stage := &kargov1alpha1.Stage{}
	key := client.ObjectKey{Namespace: namespace, Name: name}
	if err := c.client.Get(ctx, key, stage); err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: stage %s/%s", ErrStageNotFound, namespace, name)
		}
		return nil, fmt.Errorf("%w: getting stage %s/%s: %w", ErrQueryFailed, namespace, name, err)
	}

	return stage, nil
}
