package api

import (
	"context"
	"strconv"

	"github.com/rc-foods/courier-client/internal/domain"
)

// LocationClient shapes requests against the location/areas service.
type LocationClient struct {
	pipeline *Client
}

// NewLocationClient builds the client over a pipeline.
func NewLocationClient(pipeline *Client) *LocationClient {
	return &LocationClient{pipeline: pipeline}
}

// Areas lists every delivery area.
func (c *LocationClient) Areas(ctx context.Context) ([]domain.Area, error) {
	var areas []domain.Area
	if _, err := c.pipeline.Get(ctx, "/areas", nil, &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

// AreaByID fetches a single area.
func (c *LocationClient) AreaByID(ctx context.Context, areaID int) (*domain.Area, error) {
	var area domain.Area
	if _, err := c.pipeline.Get(ctx, "/areas/"+strconv.Itoa(areaID), nil, &area); err != nil {
		return nil, err
	}
	return &area, nil
}

// CreateArea registers a new area. Admin accounts only; the server enforces it.
func (c *LocationClient) CreateArea(ctx context.Context, areaName string) (*domain.Area, error) {
	var area domain.Area
	if _, err := c.pipeline.Post(ctx, "/areas", map[string]string{"area_name": areaName}, &area); err != nil {
		return nil, err
	}
	return &area, nil
}

// UpdateArea renames an area. Admin accounts only.
func (c *LocationClient) UpdateArea(ctx context.Context, areaID int, areaName string) (*domain.Area, error) {
	var area domain.Area
	if _, err := c.pipeline.Put(ctx, "/areas/"+strconv.Itoa(areaID), map[string]string{"area_name": areaName}, &area); err != nil {
		return nil, err
	}
	return &area, nil
}

// DeleteArea removes an area. Admin accounts only.
func (c *LocationClient) DeleteArea(ctx context.Context, areaID int) error {
	_, err := c.pipeline.Delete(ctx, "/areas/"+strconv.Itoa(areaID), nil)
	return err
}
