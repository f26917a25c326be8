package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	mtypes "github.com/turtacn/molmatch/pkg/types/molecule"
)

// MoleculeList is one page of the molecule registry.
type MoleculeList struct {
	Molecules  []mtypes.MoleculeSummary `json:"molecules"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	TotalPages int                      `json:"total_pages"`
}

// MoleculesClient manages stored molecules.
type MoleculesClient struct {
	client *Client
}

// Create stores g and returns its summary, including the assigned ID.
func (m *MoleculesClient) Create(ctx context.Context, g *mtypes.MoleculeGraphDTO) (*mtypes.MoleculeSummary, error) {
	if g == nil || len(g.Atoms) == 0 {
		return nil, fmt.Errorf("%w: molecule has no atoms", ErrInvalidArgument)
	}
	var out mtypes.MoleculeSummary
	if err := m.client.post(ctx, "/api/v1/molecules", g, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *MoleculesClient) Get(ctx context.Context, id string) (*mtypes.MoleculeGraphDTO, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: molecule id is required", ErrInvalidArgument)
	}
	var out mtypes.MoleculeGraphDTO
	if err := m.client.get(ctx, "/api/v1/molecules/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns one page; zero page or pageSize leaves the server default.
func (m *MoleculesClient) List(ctx context.Context, page, pageSize int) (*MoleculeList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	path := "/api/v1/molecules"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out MoleculeList
	if err := m.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *MoleculesClient) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: molecule id is required", ErrInvalidArgument)
	}
	return m.client.delete(ctx, "/api/v1/molecules/"+url.PathEscape(id))
}

//Personal.AI order the ending
