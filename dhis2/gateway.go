/*
gateway.go - DHIS2 Web API collaborator gateway

PURPOSE:
  Implements the scanner's four collaborator contracts by shaping DHIS2
  Web API calls and decoding their JSON envelopes. The transport itself is
  an injected Fetch capability: this package builds paths and parameters
  and interprets payloads, it never opens a connection. Retries, timeouts
  and authentication belong to whatever implements Fetch.

ENDPOINTS:
  GET /api/system/info                     system calendar
  GET /api/dataElements/{id}               dataset linkages (fields filter)
  GET /api/organisationUnits?level=N       org units at a level
  GET /api/dataValueSets?...               raw data points in a window

SEE ALSO:
  - errors.go: CollaboratorError wrapping for failed calls
  - paging.go: Item-key inference for list envelopes
  - analytics/scanner.go: The consumer of these contracts
*/
package dhis2

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/warp/period-engine/analytics"
	"github.com/warp/period-engine/period"
)

// Fetch issues one Web API call and returns the raw JSON payload. Dates
// and periods in params are already ISO-formatted strings.
type Fetch func(ctx context.Context, method, path string, params url.Values, body any) (json.RawMessage, error)

// Gateway adapts a Fetch capability to the scanner's collaborator
// contracts.
type Gateway struct {
	fetch Fetch
	log   zerolog.Logger
}

// NewGateway wraps the fetch capability with a no-op logger.
func NewGateway(fetch Fetch) *Gateway {
	return &Gateway{fetch: fetch, log: zerolog.Nop()}
}

// WithLogger returns a copy of the gateway logging through l.
func (g *Gateway) WithLogger(l zerolog.Logger) *Gateway {
	return &Gateway{fetch: g.fetch, log: l}
}

func (g *Gateway) get(ctx context.Context, path string, params url.Values, into any) error {
	g.log.Debug().Str("path", path).Msg("collaborator call")
	raw, err := g.fetch(ctx, "GET", path, params, nil)
	if err != nil {
		return wrapCollaborator(path, err)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return wrapCollaborator(path, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// SystemCalendar reads the server's active calendar id. A missing field
// decodes to the empty string, which downstream defaults to ISO 8601.
func (g *Gateway) SystemCalendar(ctx context.Context) (string, error) {
	var info struct {
		Calendar string `json:"calendar"`
	}
	if err := g.get(ctx, "/api/system/info", nil, &info); err != nil {
		return "", err
	}
	return info.Calendar, nil
}

// DatasetLinkages reads the datasets a metric reports under, with each
// dataset's period type.
func (g *Gateway) DatasetLinkages(ctx context.Context, metricID string) ([]analytics.DatasetLinkage, error) {
	params := url.Values{}
	params.Set("fields", "dataSetElements[dataSet[id,name,periodType]]")

	var payload struct {
		DataSetElements []struct {
			DataSet struct {
				ID         string `json:"id"`
				Name       string `json:"name"`
				PeriodType string `json:"periodType"`
			} `json:"dataSet"`
		} `json:"dataSetElements"`
	}
	path := "/api/dataElements/" + url.PathEscape(metricID)
	if err := g.get(ctx, path, params, &payload); err != nil {
		return nil, err
	}

	linkages := make([]analytics.DatasetLinkage, 0, len(payload.DataSetElements))
	for _, dse := range payload.DataSetElements {
		linkages = append(linkages, analytics.DatasetLinkage{
			DatasetID:   dse.DataSet.ID,
			DatasetName: dse.DataSet.Name,
			PeriodType:  dse.DataSet.PeriodType,
		})
	}
	return linkages, nil
}

// OrgUnitsAtLevel reads every organisation-unit id at the level.
func (g *Gateway) OrgUnitsAtLevel(ctx context.Context, level int) ([]string, error) {
	params := url.Values{}
	params.Set("level", strconv.Itoa(level))
	params.Set("fields", "id")
	params.Set("paging", "false")

	path := "/api/organisationUnits"
	raw, err := g.fetch(ctx, "GET", path, params, nil)
	if err != nil {
		return nil, wrapCollaborator(path, err)
	}

	// The list key is inferred rather than hard-coded; some deployments
	// alias the envelope key on filtered endpoints.
	items, err := itemsUnderInferredKey(raw)
	if err != nil {
		return nil, wrapCollaborator(path, err)
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		var ou struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(item, &ou); err != nil {
			return nil, wrapCollaborator(path, fmt.Errorf("decode org unit: %w", err))
		}
		if ou.ID != "" {
			ids = append(ids, ou.ID)
		}
	}
	return ids, nil
}

// DataInWindow reads the raw data values for a metric across the given
// organisation units inside [start, end].
func (g *Gateway) DataInWindow(ctx context.Context, metricID string, orgUnits []string, start, end period.Date) ([]analytics.DataPoint, error) {
	params := url.Values{}
	params.Set("dataElement", metricID)
	params.Set("startDate", start.String())
	params.Set("endDate", end.String())
	for _, ou := range orgUnits {
		params.Add("orgUnit", ou)
	}

	var payload struct {
		DataValues []struct {
			OrgUnit string `json:"orgUnit"`
			Period  string `json:"period"`
			Value   string `json:"value"`
		} `json:"dataValues"`
	}
	if err := g.get(ctx, "/api/dataValueSets", params, &payload); err != nil {
		return nil, err
	}

	points := make([]analytics.DataPoint, 0, len(payload.DataValues))
	for _, dv := range payload.DataValues {
		points = append(points, analytics.DataPoint{
			OrgUnit: dv.OrgUnit,
			Period:  dv.Period,
			Value:   dv.Value,
		})
	}
	return points, nil
}
