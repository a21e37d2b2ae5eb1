package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// RecordTrigger writes a zone trigger measurement.
//
// One point per handled entry, tagged by zone for per-zone dashboards.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - zoneID: Zone identifier
//   - zoneName: Zone display name (low cardinality, user-chosen)
//   - failed: Whether any action step errored
func (c *Client) RecordTrigger(zoneID, zoneName string, failed bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"zone_triggers",
		map[string]string{
			"zone_id": zoneID,
			"zone":    zoneName,
		},
		map[string]interface{}{
			"count":  1,
			"failed": failed,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// RecordSync writes a boundary sync measurement.
//
// Used for tracking how often registrations are rebuilt and how many
// boundaries are active.
//
// Parameters:
//   - operation: Sync operation name ("register_all", "unregister_all", "refresh")
//   - count: Number of boundaries affected
//   - err: Error from the operation, or nil
func (c *Client) RecordSync(operation string, count int, err error) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"boundary_sync",
		map[string]string{
			"operation": operation,
		},
		map[string]interface{}{
			"count":  count,
			"failed": err != nil,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
