package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WritePositionSample records a bed position change.
//
// The write is non-blocking; points are batched and sent asynchronously.
func (c *Client) WritePositionSample(bedID string, back, leg, height int, locked bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"bed_position",
		map[string]string{
			"bed_id": bedID,
		},
		map[string]interface{}{
			"back":   back,
			"leg":    leg,
			"height": height,
			"locked": locked,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteBatterySample records a battery level reading.
func (c *Client) WriteBatterySample(bedID string, level int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"bed_battery",
		map[string]string{
			"bed_id": bedID,
		},
		map[string]interface{}{
			"level": level,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point for measurements the helpers don't
// cover. Tags should stay low cardinality.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}
