// Package influxdb records bed history to InfluxDB v2: position changes
// to the bed_position measurement and battery readings to bed_battery.
// Writes are batched and non-blocking, and the integration is optional;
// when disabled in config the rest of the system runs without it.
package influxdb
