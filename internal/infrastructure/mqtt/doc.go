// Package mqtt provides the broker connection used for bed telemetry:
// battery level reports arrive on carebed/{bed_id}/telemetry/battery and
// the full bed state is mirrored, retained, to carebed/{bed_id}/state.
// The client auto-reconnects, restores subscriptions, and announces
// online/offline status with a Last Will on carebed/system/status.
package mqtt
