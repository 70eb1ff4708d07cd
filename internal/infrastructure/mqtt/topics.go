package mqtt

import "fmt"

// topicPrefix is the root of the care-bed topic namespace.
const topicPrefix = "carebed"

// Topics builds topic strings for the care-bed namespace.
//
// Scheme:
//
//	carebed/system/status                 controller online/offline (retained)
//	carebed/{bed_id}/state                full bed state (retained)
//	carebed/{bed_id}/telemetry/battery    battery level reports from the bed
type Topics struct{}

// SystemStatus is the controller's online/offline status topic.
func (Topics) SystemStatus() string {
	return topicPrefix + "/system/status"
}

// BedState is the retained full-state topic for a bed.
func (Topics) BedState(bedID string) string {
	return fmt.Sprintf("%s/%s/state", topicPrefix, bedID)
}

// BedBattery is the battery telemetry topic for a bed.
func (Topics) BedBattery(bedID string) string {
	return fmt.Sprintf("%s/%s/telemetry/battery", topicPrefix, bedID)
}
