package mqtt

import "errors"

// Sentinel errors for MQTT operations.
var (
	ErrConnectionFailed = errors.New("mqtt connection failed")
	ErrNotConnected     = errors.New("mqtt client not connected")
	ErrPublishFailed    = errors.New("mqtt publish failed")
	ErrSubscribeFailed  = errors.New("mqtt subscribe failed")
	ErrInvalidTopic     = errors.New("mqtt topic is invalid")
	ErrInvalidQoS       = errors.New("mqtt qos level is invalid")
)
