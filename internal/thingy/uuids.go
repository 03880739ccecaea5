package thingy

import (
	"fmt"

	"tinygo.org/x/bluetooth"
)

// All Thingy:52 vendor UUIDs share the base EF68xxxx-9B35-4933-9B10-52FFA9740042.
func thingyUUID(short uint16) bluetooth.UUID {
	uuid, err := bluetooth.ParseUUID(fmt.Sprintf("ef68%04x-9b35-4933-9b10-52ffa9740042", short))
	if err != nil {
		panic(err)
	}
	return uuid
}

// Thingy configuration service
var (
	TCSUUID           = thingyUUID(0x0100)
	TCSNameUUID       = thingyUUID(0x0101)
	TCSAdvParamsUUID  = thingyUUID(0x0102)
	TCSConnParamsUUID = thingyUUID(0x0104)
	TCSEddystoneUUID  = thingyUUID(0x0105)
	TCSCloudTokenUUID = thingyUUID(0x0106)
	TCSFWVersionUUID  = thingyUUID(0x0107)
	TCSMTURequestUUID = thingyUUID(0x0108)
)

// Thingy sound service
var (
	TSSUUID            = thingyUUID(0x0500)
	TSSConfigUUID      = thingyUUID(0x0501)
	TSSSpeakerDataUUID = thingyUUID(0x0502)
	TSSSpeakerStatUUID = thingyUUID(0x0503)
	TSSMicrophoneUUID  = thingyUUID(0x0504)
)

var uuidNames = map[bluetooth.UUID]string{
	TCSUUID:           "Thingy Configuration Service",
	TCSNameUUID:       "Device Name",
	TCSAdvParamsUUID:  "Advertising Parameters",
	TCSConnParamsUUID: "Connection Parameters",
	TCSEddystoneUUID:  "Eddystone URL",
	TCSCloudTokenUUID: "Cloud Token",
	TCSFWVersionUUID:  "Firmware Version",
	TCSMTURequestUUID: "MTU Request",

	TSSUUID:            "Thingy Sound Service",
	TSSConfigUUID:      "Sound Configuration",
	TSSSpeakerDataUUID: "Speaker Data",
	TSSSpeakerStatUUID: "Speaker Status",
	TSSMicrophoneUUID:  "Microphone",
}

// DescribeUUID returns a human readable name for a known Thingy UUID, or ""
// if the UUID is not one of ours.
func DescribeUUID(uuid bluetooth.UUID) string {
	return uuidNames[uuid]
}
