package wire

// Operation is a backend call carried by a request.
type Operation uint8

const (
	// OpEnumerate lists the devices of the bridge. It needs no device id.
	OpEnumerate Operation = 1

	OpOpen              Operation = 2
	OpClose             Operation = 3
	OpInfo              Operation = 4
	OpPropertyIDs       Operation = 5
	OpPropertyInfos     Operation = 6
	OpGetProperty       Operation = 7
	OpSetProperty       Operation = 8
	OpEnumerateProperty Operation = 9
	OpTriggerRelease    Operation = 10
	OpSendCommand       Operation = 11
	OpDownload          Operation = 12
	OpCancelDownload    Operation = 13
	OpPollLiveView      Operation = 14
	OpReadHistogram     Operation = 15
)

var operationNames = [...]string{
	OpEnumerate:         "Enumerate",
	OpOpen:              "Open",
	OpClose:             "Close",
	OpInfo:              "Info",
	OpPropertyIDs:       "PropertyIDs",
	OpPropertyInfos:     "PropertyInfos",
	OpGetProperty:       "GetProperty",
	OpSetProperty:       "SetProperty",
	OpEnumerateProperty: "EnumerateProperty",
	OpTriggerRelease:    "TriggerRelease",
	OpSendCommand:       "SendCommand",
	OpDownload:          "Download",
	OpCancelDownload:    "CancelDownload",
	OpPollLiveView:      "PollLiveView",
	OpReadHistogram:     "ReadHistogram",
}

// String returns the operation name.
func (o Operation) String() string {
	if o.IsValid() {
		return operationNames[o]
	}
	return "Unknown"
}

// IsValid returns true if the operation is known.
func (o Operation) IsValid() bool {
	return o >= OpEnumerate && o <= OpReadHistogram
}

// NeedsDevice returns true if the operation addresses one device.
func (o Operation) NeedsDevice() bool {
	return o != OpEnumerate
}
