package discovery

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeBridgeTXT creates the TXT records of a bridge.
func EncodeBridgeTXT(info *BridgeInfo) (TXTRecordMap, error) {
	if !ValidateID(info.BridgeID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBridgeID, info.BridgeID)
	}

	txt := make(TXTRecordMap)

	// Required fields
	txt[TXTKeyBridgeID] = info.BridgeID
	txt[TXTKeyVersion] = strconv.Itoa(ProtocolVersion)

	// Optional fields
	if info.Name != "" {
		txt[TXTKeyName] = info.Name
	}
	if len(info.Models) > 0 {
		txt[TXTKeyModels] = encodeList(info.Models)
	}
	if len(info.Profiles) > 0 {
		txt[TXTKeyProfiles] = encodeList(info.Profiles)
	}
	if info.DeviceCount > 0 {
		txt[TXTKeyDeviceCount] = strconv.Itoa(info.DeviceCount)
	}

	if size := txtSize(txt); size > MaxTXTRecordSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrTXTTooLarge, size, MaxTXTRecordSize)
	}
	return txt, nil
}

// DecodeBridgeTXT parses the TXT records of a bridge into a service.
func DecodeBridgeTXT(txt TXTRecordMap) (*BridgeService, error) {
	svc := &BridgeService{}

	// Parse bridge ID (required)
	id, ok := txt[TXTKeyBridgeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyBridgeID)
	}
	if !ValidateID(id) {
		return nil, fmt.Errorf("%w: invalid bridge ID format", ErrInvalidTXTRecord)
	}
	svc.BridgeID = id

	// Parse version (required)
	vStr, ok := txt[TXTKeyVersion]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyVersion)
	}
	v, err := strconv.Atoi(vStr)
	if err != nil || v < 1 {
		return nil, fmt.Errorf("%w: invalid version %q", ErrInvalidTXTRecord, vStr)
	}
	svc.Version = v

	// Optional fields
	svc.Name = txt[TXTKeyName]
	svc.Models = parseList(txt[TXTKeyModels])
	svc.Profiles = parseList(txt[TXTKeyProfiles])
	if dcStr, ok := txt[TXTKeyDeviceCount]; ok {
		if dc, err := strconv.Atoi(dcStr); err == nil && dc >= 0 {
			svc.DeviceCount = dc
		}
	}
	return svc, nil
}

// encodeList joins values with commas. Commas inside a value are dropped.
func encodeList(values []string) string {
	clean := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		if v != "" {
			clean = append(clean, v)
		}
	}
	return strings.Join(clean, ",")
}

// parseList splits a comma-separated string.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func txtSize(txt TXTRecordMap) int {
	n := 0
	for k, v := range txt {
		// One length byte per string plus "key=value".
		n += 1 + len(k) + 1 + len(v)
	}
	return n
}

// TXTRecordsToStrings converts a TXTRecordMap to a sorted slice of
// "key=value" strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	slices.Sort(result)
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}
