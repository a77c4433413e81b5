// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package utils

import (
	"time"
)

// GetMapValueAs get and cast to a type
func GetMapValueAs[T any](m map[string]interface{}, key string) (t T, ok bool) {
	var v interface{}
	if m == nil {
		return t, false
	}
	if v, ok = m[key]; !ok {
		return t, false
	}
	switch val := v.(type) {
	case T:
		return val, true
	default:
		return t, false
	}
}

// GetMapValueString gets a string value out of a record map, tolerating
// missing and nil entries.
func GetMapValueString(m map[string]interface{}, key string) string {
	v, _ := GetMapValueAs[string](m, key)
	return v
}

// GetMapValueInt gets an integer out of a record map. Realtime payloads
// decode JSON numbers as float64, so both representations are accepted.
func GetMapValueInt(m map[string]interface{}, key string) (int, bool) {
	if v, ok := GetMapValueAs[int](m, key); ok {
		return v, true
	}
	if v, ok := GetMapValueAs[float64](m, key); ok {
		return int(v), true
	}
	return 0, false
}

// GetMapValueTime parses an RFC3339 timestamp out of a record map.
func GetMapValueTime(m map[string]interface{}, key string) (time.Time, bool) {
	if v, ok := GetMapValueAs[time.Time](m, key); ok {
		return v, true
	}
	if v, ok := GetMapValueAs[string](m, key); ok {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Contains return true if val exist in list, else return false.
func Contains[T comparable](list []T, val T) bool {
	for _, v := range list {
		if v == val {
			return true
		}
	}
	return false
}
