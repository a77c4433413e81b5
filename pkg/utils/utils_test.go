// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetMapValueString(t *testing.T) {
	t.Parallel()

	m := map[string]interface{}{"name": "duel", "count": 3}
	assert.Equal(t, "duel", GetMapValueString(m, "name"))
	assert.Equal(t, "", GetMapValueString(m, "count"))
	assert.Equal(t, "", GetMapValueString(m, "missing"))
	assert.Equal(t, "", GetMapValueString(nil, "name"))
}

func TestGetMapValueInt(t *testing.T) {
	t.Parallel()

	m := map[string]interface{}{"asInt": 3, "asFloat": float64(7), "asString": "9"}

	v, ok := GetMapValueInt(m, "asInt")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = GetMapValueInt(m, "asFloat")
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = GetMapValueInt(m, "asString")
	assert.False(t, ok)

	_, ok = GetMapValueInt(m, "missing")
	assert.False(t, ok)
}

func TestGetMapValueTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := map[string]interface{}{
		"asTime":   now,
		"asString": "2025-06-01T12:00:00Z",
		"garbage":  "yesterday",
	}

	v, ok := GetMapValueTime(m, "asTime")
	assert.True(t, ok)
	assert.Equal(t, now, v)

	v, ok = GetMapValueTime(m, "asString")
	assert.True(t, ok)
	assert.Equal(t, now, v)

	_, ok = GetMapValueTime(m, "garbage")
	assert.False(t, ok)
}

func TestContains(t *testing.T) {
	t.Parallel()

	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains([]string{"a", "b"}, "c"))
	assert.False(t, Contains(nil, "a"))
}
