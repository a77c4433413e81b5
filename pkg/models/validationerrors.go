// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"errors"
)

var (
	ValidationErrorMissingDuelID = errors.New("record has no duel id")
	ValidationErrorMissingStatus = errors.New("record has no status")
	ValidationErrorUnknownStatus = errors.New("record status is not a known duel status")
	ValidationErrorEmptyRecord   = errors.New("change envelope has no new record")
)

var validationErrorCodeMap = map[error]int{
	ValidationErrorMissingDuelID: 520101,
	ValidationErrorMissingStatus: 520102,
	ValidationErrorUnknownStatus: 520103,
	ValidationErrorEmptyRecord:   520104,
}

// ValidationErrorCode returns a code for the error.
// It returns log.EIDValidationErrorV1 (20002) if the error is not registered in the map.
func ValidationErrorCode(err error) int {
	code, ok := validationErrorCodeMap[err]
	if !ok {
		return 20002
	}
	return code
}
