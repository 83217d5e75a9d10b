/*-
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package classify pkg/classify/errors.go
package classify

import (
	"errors"
	"fmt"
)

var (
	ErrPeerNotFound    = errors.New("peer not present in status output")
	ErrMalformedStatus = errors.New("malformed status output")
)

// ParseError reports a status payload that could not be interpreted.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", ErrMalformedStatus, e.Reason)
	}

	return fmt.Sprintf("%v: %s: %v", ErrMalformedStatus, e.Reason, e.Err)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedStatus}
	}

	return []error{ErrMalformedStatus, e.Err}
}
