// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package analysis

import (
	"errors"
	"fmt"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// ErrPolicyViolation marks a caller-supplied SelectionPolicy that cannot be
// executed. It is a configuration error raised before any processing begins,
// never a data-dependent runtime condition.
var ErrPolicyViolation = errors.New("selection policy violation")

// ValidatePolicy checks a SelectionPolicy for internal consistency. A policy
// with a duration window turned inside out, or a non-positive segment cap,
// fails fast here so the selection pipeline never runs on bad parameters.
//
// Inputs:
//   - policy: The policy to validate.
//
// Outputs:
//   - error: A wrapped ErrPolicyViolation describing the problem, or nil.
func ValidatePolicy(policy model.SelectionPolicy) error {
	if policy.MaxSegments <= 0 {
		return fmt.Errorf("%w: max segments must be positive, got %d",
			ErrPolicyViolation, policy.MaxSegments)
	}
	if policy.MinDuration > policy.MaxDuration {
		return fmt.Errorf("%w: min duration %.1fs exceeds max duration %.1fs",
			ErrPolicyViolation, policy.MinDuration, policy.MaxDuration)
	}
	return nil
}
