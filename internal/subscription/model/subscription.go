/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package model

// Subscription plans.
const (
	PlanBasic    = "BASIC"
	PlanStandard = "STANDARD"
	PlanPremium  = "PREMIUM"
)

// Subscription statuses. Only ACTIVE and TRIAL tenants may create rules.
const (
	StatusActive   = "ACTIVE"
	StatusTrial    = "TRIAL"
	StatusPastDue  = "PAST_DUE"
	StatusCanceled = "CANCELED"
)

// UnlimitedRules marks a plan with no active-rule cap.
const UnlimitedRules = -1

// TenantSubscription is the billing state of one tenant.
type TenantSubscription struct {
	TenantId  string `json:"tenant_id"`
	Plan      string `json:"plan"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// IsPayable reports whether the subscription permits rule creation.
func (s *TenantSubscription) IsPayable() bool {
	return s.Status == StatusActive || s.Status == StatusTrial
}

// RuleLimit maps a plan to its maximum number of simultaneously active
// approval rules. Unknown plans get no allowance.
func RuleLimit(plan string) int {
	switch plan {
	case PlanBasic:
		return 0
	case PlanStandard:
		return 3
	case PlanPremium:
		return UnlimitedRules
	default:
		return 0
	}
}
