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

import "github.com/wso2/delivery-approval-service/internal/system/pagination"

// CreateRuleRequest is the creation payload. Priority and IsActive are
// pointers so that an omitted value can be defaulted (priority 1, active).
type CreateRuleRequest struct {
	RuleName       string   `json:"rule_name"`
	Description    string   `json:"description,omitempty"`
	RuleType       string   `json:"rule_type"`
	Priority       *int     `json:"priority,omitempty"`
	IsActive       *bool    `json:"is_active,omitempty"`
	CustomerPhones []string `json:"customer_phones,omitempty"`
	ProductIds     []string `json:"product_ids,omitempty"`
	MinAmount      *float64 `json:"min_amount,omitempty"`
	MaxAmount      *float64 `json:"max_amount,omitempty"`
	AllowedDays    []string `json:"allowed_days,omitempty"`
	StartTime      string   `json:"start_time,omitempty"`
	EndTime        string   `json:"end_time,omitempty"`
}

// StatusUpdateRequest toggles a rule between active and inactive.
type StatusUpdateRequest struct {
	IsActive bool `json:"is_active"`
}

// TierInfo reports the tenant's plan and rule usage in listings. RulesLimit
// is -1 for unlimited plans.
type TierInfo struct {
	Plan       string `json:"plan"`
	RulesUsed  int    `json:"rules_used"`
	RulesLimit int    `json:"rules_limit"`
}

// RuleListResponse is a paginated rule listing with tier usage.
type RuleListResponse struct {
	Rules      []ApprovalRule        `json:"rules"`
	Pagination pagination.Pagination `json:"pagination"`
	Tier       TierInfo              `json:"tier"`
}

// ListFilter narrows a rule listing. IsActive nil means no status filter.
type ListFilter struct {
	IsActive *bool
}
