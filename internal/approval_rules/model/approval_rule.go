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

// Rule types supported by the evaluator. The type of a rule is fixed at
// creation time.
const (
	RuleTypeCustomer = "CUSTOMER"
	RuleTypeProduct  = "PRODUCT"
	RuleTypeAmount   = "AMOUNT"
	RuleTypeTime     = "TIME"
	RuleTypeCombined = "COMBINED"
)

// AllowedRuleTypes defines the valid set of rule types.
var AllowedRuleTypes = map[string]bool{
	RuleTypeCustomer: true,
	RuleTypeProduct:  true,
	RuleTypeAmount:   true,
	RuleTypeTime:     true,
	RuleTypeCombined: true,
}

// AllowedWeekdayCodes defines the valid three-letter weekday codes for time
// window conditions.
var AllowedWeekdayCodes = map[string]bool{
	"SUN": true,
	"MON": true,
	"TUE": true,
	"WED": true,
	"THU": true,
	"FRI": true,
	"SAT": true,
}

// ApprovalRule represents an auto-approval rule owned by one tenant. Only the
// condition fields relevant to the rule type are populated; the evaluator
// dispatches on RuleType.
type ApprovalRule struct {
	RuleId         string   `json:"rule_id" bson:"rule_id"`
	TenantId       string   `json:"tenant_id" bson:"tenant_id"`
	RuleName       string   `json:"rule_name" bson:"rule_name"`
	Description    string   `json:"description,omitempty" bson:"description,omitempty"`
	RuleType       string   `json:"rule_type" bson:"rule_type"`
	Priority       int      `json:"priority" bson:"priority"`
	IsActive       bool     `json:"is_active" bson:"is_active"`
	CustomerPhones []string `json:"customer_phones,omitempty" bson:"customer_phones,omitempty"`
	ProductIds     []string `json:"product_ids,omitempty" bson:"product_ids,omitempty"`
	MinAmount      *float64 `json:"min_amount,omitempty" bson:"min_amount,omitempty"`
	MaxAmount      *float64 `json:"max_amount,omitempty" bson:"max_amount,omitempty"`
	AllowedDays    []string `json:"allowed_days,omitempty" bson:"allowed_days,omitempty"`
	StartTime      string   `json:"start_time,omitempty" bson:"start_time,omitempty"`
	EndTime        string   `json:"end_time,omitempty" bson:"end_time,omitempty"`
	CreatedAt      int64    `json:"created_at" bson:"created_at"`
	UpdatedAt      int64    `json:"updated_at" bson:"updated_at"`
}

// HasCustomerCondition reports whether a customer whitelist is present.
func (r *ApprovalRule) HasCustomerCondition() bool {
	return len(r.CustomerPhones) > 0
}

// HasProductCondition reports whether a product whitelist is present.
func (r *ApprovalRule) HasProductCondition() bool {
	return len(r.ProductIds) > 0
}

// HasAmountCondition reports whether at least one amount bound is present.
func (r *ApprovalRule) HasAmountCondition() bool {
	return r.MinAmount != nil || r.MaxAmount != nil
}

// HasTimeCondition reports whether the full time window is present. A partial
// window (missing days or either bound) is not evaluable.
func (r *ApprovalRule) HasTimeCondition() bool {
	return len(r.AllowedDays) > 0 && r.StartTime != "" && r.EndTime != ""
}
