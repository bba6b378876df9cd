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

import (
	"time"

	rulemodel "github.com/wso2/delivery-approval-service/internal/approval_rules/model"
)

// DeliveryRequest is the candidate transaction evaluated against a tenant's
// rule set. RequestTime defaults to evaluation time when omitted.
type DeliveryRequest struct {
	CustomerPhone string     `json:"customer_phone"`
	ProductIds    []string   `json:"product_ids"`
	TotalAmount   float64    `json:"total_amount"`
	RequestTime   *time.Time `json:"request_time,omitempty"`
}

// EvaluationResult is the complete caller-facing outcome of an evaluation.
// Absence of a match is a successful, negative result.
type EvaluationResult struct {
	ShouldAutoApprove bool                    `json:"should_auto_approve"`
	MatchedRule       *rulemodel.ApprovalRule `json:"matched_rule"`
	Reason            string                  `json:"reason"`
}

// DecisionRecord is the audit trail entry persisted for every evaluation.
type DecisionRecord struct {
	TenantId          string   `bson:"tenant_id" json:"tenant_id"`
	CustomerPhone     string   `bson:"customer_phone" json:"customer_phone"`
	ProductIds        []string `bson:"product_ids" json:"product_ids"`
	TotalAmount       float64  `bson:"total_amount" json:"total_amount"`
	EvaluatedAt       int64    `bson:"evaluated_at" json:"evaluated_at"`
	ShouldAutoApprove bool     `bson:"should_auto_approve" json:"should_auto_approve"`
	MatchedRuleId     string   `bson:"matched_rule_id,omitempty" json:"matched_rule_id,omitempty"`
	MatchedRuleName   string   `bson:"matched_rule_name,omitempty" json:"matched_rule_name,omitempty"`
	Reason            string   `bson:"reason" json:"reason"`
	TraceId           string   `bson:"trace_id,omitempty" json:"trace_id,omitempty"`
}
